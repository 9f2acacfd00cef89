// Why this file: ./internal/app/app.go
// This wires the whole agent together: config -> logger -> storage -> domain
// databases (seeded on first run) -> tools -> result cache -> router -> file
// watcher. Everything downstream receives its dependencies from here.
package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/deshq-knowledge-agent/config"
	"github.com/yourusername/deshq-knowledge-agent/display"
	"github.com/yourusername/deshq-knowledge-agent/internal/cache"
	"github.com/yourusername/deshq-knowledge-agent/internal/classifier"
	"github.com/yourusername/deshq-knowledge-agent/internal/confidence"
	"github.com/yourusername/deshq-knowledge-agent/internal/router"
	"github.com/yourusername/deshq-knowledge-agent/internal/tools"
	"github.com/yourusername/deshq-knowledge-agent/models"
	"github.com/yourusername/deshq-knowledge-agent/storage"
)

// Application is the main application container
type Application struct {
	config    *config.Config
	logger    *zap.Logger
	store     *storage.Store
	domainDBs map[string]*storage.DomainDB
	cache     *cache.ResultCache
	router    *router.Router
	watcher   *DBWatcher
	sessionID string
	done      chan struct{}
}

// New creates and wires the application from configuration.
func New(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	app := &Application{
		config:    cfg,
		logger:    logger,
		domainDBs: make(map[string]*storage.DomainDB),
		sessionID: newSessionID(),
		done:      make(chan struct{}),
	}

	store, err := storage.NewStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open application database: %w", err)
	}
	app.store = store

	if err := app.openDomainDBs(); err != nil {
		app.Close()
		return nil, err
	}

	var backend cache.PersistenceBackend
	if cfg.Cache.Persistent {
		backend = storage.NewCacheBackend(store)
	}
	app.cache = cache.New(cache.Config{
		MaxEntries: cfg.Cache.MaxEntries,
		Backend:    backend,
		Logger:     logger.Named("cache"),
	})
	if cfg.Cache.SweepInterval > 0 {
		app.cache.StartSweeper(app.done, cfg.Cache.SweepInterval)
	}

	executors := []router.ToolExecutor{
		tools.NewInstitutionsTool(app.domainDBs[models.ToolInstitutions]),
		tools.NewHospitalsTool(app.domainDBs[models.ToolHospitals]),
		tools.NewRestaurantsTool(app.domainDBs[models.ToolRestaurants]),
		tools.NewWebSearchTool(cfg.Search.APIKey, cfg.Search.Model),
	}

	app.router, err = router.New(
		classifier.New(classifier.DefaultLexicon()),
		confidence.NewScorer(),
		app.cache,
		executors,
		router.Config{
			CacheEnabled: cfg.Cache.Enabled,
			CacheTTL:     cfg.Cache.TTL,
			ToolTimeout:  cfg.App.ToolTimeout,
		},
		logger.Named("router"),
	)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to build router: %w", err)
	}

	if cfg.Database.EnableWatcher {
		watcher, err := NewDBWatcher(app.domainDBs, app.cache, logger.Named("watcher"))
		if err != nil {
			// The watcher is a convenience; the agent works without it.
			logger.Warn("database watcher disabled", zap.Error(err))
		} else {
			app.watcher = watcher
			app.watcher.Start(app.done)
		}
	}

	logger.Info("application initialized",
		zap.String("session_id", app.sessionID),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("cache_persistent", cfg.Cache.Persistent))
	return app, nil
}

// openDomainDBs opens the three domain databases and seeds empty ones.
func (a *Application) openDomainDBs() error {
	for domain, path := range a.config.DomainDBPaths() {
		db, err := storage.OpenDomainDB(path, domain)
		if err != nil {
			return fmt.Errorf("failed to open %s database: %w", domain, err)
		}
		a.domainDBs[domain] = db

		if !a.config.Database.SeedOnFirstRun {
			continue
		}
		count, err := db.RowCount()
		if err != nil {
			return fmt.Errorf("failed to inspect %s database: %w", domain, err)
		}
		if count > 0 {
			continue
		}
		bar := display.SeedProgressBar(domain, storage.SeedRowCount(domain))
		if err := db.EnsureSeeded(bar); err != nil {
			return fmt.Errorf("failed to seed %s database: %w", domain, err)
		}
	}
	return nil
}

// SessionID returns the identifier assigned to this run.
func (a *Application) SessionID() string { return a.sessionID }

// ProcessQuery answers one query end to end and logs it to the query journal.
func (a *Application) ProcessQuery(ctx context.Context, raw string) *models.Answer {
	answer := a.router.Answer(ctx, raw)

	if err := a.store.LogQuery(a.sessionID, answer.QuestionType, answer); err != nil {
		a.logger.Warn("failed to log query", zap.Error(err))
	}
	return answer
}

// ExplainRouting returns the routing breakdown for a query without running it.
func (a *Application) ExplainRouting(raw string) string {
	return a.router.Explain(raw)
}

// History returns the most recent logged queries.
func (a *Application) History(limit int) ([]storage.LoggedQuery, error) {
	return a.store.RecentQueries(limit)
}

// SessionStats summarizes the current session from the query journal.
func (a *Application) SessionStats() (*storage.SessionStats, error) {
	return a.store.GetSessionStats(a.sessionID)
}

// CacheStats reports result-cache statistics.
func (a *Application) CacheStats() models.CacheStats { return a.router.CacheStats() }

// ClearCache empties the result cache.
func (a *Application) ClearCache() { a.router.CacheClearAll() }

// ClearExpiredCache drops expired entries and returns how many were removed.
func (a *Application) ClearExpiredCache() int { return a.router.CacheClearExpired() }

// Close stops background work and closes all databases.
func (a *Application) Close() error {
	select {
	case <-a.done:
	default:
		close(a.done)
	}
	if a.watcher != nil {
		a.watcher.Close()
	}
	for _, db := range a.domainDBs {
		db.Close()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// newSessionID generates a short random session identifier.
func newSessionID() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("session_%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("session_%s_%s", time.Now().Format("20060102"), hex.EncodeToString(buf))
}
