// Why this file: ./cmd/main.go
// This is the interactive entry point: load config, build the application,
// and run the command loop (questions plus explain/history/stats/cache admin).
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/yourusername/deshq-knowledge-agent/config"
	"github.com/yourusername/deshq-knowledge-agent/display"
	"github.com/yourusername/deshq-knowledge-agent/internal/app"
	"github.com/yourusername/deshq-knowledge-agent/internal/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	fmt.Printf("🇧🇩 %s v%s\n", cfg.App.Name, cfg.App.Version)
	fmt.Printf("🔄 Initializing...\n")

	application, err := app.New(cfg, log)
	if err != nil {
		fmt.Printf("❌ Failed to initialize application: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	fmt.Printf("✅ Ready (session %s)\n", application.SessionID())
	showWelcome()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-signalCh
		fmt.Println("\n👋 Shutting down...")
		application.Close()
		os.Exit(0)
	}()

	runInteractiveCLI(ctx, application)
}

func runInteractiveCLI(ctx context.Context, application *app.Application) {
	promptColor := color.New(color.FgCyan, color.Bold)
	scanner := bufio.NewScanner(os.Stdin)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		promptColor.Print("deshq> ")
		if !scanner.Scan() {
			fmt.Println("\n👋 Goodbye!")
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		cmd, rest := splitCommand(input)
		switch cmd {
		case "quit", "exit", "q":
			fmt.Println("👋 Goodbye!")
			return

		case "help":
			showWelcome()

		case "explain":
			if rest == "" {
				fmt.Println("Usage: explain <question>")
				continue
			}
			fmt.Println(application.ExplainRouting(rest))

		case "history":
			queries, err := application.History(10)
			if err != nil {
				fmt.Printf("❌ Failed to read history: %v\n", err)
				continue
			}
			display.RenderHistory(queries)

		case "stats":
			stats, err := application.SessionStats()
			if err != nil {
				fmt.Printf("❌ Failed to read session stats: %v\n", err)
				continue
			}
			display.RenderSessionStats(stats)

		case "cache":
			display.RenderCacheStats(application.CacheStats())

		case "clear-cache":
			application.ClearCache()
			fmt.Println("🧹 Cache cleared.")

		case "clear-expired":
			removed := application.ClearExpiredCache()
			fmt.Printf("🧹 Removed %d expired entries.\n", removed)

		default:
			answer := application.ProcessQuery(ctx, input)
			display.RenderAnswer(answer)
		}
	}
}

// splitCommand separates a leading command word from its argument text.
func splitCommand(input string) (string, string) {
	parts := strings.SplitN(input, " ", 2)
	cmd := strings.ToLower(parts[0])
	if len(parts) == 2 {
		return cmd, strings.TrimSpace(parts[1])
	}
	return cmd, ""
}

func showWelcome() {
	fmt.Println()
	color.New(color.FgGreen, color.Bold).Println("Ask me about Bangladesh:")
	fmt.Println("  🎓 Educational institutions  (universities, colleges)")
	fmt.Println("  🏥 Hospitals and clinics     (beds, specialties, emergency)")
	fmt.Println("  🍛 Restaurants               (cuisine, ratings, locations)")
	fmt.Println("  🌐 General knowledge         (economy, culture, policy)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  explain <question>  - show how a question would be routed")
	fmt.Println("  history             - recent queries")
	fmt.Println("  stats               - session statistics")
	fmt.Println("  cache               - cache statistics")
	fmt.Println("  clear-cache         - empty the result cache")
	fmt.Println("  clear-expired       - drop expired cache entries")
	fmt.Println("  quit                - exit")
	fmt.Println()
}
