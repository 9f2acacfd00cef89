// Why this file: ./display/renderer.go
// This renders answers, cache statistics, history and session summaries for
// the terminal with color coding, plus the seeding progress bar.
package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/yourusername/deshq-knowledge-agent/models"
	"github.com/yourusername/deshq-knowledge-agent/storage"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	toolColor    = color.New(color.FgMagenta)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	dimColor     = color.New(color.FgHiBlack)
)

// RenderAnswer prints the full answer envelope.
func RenderAnswer(answer *models.Answer) {
	fmt.Println()
	fmt.Println(answer.Response)
	fmt.Println()

	dimColor.Print("   ")
	toolColor.Printf("tool: %s", answer.ToolUsed)
	dimColor.Printf("  |  routing: %.2f  |  confidence: ", answer.RoutingConfidence)
	confidenceColor(answer.ResultConfidence).Printf("%.2f", answer.ResultConfidence)
	if answer.Cached {
		successColor.Printf("  |  ⚡ cached (%d hits)", answer.CacheHits)
	}
	dimColor.Printf("  |  %s\n", formatDuration(answer.ExecutionTime))
	fmt.Println()
}

// RenderCacheStats prints result-cache statistics.
func RenderCacheStats(stats models.CacheStats) {
	headerColor.Println("\n📦 Cache Statistics")
	fmt.Printf("   Entries:        %d (%d live)\n", stats.TotalEntries, stats.LiveEntries)
	fmt.Printf("   Avg hit count:  %.1f\n", stats.AverageHitCount)
	fmt.Printf("   Hit rate:       %.0f%%\n", stats.HitRate*100)
	fmt.Println()
}

// RenderHistory prints recently logged queries, newest first.
func RenderHistory(queries []storage.LoggedQuery) {
	if len(queries) == 0 {
		warnColor.Println("\nNo queries logged yet.")
		return
	}
	headerColor.Println("\n📜 Recent Queries")
	for i, q := range queries {
		cached := ""
		if q.Cached {
			cached = " ⚡"
		}
		fmt.Printf("   %d. %s\n", i+1, q.QueryText)
		dimColor.Printf("      %s | %s | confidence %.2f%s\n",
			q.ToolUsed, q.QuestionType, q.ResultConfidence, cached)
	}
	fmt.Println()
}

// RenderSessionStats prints the current session summary.
func RenderSessionStats(stats *storage.SessionStats) {
	headerColor.Println("\n📊 Session Statistics")
	fmt.Printf("   Queries answered:   %d\n", stats.TotalQueries)
	fmt.Printf("   Served from cache:  %d\n", stats.CachedCount)
	fmt.Printf("   Avg confidence:     %.2f\n", stats.AvgConfidence)
	fmt.Printf("   Avg response time:  %s\n",
		formatDuration(time.Duration(stats.AvgDurationMs)*time.Millisecond))
	if len(stats.ToolUsage) > 0 {
		fmt.Println("   Tool usage:")
		for tool, count := range stats.ToolUsage {
			fmt.Printf("      %-14s %d\n", tool, count)
		}
	}
	fmt.Println()
}

// SeedProgressBar builds the progress bar shown while seeding a domain
// database on first run.
func SeedProgressBar(domain string, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(fmt.Sprintf("🌱 Seeding %s", domain)),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// confidenceColor maps a score to a traffic-light color.
func confidenceColor(score float64) *color.Color {
	switch {
	case score >= 0.7:
		return successColor
	case score >= 0.4:
		return warnColor
	default:
		return color.New(color.FgRed)
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return "<1ms"
	}
	s := d.Round(time.Millisecond).String()
	return strings.Replace(s, "ms", " ms", 1)
}
