package telegram

import (
	"fmt"
	"strings"
	"time"
)

// RunReport describes the outcome of one pipeline run for notification.
type RunReport struct {
	StartedAt       time.Time
	Duration        time.Duration
	SourcesFetched  int
	ArticlesFetched int
	ArticlesNew     int
	StoriesCreated  int
	Headlines       []string
}

// FormatRunReport renders a pipeline run summary as a Telegram Markdown
// message.
func FormatRunReport(report RunReport) string {
	var b strings.Builder

	b.WriteString("*Meridian pipeline run*\n")
	b.WriteString(fmt.Sprintf("Started: %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))
	b.WriteString(fmt.Sprintf("Duration: %s\n", report.Duration.Round(time.Second)))
	b.WriteString(fmt.Sprintf("Sources: %d | Fetched: %d | New: %d\n",
		report.SourcesFetched, report.ArticlesFetched, report.ArticlesNew))
	b.WriteString(fmt.Sprintf("Stories created: %d\n", report.StoriesCreated))

	if len(report.Headlines) > 0 {
		b.WriteString("\n")
		for _, headline := range report.Headlines {
			b.WriteString(fmt.Sprintf("• %s\n", headline))
		}
	}

	return b.String()
}
