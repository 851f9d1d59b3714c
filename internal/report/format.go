package report

import (
	"fmt"
	"time"

	"dry-cleaner/internal/stats"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCurrency renders a whole-franc amount, e.g. "RWF 8,500".
func FormatCurrency(amount int64) string {
	return printer.Sprintf("RWF %d", amount)
}

// FormatDate renders an instant the way report headers show it.
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006, 03:04 PM")
}

// Filename is the download name of an exported report.
func Filename(appName string, kind stats.RangeKind, generatedAt time.Time) string {
	return fmt.Sprintf("%s_Report_%s_%s.pdf", appName, kind, generatedAt.Format(time.DateOnly))
}
