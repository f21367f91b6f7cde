// Command pricequote previews job prices in the terminal with the same
// calculator the API uses.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tungtase04539/sangtaophaisinh/internal/models"
)

func main() {
	cfg := models.DefaultPricingConfig()
	flag.Int64Var(&cfg.RatePerWord, "rate-per-word", cfg.RatePerWord, "VND per word")
	flag.Int64Var(&cfg.RatePerMinute, "rate-per-minute", cfg.RatePerMinute, "VND per started video minute")
	flag.Int64Var(&cfg.ReRecordBonusPercent, "re-record-bonus", cfg.ReRecordBonusPercent, "re-record bonus percent")
	flag.Int64Var(&cfg.BaseDeadlineHours, "base-deadline", cfg.BaseDeadlineHours, "base deadline in hours")
	flag.Parse()

	if _, err := tea.NewProgram(newQuoteModel(cfg), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "pricequote:", err)
		os.Exit(1)
	}
}
