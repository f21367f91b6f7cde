package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tungtase04539/sangtaophaisinh/internal/models"
	"github.com/tungtase04539/sangtaophaisinh/internal/pricing"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	totalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true)
)

var complexities = []models.Complexity{
	models.ComplexityEasy,
	models.ComplexityMedium,
	models.ComplexityHard,
	models.ComplexityExpert,
}

const (
	fieldWords = iota
	fieldMinutes
	fieldComplexity
	fieldReRecord
	fieldCount
)

type quoteModel struct {
	cfg        models.PricingConfig
	words      textinput.Model
	minutes    textinput.Model
	complexity int
	reRecord   bool
	focus      int
}

func newQuoteModel(cfg models.PricingConfig) quoteModel {
	words := textinput.New()
	words.Prompt = "> "
	words.Placeholder = "0"
	words.CharLimit = 9
	words.SetValue("2000")
	words.Focus()

	minutes := textinput.New()
	minutes.Prompt = "> "
	minutes.Placeholder = "0"
	minutes.CharLimit = 6
	minutes.SetValue("15")

	return quoteModel{
		cfg:        cfg,
		words:      words,
		minutes:    minutes,
		complexity: 1,
		reRecord:   true,
	}
}

func (m quoteModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m quoteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc", "q":
		if key.String() != "q" || !m.editingText() {
			return m, tea.Quit
		}
	case "tab", "down":
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	case "left", "right", " ":
		switch m.focus {
		case fieldComplexity:
			step := 1
			if key.String() == "left" {
				step = len(complexities) - 1
			}
			m.complexity = (m.complexity + step) % len(complexities)
			return m, nil
		case fieldReRecord:
			m.reRecord = !m.reRecord
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldWords:
		m.words, cmd = m.words.Update(msg)
	case fieldMinutes:
		m.minutes, cmd = m.minutes.Update(msg)
	}
	return m, cmd
}

func (m quoteModel) editingText() bool {
	return m.focus == fieldWords || m.focus == fieldMinutes
}

func (m *quoteModel) setFocus(field int) {
	m.focus = field
	m.words.Blur()
	m.minutes.Blur()
	switch field {
	case fieldWords:
		m.words.Focus()
	case fieldMinutes:
		m.minutes.Focus()
	}
}

// quote runs the calculator on the current form values.
func (m quoteModel) quote() (models.PricingData, error) {
	words, err := parseCount(m.words.Value(), "word count")
	if err != nil {
		return models.PricingData{}, err
	}
	minutes, err := parseCount(m.minutes.Value(), "duration")
	if err != nil {
		return models.PricingData{}, err
	}
	return pricing.Calculate(m.cfg, pricing.Input{
		WordCount:            words,
		VideoDurationSeconds: minutes * 60,
		Complexity:           complexities[m.complexity],
		ReRecordRequired:     m.reRecord,
	})
}

func parseCount(raw, label string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a whole number >= 0", label)
	}
	return n, nil
}

func (m quoteModel) View() string {
	label := func(field int, text string) string {
		if m.focus == field {
			return focusStyle.Render(text)
		}
		return text
	}

	reRecord := "no"
	if m.reRecord {
		reRecord = "yes"
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		label(fieldWords, "Words"),
		m.words.View(),
		label(fieldMinutes, "Video minutes"),
		m.minutes.View(),
		label(fieldComplexity, "Complexity")+"  < "+string(complexities[m.complexity])+" >",
		label(fieldReRecord, "Re-record")+"   "+reRecord,
	)

	var result string
	if q, err := m.quote(); err != nil {
		result = errorStyle.Render(err.Error())
	} else {
		result = renderBreakdown(q)
	}

	header := titleStyle.Render("Job price quote")
	rates := mutedStyle.Render(fmt.Sprintf("%d VND/word, %d VND/min, re-record +%d%%, base deadline %dh",
		m.cfg.RatePerWord, m.cfg.RatePerMinute, m.cfg.ReRecordBonusPercent, m.cfg.BaseDeadlineHours))
	hints := mutedStyle.Render("tab: next field, left/right/space: change, esc: quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		rates,
		lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(form), panelStyle.Render(result)),
		hints,
	)
}

func renderBreakdown(q models.PricingData) string {
	lines := []string{
		fmt.Sprintf("Words        %12s", formatVND(q.WordPrice)),
		fmt.Sprintf("Video        %12s", formatVND(q.VideoPrice)),
		fmt.Sprintf("Base         %12s", formatVND(q.BasePrice)),
		fmt.Sprintf("Complexity   %12s", formatVND(q.ComplexityBonus)),
		fmt.Sprintf("Re-record    %12s", formatVND(q.ReRecordBonus)),
		totalStyle.Render(fmt.Sprintf("Total        %12s", formatVND(q.FinalPrice))),
		mutedStyle.Render(fmt.Sprintf("Deadline     %11dh", q.DeadlineHours)),
	}
	return strings.Join(lines, "\n")
}

// formatVND groups thousands with dots, e.g. 252.000.
func formatVND(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
