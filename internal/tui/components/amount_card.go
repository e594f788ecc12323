package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxhelper/internal/tui/tuistyles"
)

// AmountCard shows one dollar figure from the outcome. Cards built with
// NewOutcomeCard also say whether the amount comes back or is owed.
type AmountCard struct {
	Label  string
	Amount decimal.Decimal
	Note   string
	Width  int

	outcome bool
}

// NewAmountCard creates a card for a plain amount
func NewAmountCard(label string, amount decimal.Decimal) *AmountCard {
	return &AmountCard{Label: label, Amount: amount, Width: 26}
}

// NewOutcomeCard creates the card for the final outcome, positive meaning refund
func NewOutcomeCard(final decimal.Decimal) *AmountCard {
	c := NewAmountCard("Estimated outcome", final)
	c.outcome = true
	return c
}

// WithNote adds a muted line under the amount
func (c *AmountCard) WithNote(note string) *AmountCard {
	c.Note = note
	return c
}

// Refund reports whether an outcome card is a refund; a zero outcome counts as one
func (c *AmountCard) Refund() bool {
	return !c.Amount.IsNegative()
}

// Render returns the styled card
func (c *AmountCard) Render() string {
	body := tuistyles.MetricLabelStyle.Render(c.Label)

	if c.outcome {
		body += "\n" + tuistyles.MetricValueStyle.Render(tuistyles.FormatCurrency(c.Amount.Abs()))
		word := "Payable"
		if c.Refund() {
			word = "Refund"
		}
		body += "\n" + tuistyles.MetricTrendStyle(c.Refund()).Render(tuistyles.TrendIndicator(c.Refund())+" "+word)
	} else {
		body += "\n" + tuistyles.MetricValueStyle.Render(tuistyles.FormatCurrency(c.Amount))
	}

	if c.Note != "" {
		body += "\n" + tuistyles.SubtitleStyle.Render(c.Note)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(c.Width).
		Render(body)
}

// CardGrid lays cards out left to right, wrapping after columns cards
func CardGrid(cards []*AmountCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	if columns < 1 {
		columns = 1
	}

	var rows []string
	for start := 0; start < len(cards); start += columns {
		end := min(start+columns, len(cards))
		rendered := make([]string, 0, end-start)
		for _, card := range cards[start:end] {
			rendered = append(rendered, card.Render())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
