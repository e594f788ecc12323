package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/taxhelper/internal/tui/tuistyles"
)

// ShareBar shows one amount as a share of another, e.g. tax over taxable income
type ShareBar struct {
	Label string
	Part  decimal.Decimal
	Whole decimal.Decimal
	Width int
}

// NewShareBar creates a new share bar
func NewShareBar(label string, part, whole decimal.Decimal) *ShareBar {
	return &ShareBar{
		Label: label,
		Part:  part,
		Whole: whole,
		Width: 30,
	}
}

// WithWidth sets the bar width
func (b *ShareBar) WithWidth(width int) *ShareBar {
	b.Width = width
	return b
}

// Percentage is Part over Whole clamped to [0, 100]; 0 when Whole is not positive
func (b *ShareBar) Percentage() decimal.Decimal {
	if !b.Whole.IsPositive() || b.Part.IsNegative() {
		return decimal.Zero
	}
	pct := b.Part.Div(b.Whole).Mul(decimal.NewFromInt(100))
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	return pct
}

func (b *ShareBar) filled() int {
	if b.Width <= 0 {
		return 0
	}
	return int(b.Percentage().Mul(decimal.NewFromInt(int64(b.Width))).Div(decimal.NewFromInt(100)).IntPart())
}

// Render returns the styled bar followed by its percentage
func (b *ShareBar) Render() string {
	var content strings.Builder

	labelStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground).Bold(true)
	content.WriteString(labelStyle.Render(b.Label))
	content.WriteString("\n")

	filled := b.filled()
	empty := b.Width - filled
	content.WriteString("[")
	if filled > 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess).Render(strings.Repeat("█", filled)))
	}
	if empty > 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorBorder).Render(strings.Repeat("░", empty)))
	}
	content.WriteString("] ")
	content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorPrimary).Bold(true).Render(b.Percentage().StringFixed(1) + "%"))

	return content.String()
}
