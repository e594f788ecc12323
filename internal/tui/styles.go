package tui

import "github.com/rgehrsitz/taxhelper/internal/tui/tuistyles"

// Re-export styles from tuistyles to avoid import cycles
var (
	ColorPrimary = tuistyles.ColorPrimary
	ColorMuted   = tuistyles.ColorMuted
	ColorBorder  = tuistyles.ColorBorder

	AppStyle            = tuistyles.AppStyle
	TitleStyle          = tuistyles.TitleStyle
	SubtitleStyle       = tuistyles.SubtitleStyle
	StatusBarStyle      = tuistyles.StatusBarStyle
	StatusKeyStyle      = tuistyles.StatusKeyStyle
	BorderStyle         = tuistyles.BorderStyle
	ActiveTabStyle      = tuistyles.ActiveTabStyle
	InactiveTabStyle    = tuistyles.InactiveTabStyle
	MetricLabelStyle    = tuistyles.MetricLabelStyle
	MetricValueStyle    = tuistyles.MetricValueStyle
	ErrorStyle          = tuistyles.ErrorStyle
	InfoStyle           = tuistyles.InfoStyle
	TableHeaderStyle    = tuistyles.TableHeaderStyle
	TableHighlightStyle = tuistyles.TableHighlightStyle
)

// Re-export helper functions
var (
	MetricTrendStyle = tuistyles.MetricTrendStyle
	FormatCurrency   = tuistyles.FormatCurrency
)
