package tui

import (
	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/rgehrsitz/taxhelper/internal/ledger"
)

// Section is one tab of the dashboard. The order matches ledger.Sections.
type Section int

const (
	SectionDashboard Section = iota
	SectionIncome
	SectionDeductions
	SectionWfh
	SectionTaxpayer
	SectionSummary
)

// String returns the name stored in the document's user settings
func (s Section) String() string {
	if s < 0 || int(s) >= len(ledger.Sections) {
		return "unknown"
	}
	return ledger.Sections[s]
}

// Title is the tab label
func (s Section) Title() string {
	switch s {
	case SectionDashboard:
		return "Dashboard"
	case SectionIncome:
		return "Income"
	case SectionDeductions:
		return "Deductions"
	case SectionWfh:
		return "Work From Home"
	case SectionTaxpayer:
		return "Taxpayer"
	case SectionSummary:
		return "Summary"
	default:
		return "Unknown"
	}
}

// sectionByName maps a stored section name back to a Section, defaulting to the dashboard
func sectionByName(name string) Section {
	for i, s := range ledger.Sections {
		if s == name {
			return Section(i)
		}
	}
	return SectionDashboard
}

// Message types for the Bubble Tea update cycle

// DocumentLoadedMsg carries the document read from the store
type DocumentLoadedMsg struct {
	Doc domain.Document
}

// DocumentSavedMsg reports the result of a background save
type DocumentSavedMsg struct {
	Err error
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}
