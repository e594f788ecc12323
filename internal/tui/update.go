package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/taxhelper/internal/domain"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(3, msg.Height-12))
		return m, nil

	case DocumentLoadedMsg:
		m.doc = msg.Doc
		m.loaded = true
		m.section = sectionByName(msg.Doc.UserSettings.CurrentSection)
		m.recompute()
		m.refreshTable()
		return m, nil

	case DocumentSavedMsg:
		if msg.Err != nil {
			m.err = fmt.Errorf("failed to save: %w", msg.Err)
		} else {
			m.status = "Saved"
		}
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	// Any key dismisses an error
	if m.err != nil {
		m.err = nil
		return m, nil
	}
	if !m.loaded {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Next):
		return m.openSection((m.section + 1) % Section(len(sectionOrder)))

	case key.Matches(msg, m.keys.Prev):
		return m.openSection((m.section + Section(len(sectionOrder)) - 1) % Section(len(sectionOrder)))

	case key.Matches(msg, m.keys.Jump):
		n, _ := strconv.Atoi(msg.String())
		return m.openSection(Section(n - 1))

	case key.Matches(msg, m.keys.Toggle):
		m.status = ""
		return m.apply(m.ledger.ToggleWfhMethod(m.doc))

	case key.Matches(msg, m.keys.Delete):
		return m.deleteSelected()

	case key.Matches(msg, m.keys.Schedule):
		m.showSchedule()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

var sectionOrder = []Section{
	SectionDashboard, SectionIncome, SectionDeductions, SectionWfh, SectionTaxpayer, SectionSummary,
}

// openSection switches tabs and persists the choice so the next session reopens it
func (m Model) openSection(s Section) (tea.Model, tea.Cmd) {
	if s == m.section {
		return m, nil
	}
	doc, err := m.ledger.SetCurrentSection(m.doc, s.String())
	if err != nil {
		m.err = err
		return m, nil
	}
	m.section = s
	m.schedule = nil
	m.status = ""
	m.doc = doc
	m.refreshTable()
	return m, saveDocumentCmd(m.store, m.fy, m.doc)
}

// apply installs an edited document, recomputes and saves it
func (m Model) apply(doc domain.Document) (tea.Model, tea.Cmd) {
	m.doc = doc
	m.schedule = nil
	m.recompute()
	m.refreshTable()
	return m, saveDocumentCmd(m.store, m.fy, m.doc)
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	id, ok := m.selectedID()
	if !ok {
		return m, nil
	}

	var (
		doc domain.Document
		err error
	)
	switch m.section {
	case SectionIncome:
		doc, err = m.ledger.RemoveIncome(m.doc, id)
	case SectionDeductions:
		doc, err = m.ledger.RemoveExpense(m.doc, id)
	case SectionWfh:
		if m.doc.Wfh.Method == domain.WfhMethodActualCost {
			doc, err = m.ledger.RemoveWfhAsset(m.doc, id)
		} else {
			doc, err = m.ledger.RemoveHours(m.doc, id)
		}
	default:
		return m, nil
	}
	if err != nil {
		m.err = err
		return m, nil
	}
	m.status = "Deleted"
	return m.apply(doc)
}

// showSchedule loads the depreciation schedule of the selected expense or asset
func (m *Model) showSchedule() {
	id, ok := m.selectedID()
	if !ok || (m.section != SectionDeductions && m.section != SectionWfh) {
		return
	}
	s, err := m.engine.Schedule(m.doc, id)
	if err != nil {
		m.err = err
		return
	}
	m.schedule = &s
}

func (m Model) selectedID() (string, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rowIDs) {
		return "", false
	}
	return m.rowIDs[i], true
}

func (m *Model) recompute() {
	outcome, err := m.engine.Calculate(m.doc)
	if err != nil {
		m.outcome = nil
		m.err = err
		return
	}
	m.outcome = outcome
}

// refreshTable rebuilds the record list for the open section
func (m *Model) refreshTable() {
	cols, rows, ids := m.tableData()
	cursor := m.table.Cursor()
	// Rows must be cleared before the columns change or rendering indexes past the new columns
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	if len(rows) > 0 {
		m.table.SetCursor(max(0, min(cursor, len(rows)-1)))
	}
	m.rowIDs = ids
}

func (m Model) tableData() ([]table.Column, []table.Row, []string) {
	var (
		cols []table.Column
		rows []table.Row
		ids  []string
	)
	switch m.section {
	case SectionIncome:
		cols = []table.Column{{Title: "Source", Width: 28}, {Title: "Gross", Width: 14}, {Title: "Withheld", Width: 14}}
		for _, r := range m.doc.Income.PAYG {
			rows = append(rows, table.Row{r.SourceName, FormatCurrency(r.GrossSalary), FormatCurrency(r.TaxWithheld)})
			ids = append(ids, r.ID)
		}

	case SectionDeductions:
		cols = []table.Column{{Title: "Description", Width: 24}, {Title: "Date", Width: 10}, {Title: "Cost", Width: 12}, {Title: "Work %", Width: 6}, {Title: "Treatment", Width: 22}}
		for _, e := range m.doc.GeneralExpenses {
			rows = append(rows, table.Row{e.Description, e.Date, FormatCurrency(e.Cost), e.WorkPercentage.String(), treatment(e.IsDepreciable, e.EffectiveLife, e.DepreciationMethod)})
			ids = append(ids, e.ID)
		}

	case SectionWfh:
		if m.doc.Wfh.Method == domain.WfhMethodActualCost {
			cols = []table.Column{{Title: "Asset", Width: 24}, {Title: "Date", Width: 10}, {Title: "Cost", Width: 12}, {Title: "Work %", Width: 6}, {Title: "Treatment", Width: 22}}
			for _, a := range m.doc.Wfh.ActualCostDetails.Assets {
				rows = append(rows, table.Row{a.Description, a.Date, FormatCurrency(a.Cost), a.WorkPercent().String(), treatment(a.EffectiveLife > 0, a.EffectiveLife, a.DepreciationMethod)})
				ids = append(ids, a.ID)
			}
		} else {
			cols = []table.Column{{Title: "Date", Width: 12}, {Title: "Hours", Width: 8}}
			for _, h := range m.doc.Wfh.HoursLog {
				rows = append(rows, table.Row{h.Date, formatHours(h.Minutes)})
				ids = append(ids, h.ID)
			}
		}

	default:
		cols = []table.Column{{Title: "", Width: 1}}
	}
	return cols, rows, ids
}

func treatment(depreciable bool, life int, method domain.DepreciationMethod) string {
	if !depreciable || life <= 0 {
		return "immediate"
	}
	if method == "" {
		method = domain.StraightLine
	}
	return fmt.Sprintf("%s, %d yrs", method, life)
}

func formatHours(minutes int) string {
	return strconv.FormatFloat(float64(minutes)/60, 'f', 2, 64)
}
