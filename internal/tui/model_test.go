package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/taxhelper/internal/calculation"
	"github.com/rgehrsitz/taxhelper/internal/config"
	"github.com/rgehrsitz/taxhelper/internal/domain"
)

const fyLabel = "2024-2025"

type memStore struct {
	docs    map[string]domain.Document
	saves   int
	saveErr error
}

func (s *memStore) Load(fy string) (domain.Document, error) {
	if doc, ok := s.docs[fy]; ok {
		return doc, nil
	}
	return domain.DefaultDocument(domain.MustParseFinancialYear(fy)), nil
}

func (s *memStore) Save(fy string, doc domain.Document) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.docs[fy] = doc
	return nil
}

func sampleDocument() domain.Document {
	doc := domain.DefaultDocument(domain.MustParseFinancialYear(fyLabel))
	doc.UserSettings.CurrentSection = "income"
	doc.Income.PAYG = []domain.IncomeRecord{
		{ID: "payg_1", SourceName: "Acme", GrossSalary: decimal.NewFromInt(85000), TaxWithheld: decimal.NewFromInt(19000)},
		{ID: "payg_2", SourceName: "Side job", GrossSalary: decimal.NewFromInt(5000), TaxWithheld: decimal.NewFromInt(500)},
	}
	doc.GeneralExpenses = []domain.ExpenseRecord{
		{ID: "exp_1", Description: "Laptop", Date: "2024-07-01", Cost: decimal.NewFromInt(2400), WorkPercentage: decimal.NewFromInt(100), IsDepreciable: true, EffectiveLife: 3, DepreciationMethod: domain.StraightLine},
	}
	doc.Wfh.HoursLog = []domain.WfhHoursLogEntry{{ID: "wfh_1", Date: "2024-07-02", Minutes: 600}}
	doc.Wfh.TotalMinutes = 600
	return doc
}

func newLoadedModel(t *testing.T, store *memStore) Model {
	t.Helper()
	set, err := config.NewParameterLoader().Default()
	require.NoError(t, err)
	engine, err := calculation.NewCalculationEngineForYear(set, fyLabel)
	require.NoError(t, err)

	m := NewModel(store, engine, fyLabel)
	msg := m.Init()()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func press(t *testing.T, m Model, keys string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch keys {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

// runSave executes a save command and feeds its result back
func runSave(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	return updated.(Model)
}

func TestModel_LoadReopensStoredSection(t *testing.T) {
	store := &memStore{docs: map[string]domain.Document{fyLabel: sampleDocument()}}

	m := newLoadedModel(t, store)

	assert.Equal(t, SectionIncome, m.Section())
	require.NotNil(t, m.Outcome())
	assert.True(t, m.Outcome().TotalAssessableIncome.Equal(decimal.NewFromInt(90000)))
	assert.Contains(t, m.View(), "Acme")
}

func TestModel_TabPersistsSection(t *testing.T) {
	store := &memStore{docs: map[string]domain.Document{fyLabel: sampleDocument()}}
	m := newLoadedModel(t, store)

	m, cmd := press(t, m, "tab")
	m = runSave(t, m, cmd)

	assert.Equal(t, SectionDeductions, m.Section())
	assert.Equal(t, "deductions", store.docs[fyLabel].UserSettings.CurrentSection)
	assert.Contains(t, m.View(), "Laptop")
}

func TestModel_JumpToSection(t *testing.T) {
	store := &memStore{docs: map[string]domain.Document{}}
	m := newLoadedModel(t, store)
	assert.Equal(t, SectionDashboard, m.Section())

	m, _ = press(t, m, "6")

	assert.Equal(t, SectionSummary, m.Section())
	assert.Contains(t, m.View(), "Estimated outcome")
}

func TestModel_ToggleWfhMethodRecomputes(t *testing.T) {
	store := &memStore{docs: map[string]domain.Document{fyLabel: sampleDocument()}}
	m := newLoadedModel(t, store)
	before := m.Outcome().Deductions.WFH
	assert.True(t, before.Equal(decimal.NewFromInt(7)), "10 hours at the fixed rate")

	m, cmd := press(t, m, "m")
	m = runSave(t, m, cmd)

	assert.Equal(t, domain.WfhMethodActualCost, m.Document().Wfh.Method)
	assert.True(t, m.Outcome().Deductions.WFH.IsZero())
	assert.Equal(t, domain.WfhMethodActualCost, store.docs[fyLabel].Wfh.Method)
	assert.Equal(t, 1, store.saves)
}

func TestModel_DeleteSelectedIncome(t *testing.T) {
	store := &memStore{docs: map[string]domain.Document{fyLabel: sampleDocument()}}
	m := newLoadedModel(t, store)

	m, _ = press(t, m, "down")
	m, cmd := press(t, m, "x")
	m = runSave(t, m, cmd)

	require.Len(t, m.Document().Income.PAYG, 1)
	assert.Equal(t, "payg_1", m.Document().Income.PAYG[0].ID)
	assert.True(t, m.Outcome().TotalAssessableIncome.Equal(decimal.NewFromInt(85000)))
	assert.Len(t, store.docs[fyLabel].Income.PAYG, 1)
}

func TestModel_ShowSchedule(t *testing.T) {
	store := &memStore{docs: map[string]domain.Document{fyLabel: sampleDocument()}}
	m := newLoadedModel(t, store)
	m, _ = press(t, m, "3")

	m, _ = press(t, m, "enter")

	require.NotNil(t, m.schedule)
	assert.Equal(t, "exp_1", m.schedule.ItemID)
	assert.Len(t, m.schedule.Years, 3)
	assert.Contains(t, m.View(), "2026-2027")
}

func TestModel_SaveErrorShownAndDismissed(t *testing.T) {
	store := &memStore{docs: map[string]domain.Document{}, saveErr: errors.New("disk full")}
	m := newLoadedModel(t, store)

	m, cmd := press(t, m, "tab")
	m = runSave(t, m, cmd)

	assert.Contains(t, m.View(), "disk full")

	m, _ = press(t, m, "j")
	assert.NotContains(t, m.View(), "disk full")
}

func TestSectionNames(t *testing.T) {
	for _, s := range sectionOrder {
		assert.Equal(t, s, sectionByName(s.String()))
	}
	assert.Equal(t, SectionDashboard, sectionByName("nonsense"))
}
