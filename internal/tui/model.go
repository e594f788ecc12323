package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/taxhelper/internal/calculation"
	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/rgehrsitz/taxhelper/internal/ledger"
)

// Store is the persistence the dashboard needs
type Store interface {
	Load(fy string) (domain.Document, error)
	Save(fy string, doc domain.Document) error
}

// Model represents the entire application state
type Model struct {
	// Navigation
	section Section

	// Terminal dimensions
	width  int
	height int

	// Data
	fy     string
	store  Store
	engine *calculation.CalculationEngine
	ledger *ledger.Ledger
	doc    domain.Document
	loaded bool

	// Results of the last recomputation
	outcome  *domain.Outcome
	schedule *domain.Schedule

	// Record list for the current section; rowIDs[i] is the record behind row i
	table  table.Model
	rowIDs []string

	help help.Model
	keys keyMap

	status string
	err    error
}

// NewModel creates a new application model
func NewModel(store Store, engine *calculation.CalculationEngine, fy string) Model {
	t := table.New(table.WithFocused(true), table.WithHeight(10))
	styles := table.DefaultStyles()
	styles.Header = TableHeaderStyle
	styles.Selected = TableHighlightStyle
	t.SetStyles(styles)

	return Model{
		section: SectionDashboard,
		width:   80,
		height:  24,
		fy:      fy,
		store:   store,
		engine:  engine,
		ledger:  ledger.New().WithParameters(engine.Params),
		table:   t,
		help:    help.New(),
		keys:    defaultKeyMap(),
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadDocumentCmd(m.store, m.fy)
}

// Document returns the document currently shown
func (m Model) Document() domain.Document { return m.doc }

// Outcome returns the last computed outcome, nil before the document loads or after a failure
func (m Model) Outcome() *domain.Outcome { return m.outcome }

// Section returns the open section
func (m Model) Section() Section { return m.section }

func loadDocumentCmd(store Store, fy string) tea.Cmd {
	return func() tea.Msg {
		doc, err := store.Load(fy)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return DocumentLoadedMsg{Doc: doc}
	}
}

func saveDocumentCmd(store Store, fy string, doc domain.Document) tea.Cmd {
	return func() tea.Msg {
		return DocumentSavedMsg{Err: store.Save(fy, doc)}
	}
}
