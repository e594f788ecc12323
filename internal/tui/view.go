package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/taxhelper/internal/calculation"
	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/rgehrsitz/taxhelper/internal/output"
	"github.com/rgehrsitz/taxhelper/internal/tui/components"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderApp(ErrorStyle.Render(fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err)))
	}
	if !m.loaded {
		return m.renderApp(BorderStyle.Render("Loading " + m.fy + "..."))
	}

	var content string
	switch m.section {
	case SectionDashboard:
		content = m.renderDashboard()
	case SectionIncome:
		content = m.renderIncome()
	case SectionDeductions:
		content = m.renderDeductions()
	case SectionWfh:
		content = m.renderWfh()
	case SectionTaxpayer:
		content = m.renderTaxpayer()
	case SectionSummary:
		content = m.renderSummary()
	default:
		content = "Unknown section"
	}
	return m.renderApp(content)
}

// renderApp wraps content with title bar, tabs and status bar
func (m Model) renderApp(content string) string {
	title := TitleStyle.Render("Tax Helper - Financial Year " + m.fy)
	body := lipgloss.NewStyle().Height(max(1, m.height-6)).Render(content)
	return AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, m.renderTabs(), body, m.renderStatusBar()))
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(sectionOrder))
	for i, s := range sectionOrder {
		label := fmt.Sprintf("%d %s", i+1, s.Title())
		if s == m.section {
			tabs = append(tabs, ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, InactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderStatusBar() string {
	status := m.help.View(m.keys)
	if m.status != "" {
		status = StatusKeyStyle.Render(m.status) + "  " + status
	}
	return StatusBarStyle.Render(status)
}

func (m Model) renderDashboard() string {
	o := m.outcome
	if o == nil {
		return BorderStyle.Render("No outcome available")
	}
	cards := []*components.AmountCard{
		components.NewAmountCard("Taxable income", o.TaxableIncome),
		components.NewAmountCard("Total deductions", o.TotalDeductions),
		components.NewAmountCard("Net tax payable", o.NetTaxPayable),
		components.NewOutcomeCard(o.FinalOutcome).WithNote("withheld " + FormatCurrency(o.TotalTaxWithheld)),
	}
	columns := 4
	if m.width < 112 {
		columns = 2
	}
	bars := []string{
		components.NewShareBar("Effective tax rate", o.NetTaxPayable, o.TaxableIncome).Render(),
		components.NewShareBar("Deductions as a share of income", o.TotalDeductions, o.TotalAssessableIncome).Render(),
	}
	return components.CardGrid(cards, columns) + "\n\n" + strings.Join(bars, "\n\n")
}

func (m Model) renderIncome() string {
	lines := []string{m.table.View()}
	if o := m.outcome; o != nil {
		lines = append(lines,
			labelled("Other income", FormatCurrency(o.Income.Interest.Add(o.Income.Dividends).Add(o.Income.CapitalGains))),
			labelled("Franking credits", FormatCurrency(o.Income.FrankingCredits)),
			labelled("Assessable income", FormatCurrency(o.TotalAssessableIncome)),
			labelled("Tax withheld", FormatCurrency(o.TotalTaxWithheld)),
		)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderDeductions() string {
	lines := []string{m.table.View()}
	if o := m.outcome; o != nil {
		lines = append(lines, labelled("General deductions", FormatCurrency(o.Deductions.General)))
	}
	if m.schedule != nil {
		lines = append(lines, "", renderSchedule(*m.schedule))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderWfh() string {
	wfh := m.doc.Wfh
	var lines []string
	if wfh.Method == domain.WfhMethodActualCost {
		lines = append(lines, labelled("Method", "Actual cost (m to switch)"))
		pct := calculation.FloorAreaPercentage(wfh.ActualCostDetails)
		lines = append(lines, labelled("Office floor area", output.FormatPercentage(pct)))
	} else {
		lines = append(lines,
			labelled("Method", "Fixed rate (m to switch)"),
			labelled("Hours logged", formatHours(wfh.TotalMinutes)),
		)
	}
	lines = append(lines, m.table.View())
	if o := m.outcome; o != nil {
		lines = append(lines,
			labelled("Running costs", FormatCurrency(o.Deductions.WfhRunningCosts)),
			labelled("Asset depreciation", FormatCurrency(o.Deductions.WfhAssets)),
			labelled("WFH deduction", FormatCurrency(o.Deductions.WFH)),
		)
	}
	if m.schedule != nil {
		lines = append(lines, "", renderSchedule(*m.schedule))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTaxpayer() string {
	t := m.doc.TaxpayerDetails
	exempt := "no"
	if t.MedicareExempt {
		exempt = "yes"
		if t.MedicareExemptDays > 0 {
			exempt = fmt.Sprintf("%d days", t.MedicareExemptDays)
		}
	}
	lines := []string{
		labelled("Filing status", string(t.FilingStatus)),
		labelled("Dependent children", fmt.Sprint(t.DependentChildren)),
		labelled("Spouse income", FormatCurrency(t.SpouseIncome)),
		labelled("Medicare exemption", exempt),
		labelled("Private hospital cover", yesNo(t.PrivateHospitalCover)),
		labelled("Insurance age bracket", t.InsuranceAgeBracket),
		labelled("Fringe benefits", FormatCurrency(t.ReportableFringeBenefits)),
		labelled("Super contributions", FormatCurrency(t.PersonalSuperContribution)),
	}
	return BorderStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderSummary() string {
	o := m.outcome
	if o == nil {
		return BorderStyle.Render("No outcome available")
	}
	var lines []string
	for _, l := range output.SummaryLines(*o) {
		label := l.Label
		if l.Total {
			label = MetricValueStyle.Render(label)
		}
		lines = append(lines, labelled(label, FormatCurrency(l.Amount)))
	}
	lines = append(lines, "", MetricTrendStyle(!o.FinalOutcome.IsNegative()).Render("Estimated outcome: "+output.OutcomeText(*o)))
	return BorderStyle.Render(strings.Join(lines, "\n"))
}

func renderSchedule(s domain.Schedule) string {
	if s.Immediate {
		return InfoStyle.Render(fmt.Sprintf("%s: immediate deduction %s", s.Description, FormatCurrency(s.ImmediateAmount)))
	}
	lines := []string{InfoStyle.Render(fmt.Sprintf("%s (%s)", s.Description, s.Method))}
	for _, y := range s.Years {
		lines = append(lines, fmt.Sprintf("  %-10s %14s %14s %14s", y.FinancialYear,
			FormatCurrency(y.OpeningValue), FormatCurrency(y.Deduction), FormatCurrency(y.ClosingValue)))
	}
	return strings.Join(lines, "\n")
}

func labelled(label, value string) string {
	return MetricLabelStyle.Width(26).Render(label) + value
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
