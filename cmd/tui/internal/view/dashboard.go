package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"storekeep/internal/report"
	"storekeep/internal/store"
)

type DashboardModel struct {
	CommonModel
	reports *report.Service

	summary  report.Summary
	monthly  []report.MonthlyBucket
	lowStock table.Model
	loaded   bool
}

func NewDashboardModel(reports *report.Service) DashboardModel {
	columns := []table.Column{
		{Title: "Product", Width: 30},
		{Title: "Stock", Width: 8},
		{Title: "Alert", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return DashboardModel{
		reports:  reports,
		lowStock: t,
	}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.summary = msg.summary
		m.monthly = msg.monthly
		m.loaded = true
		m.refreshLowStock(msg.lowStock)

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.lowStock, cmd = m.lowStock.Update(msg)

	return m, cmd
}

func (m DashboardModel) View() string {
	if !m.loaded {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	figures := fmt.Sprintf(
		"Clients: %d | Categories: %d | Products: %d | Sales: %d | Purchases: %d\n"+
			"Inventory value: %s | Revenue today: %s | Revenue this month: %s",
		m.summary.Clients,
		m.summary.Categories,
		m.summary.Products,
		m.summary.Sales,
		m.summary.Purchases,
		FormatAmount(m.summary.InventoryValue),
		FormatAmount(m.summary.RevenueToday),
		FormatAmount(m.summary.RevenueMonth),
	)

	monthly := "Monthly sales:"
	for _, b := range m.monthly {
		monthly += fmt.Sprintf(" %s %s |", b.Label, FormatAmount(b.Total))
	}

	lowStockTitle := fmt.Sprintf("Low stock (%d, %d out of stock)", m.summary.LowStock, m.summary.OutOfStock)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.lowStock.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(figures),
		lipgloss.NewStyle().PaddingBottom(1).Faint(true).Render(monthly),
		lowStockTitle,
		tableView,
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *DashboardModel) refreshLowStock(products []store.Product) {
	rows := make([]table.Row, 0, len(products))
	for _, p := range products {
		rows = append(rows, table.Row{
			p.Name,
			fmt.Sprintf("%d", p.Stock),
			fmt.Sprintf("%d", p.AlertThreshold),
		})
	}

	m.lowStock.SetRows(rows)
}

// Messages

type dashboardLoadedMsg struct {
	summary  report.Summary
	monthly  []report.MonthlyBucket
	lowStock []store.Product
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return dashboardLoadedMsg{
			summary:  m.reports.Dashboard(),
			monthly:  m.reports.MonthlySales(6),
			lowStock: m.reports.LowStock(),
		}
	}
}
