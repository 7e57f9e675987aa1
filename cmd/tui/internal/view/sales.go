package view

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"storekeep/internal/report"
	"storekeep/internal/store"
)

type SalesModel struct {
	CommonModel
	store   *store.Store
	reports *report.Service

	table table.Model
	sales []store.Sale
}

func NewSalesModel(st *store.Store, reports *report.Service) SalesModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Client", Width: 25},
		{Title: "Items", Width: 8},
		{Title: "Total", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
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

	return SalesModel{
		store:   st,
		reports: reports,
		table:   t,
	}
}

func (m SalesModel) Title() string     { return "Sales" }
func (m SalesModel) ShortHelp() string { return "Esc: back | x: delete | r: refresh" }

func (m SalesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m SalesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case salesLoadedMsg:
		m.sales = msg.sales
		m.refreshTable()
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "x":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m SalesModel) View() string {
	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return lipgloss.NewStyle().Padding(1).Render(tableView)
}

func (m *SalesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.sales))
	for _, s := range m.sales {
		rows = append(rows, table.Row{
			FormatDate(s.Date),
			m.reports.ClientName(s.ClientID),
			strconv.Itoa(len(s.Items)),
			FormatAmount(s.Total),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type salesLoadedMsg struct {
	sales []store.Sale
}

func (m SalesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return salesLoadedMsg{sales: m.store.Sales()}
	}
}

// deleteCmd removes the sale record only. Stock already moved when the sale
// was recorded and is not restored.
func (m SalesModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.sales) {
		return nil
	}

	id := m.sales[idx].ID

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		m.store.DeleteSale(ctx, id)

		return salesLoadedMsg{sales: m.store.Sales()}
	}
}
