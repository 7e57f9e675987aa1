package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"storekeep/cmd/tui/internal/view"
	"storekeep/internal/config"
	"storekeep/internal/database"
	"storekeep/internal/report"
	"storekeep/internal/snapshot/file"
	"storekeep/internal/snapshot/postgres"
	"storekeep/internal/store"
)

type model struct {
	store   *store.Store
	reports *report.Service

	currentView View

	dashboardView view.DashboardModel
	productsView  view.ProductsModel
	salesView     view.SalesModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewProducts  View = 2
	ViewSales     View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	st := store.Open(ctx, newPersister(ctx, cfg))
	reports := report.NewService(st)

	return model{
		store:         st,
		reports:       reports,
		currentView:   ViewMenu,
		dashboardView: view.NewDashboardModel(reports),
		productsView:  view.NewProductsModel(st, reports),
		salesView:     view.NewSalesModel(st, reports),
	}
}

func newPersister(ctx context.Context, cfg *config.Config) store.Persister {
	if cfg.Snapshot.Driver != config.SnapshotDriverPostgres {
		return file.New(cfg.Snapshot.Path)
	}

	db, err := database.Open(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	p := postgres.New(db)
	if err := p.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure snapshot schema", "error", err)
		os.Exit(1)
	}

	return p
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.reports)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewProducts
				m.productsView = view.NewProductsModel(m.store, m.reports)

				return m, m.productsView.Init()
			case "3":
				m.currentView = ViewSales
				m.salesView = view.NewSalesModel(m.store, m.reports)

				return m, m.salesView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewProducts:
		var newModel tea.Model
		newModel, cmd = m.productsView.Update(msg)
		m.productsView = newModel.(view.ProductsModel)
	case ViewSales:
		var newModel tea.Model
		newModel, cmd = m.salesView.Update(msg)
		m.salesView = newModel.(view.SalesModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Storekeep TUI\n\n" +
				"1. Dashboard\n" +
				"2. Manage Products\n" +
				"3. Browse Sales\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewProducts:
		return m.productsView.View()
	case ViewSales:
		return m.salesView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
