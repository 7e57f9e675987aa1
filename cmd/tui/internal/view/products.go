package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storekeep/internal/report"
	"storekeep/internal/store"
)

type productsState int

const (
	productsStateBrowse productsState = iota
	productsStateEdit
)

type ProductsModel struct {
	CommonModel
	store   *store.Store
	reports *report.Service

	state    productsState
	table    table.Model
	products []store.Product
	form     *huh.Form

	// Id of the product being edited; uuid.Nil means a new one.
	editID uuid.UUID

	status string

	// Form bindings
	formName     string
	formDesc     string
	formPrice    string
	formStock    string
	formAlert    string
	formCategory string
}

func NewProductsModel(st *store.Store, reports *report.Service) ProductsModel {
	columns := []table.Column{
		{Title: "Name", Width: 28},
		{Title: "Category", Width: 18},
		{Title: "Price", Width: 10},
		{Title: "Stock", Width: 8},
		{Title: "Alert", Width: 8},
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

	return ProductsModel{
		store:   st,
		reports: reports,
		table:   t,
	}
}

func (m ProductsModel) Title() string { return "Products" }
func (m ProductsModel) ShortHelp() string {
	if m.state == productsStateEdit {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | a: add | e: edit | x: delete | r: refresh"
}

func (m ProductsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ProductsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case productsLoadedMsg:
		m.products = msg.products
		m.refreshTable()
		return m, nil

	case productSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.status = ""
		}
		m.state = productsStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case productsStateBrowse:
		return m.updateBrowse(msg)
	case productsStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m ProductsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "a":
			return m.enterEditMode(uuid.Nil)
		case "e":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.products) {
				return m, nil
			}
			return m.enterEditMode(m.products[idx].ID)
		case "x":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ProductsModel) enterEditMode(id uuid.UUID) (tea.Model, tea.Cmd) {
	m.editID = id
	m.formName = ""
	m.formDesc = ""
	m.formPrice = "0.00"
	m.formStock = "0"
	m.formAlert = "0"
	m.formCategory = ""

	if id != uuid.Nil {
		for _, p := range m.products {
			if p.ID != id {
				continue
			}

			m.formName = p.Name
			m.formDesc = p.Description
			m.formPrice = FormatAmount(p.Price)
			m.formStock = strconv.Itoa(p.Stock)
			m.formAlert = strconv.Itoa(p.AlertThreshold)
			m.formCategory = p.CategoryID.String()
		}
	}

	options := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, c := range m.store.Categories() {
		options = append(options, huh.NewOption(c.Name, c.ID.String()))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.formDesc),

			huh.NewInput().
				Key("price").
				Title("Price").
				Value(&m.formPrice).
				Validate(func(s string) error {
					_, err := parsePriceInput(s)
					return err
				}),

			huh.NewInput().
				Key("stock").
				Title("Stock").
				Value(&m.formStock).
				Validate(validateInt),

			huh.NewInput().
				Key("alert").
				Title("Alert threshold").
				Value(&m.formAlert).
				Validate(validateInt),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(options...).
				Value(&m.formCategory),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = productsStateEdit
	m.table.Blur()
	return m, m.form.Init()
}

func (m ProductsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = productsStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m ProductsModel) View() string {
	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.state == productsStateEdit && m.form != nil {
		title := "Add Product"
		if m.editID != uuid.Nil {
			title = "Edit Product"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ProductsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.products))
	for _, p := range m.products {
		rows = append(rows, table.Row{
			p.Name,
			m.reports.CategoryName(p.CategoryID),
			FormatAmount(p.Price),
			strconv.Itoa(p.Stock),
			strconv.Itoa(p.AlertThreshold),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type productsLoadedMsg struct {
	products []store.Product
}

func (m ProductsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return productsLoadedMsg{products: m.store.Products()}
	}
}

type productSavedMsg struct {
	err error
}

func (m ProductsModel) saveCmd() tea.Cmd {
	id := m.editID
	name := m.formName
	desc := m.formDesc
	priceInput := m.formPrice
	stockInput := m.formStock
	alertInput := m.formAlert
	categoryInput := m.formCategory

	return func() tea.Msg {
		price, err := parsePriceInput(priceInput)
		if err != nil {
			return productSavedMsg{err: err}
		}

		stock, _ := strconv.Atoi(stockInput)
		alert, _ := strconv.Atoi(alertInput)

		categoryID := uuid.Nil
		if categoryInput != "" {
			categoryID, err = uuid.Parse(categoryInput)
			if err != nil {
				return productSavedMsg{err: err}
			}
		}

		ctx, cancel := OpCtx()
		defer cancel()

		if id == uuid.Nil {
			m.store.AddProduct(ctx, store.ProductParams{
				Name:           name,
				Description:    desc,
				Price:          price,
				CategoryID:     categoryID,
				Stock:          stock,
				AlertThreshold: alert,
			})

			return productSavedMsg{}
		}

		m.store.UpdateProduct(ctx, id, store.ProductUpdate{
			Name:           &name,
			Description:    &desc,
			Price:          &price,
			CategoryID:     &categoryID,
			Stock:          &stock,
			AlertThreshold: &alert,
		})

		return productSavedMsg{}
	}
}

func (m ProductsModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.products) {
		return nil
	}

	id := m.products[idx].ID

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		m.store.DeleteProduct(ctx, id)

		return productSavedMsg{}
	}
}

// parsePriceInput converts a decimal price string into cents.
func parsePriceInput(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(s, ",", ".")))
	if err != nil {
		return 0, fmt.Errorf("invalid price")
	}

	if d.IsNegative() {
		return 0, fmt.Errorf("price cannot be negative")
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

func validateInt(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("must be a whole number")
	}

	return nil
}
