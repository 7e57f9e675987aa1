package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"storekeep/internal/store"
)

// Repository is the read-only view of the store the report service projects
// over. *store.Store satisfies it.
type Repository interface {
	Clients() []store.Client
	Categories() []store.Category
	Products() []store.Product
	Sales() []store.Sale
	Purchases() []store.Purchase
}

// Service computes derived views over the current state. Every method is a
// pure projection; nothing here mutates the store.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// LowStock returns the products at or below their alert threshold, zero and
// negative stock included.
func (s *Service) LowStock() []store.Product {
	var out []store.Product

	for _, p := range s.repo.Products() {
		if p.Stock <= p.AlertThreshold {
			out = append(out, p)
		}
	}

	return out
}

// OutOfStock returns the products with exactly zero stock.
func (s *Service) OutOfStock() []store.Product {
	var out []store.Product

	for _, p := range s.repo.Products() {
		if p.Stock == 0 {
			out = append(out, p)
		}
	}

	return out
}

// InventoryValue sums price times stock over all products, in cents.
// Negative stock subtracts.
func (s *Service) InventoryValue() int64 {
	total := int64(0)

	for _, p := range s.repo.Products() {
		total += p.Price * int64(p.Stock)
	}

	return total
}

// CategoryValuation is the per-category slice of the inventory value.
type CategoryValuation struct {
	CategoryID uuid.UUID
	Name       string
	Count      int
	TotalValue int64
}

// CategoryValuations groups products by category id, keyed by the raw id so
// products whose category was deleted still group together. Unresolvable
// categories carry the fallback name.
func (s *Service) CategoryValuations() map[uuid.UUID]CategoryValuation {
	names := make(map[uuid.UUID]string)
	for _, c := range s.repo.Categories() {
		names[c.ID] = c.Name
	}

	out := make(map[uuid.UUID]CategoryValuation)

	for _, p := range s.repo.Products() {
		v, ok := out[p.CategoryID]
		if !ok {
			name, found := names[p.CategoryID]
			if !found {
				name = "Unknown"
			}

			v = CategoryValuation{CategoryID: p.CategoryID, Name: name}
		}

		v.Count++
		v.TotalValue += p.Price * int64(p.Stock)
		out[p.CategoryID] = v
	}

	return out
}

// MonthlyBucket is one calendar month of sales revenue.
type MonthlyBucket struct {
	Label string
	Total int64
}

// MonthlySales returns one bucket per calendar month for the monthsBack most
// recent months including the current one, oldest first. Months without sales
// report zero.
func (s *Service) MonthlySales(monthsBack int) []MonthlyBucket {
	now := s.now()
	sales := s.repo.Sales()
	buckets := make([]MonthlyBucket, 0, monthsBack)

	for i := monthsBack - 1; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		bucket := MonthlyBucket{Label: month.Format("Jan")}

		for _, sale := range sales {
			if sale.Date.Year() == month.Year() && sale.Date.Month() == month.Month() {
				bucket.Total += sale.Total
			}
		}

		buckets = append(buckets, bucket)
	}

	return buckets
}

// ClientHistory returns the client's sales, most recent first. Sales on the
// same date keep their recording order.
func (s *Service) ClientHistory(clientID uuid.UUID) []store.Sale {
	var out []store.Sale

	for _, sale := range s.repo.Sales() {
		if sale.ClientID == clientID {
			out = append(out, sale)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})

	return out
}

// ClientName resolves a client id for display. Dangling references degrade
// to a label, never to an error.
func (s *Service) ClientName(clientID uuid.UUID) string {
	for _, c := range s.repo.Clients() {
		if c.ID == clientID {
			return c.Name
		}
	}

	return "Unknown client"
}

// CategoryName resolves a category id for display.
func (s *Service) CategoryName(categoryID uuid.UUID) string {
	for _, c := range s.repo.Categories() {
		if c.ID == categoryID {
			return c.Name
		}
	}

	return "Uncategorized"
}

// Summary is the set of figures the dashboard renders.
type Summary struct {
	Clients        int
	Categories     int
	Products       int
	Sales          int
	Purchases      int
	InventoryValue int64
	LowStock       int
	OutOfStock     int
	RevenueToday   int64
	RevenueMonth   int64
}

// Dashboard gathers the headline numbers in one pass over the snapshot.
func (s *Service) Dashboard() Summary {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	sum := Summary{
		Clients:        len(s.repo.Clients()),
		Categories:     len(s.repo.Categories()),
		Sales:          len(s.repo.Sales()),
		Purchases:      len(s.repo.Purchases()),
		InventoryValue: s.InventoryValue(),
	}

	for _, p := range s.repo.Products() {
		sum.Products++

		if p.Stock <= p.AlertThreshold {
			sum.LowStock++
		}

		if p.Stock == 0 {
			sum.OutOfStock++
		}
	}

	for _, sale := range s.repo.Sales() {
		if sale.Date.Year() == now.Year() && sale.Date.Month() == now.Month() {
			sum.RevenueMonth += sale.Total
		}

		if !sale.Date.Before(today) && sale.Date.Before(today.AddDate(0, 0, 1)) {
			sum.RevenueToday += sale.Total
		}
	}

	return sum
}
