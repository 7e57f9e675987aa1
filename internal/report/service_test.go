package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storekeep/internal/store"
)

type fakeRepo struct {
	clients    []store.Client
	categories []store.Category
	products   []store.Product
	sales      []store.Sale
	purchases  []store.Purchase
}

func (f *fakeRepo) Clients() []store.Client { return f.clients }

func (f *fakeRepo) Categories() []store.Category { return f.categories }

func (f *fakeRepo) Products() []store.Product { return f.products }

func (f *fakeRepo) Sales() []store.Sale { return f.sales }

func (f *fakeRepo) Purchases() []store.Purchase { return f.purchases }

func newFixedService(repo Repository, now time.Time) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return now }

	return svc
}

func TestService_LowStock(t *testing.T) {
	repo := &fakeRepo{products: []store.Product{
		{Name: "A", Stock: 2, AlertThreshold: 5},
		{Name: "B", Stock: 10, AlertThreshold: 5},
		{Name: "C", Stock: 0, AlertThreshold: 0},
		{Name: "D", Stock: -3, AlertThreshold: 0},
	}}
	svc := NewService(repo)

	low := svc.LowStock()
	require.Len(t, low, 3)

	names := []string{low[0].Name, low[1].Name, low[2].Name}
	assert.Equal(t, []string{"A", "C", "D"}, names)
}

func TestService_OutOfStock(t *testing.T) {
	repo := &fakeRepo{products: []store.Product{
		{Name: "A", Stock: 0},
		{Name: "B", Stock: -2},
		{Name: "C", Stock: 4},
	}}
	svc := NewService(repo)

	out := svc.OutOfStock()
	require.Len(t, out, 1)
	assert.Equal(t, "A", out[0].Name, "negative stock is low, not out")
}

func TestService_InventoryValue(t *testing.T) {
	repo := &fakeRepo{products: []store.Product{
		{Price: 1000, Stock: 3},
		{Price: 250, Stock: 4},
		{Price: 500, Stock: -2},
	}}
	svc := NewService(repo)

	assert.Equal(t, int64(3000+1000-1000), svc.InventoryValue())
}

func TestService_CategoryValuations(t *testing.T) {
	catID := uuid.New()
	danglingID := uuid.New()

	repo := &fakeRepo{
		categories: []store.Category{{ID: catID, Name: "Coffee"}},
		products: []store.Product{
			{CategoryID: catID, Price: 1000, Stock: 2},
			{CategoryID: catID, Price: 500, Stock: 1},
			{CategoryID: danglingID, Price: 200, Stock: 5},
		},
	}
	svc := NewService(repo)

	vals := svc.CategoryValuations()
	require.Len(t, vals, 2)

	coffee := vals[catID]
	assert.Equal(t, "Coffee", coffee.Name)
	assert.Equal(t, 2, coffee.Count)
	assert.Equal(t, int64(2500), coffee.TotalValue)

	unknown := vals[danglingID]
	assert.Equal(t, "Unknown", unknown.Name, "deleted category groups under its raw id")
	assert.Equal(t, 1, unknown.Count)
	assert.Equal(t, int64(1000), unknown.TotalValue)
}

func TestService_MonthlySales(t *testing.T) {
	now := time.Date(2026, time.August, 31, 15, 0, 0, 0, time.UTC)
	repo := &fakeRepo{sales: []store.Sale{
		{Date: time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC), Total: 1000},
		{Date: time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC), Total: 500},
		{Date: time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC), Total: 700},
		{Date: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), Total: 300},
		{Date: time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC), Total: 9999},
	}}
	svc := newFixedService(repo, now)

	buckets := svc.MonthlySales(6)
	require.Len(t, buckets, 6)

	labels := make([]string, 0, len(buckets))
	sum := int64(0)

	for _, b := range buckets {
		labels = append(labels, b.Label)
		sum += b.Total
	}

	assert.Equal(t, []string{"Mar", "Apr", "May", "Jun", "Jul", "Aug"}, labels)
	assert.Equal(t, int64(0), buckets[0].Total)
	assert.Equal(t, int64(300), buckets[3].Total)
	assert.Equal(t, int64(700), buckets[4].Total)
	assert.Equal(t, int64(1500), buckets[5].Total, "same month last year stays out")
	assert.Equal(t, int64(1000+500+700+300), sum)
}

func TestService_MonthlySales_YearBoundary(t *testing.T) {
	now := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{sales: []store.Sale{
		{Date: time.Date(2025, time.December, 24, 0, 0, 0, 0, time.UTC), Total: 800},
		{Date: time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC), Total: 200},
	}}
	svc := newFixedService(repo, now)

	buckets := svc.MonthlySales(3)
	require.Len(t, buckets, 3)
	assert.Equal(t, "Nov", buckets[0].Label)
	assert.Equal(t, int64(800), buckets[1].Total)
	assert.Equal(t, int64(200), buckets[2].Total)
}

func TestService_ClientHistory(t *testing.T) {
	clientID := uuid.New()
	sameDay := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)

	first := store.Sale{ID: uuid.New(), ClientID: clientID, Date: sameDay, Total: 100}
	second := store.Sale{ID: uuid.New(), ClientID: clientID, Date: sameDay, Total: 200}
	newer := store.Sale{ID: uuid.New(), ClientID: clientID, Date: sameDay.AddDate(0, 0, 5), Total: 300}
	other := store.Sale{ID: uuid.New(), ClientID: uuid.New(), Date: sameDay, Total: 999}

	repo := &fakeRepo{sales: []store.Sale{first, second, newer, other}}
	svc := NewService(repo)

	history := svc.ClientHistory(clientID)
	require.Len(t, history, 3)
	assert.Equal(t, newer.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID, "equal dates keep recording order")
	assert.Equal(t, second.ID, history[2].ID)
}

func TestService_ClientName_Fallback(t *testing.T) {
	repo := &fakeRepo{clients: []store.Client{{ID: uuid.New(), Name: "Alice"}}}
	svc := NewService(repo)

	assert.Equal(t, "Alice", svc.ClientName(repo.clients[0].ID))
	assert.Equal(t, "Unknown client", svc.ClientName(uuid.New()))
	assert.Equal(t, "Uncategorized", svc.CategoryName(uuid.New()))
}

func TestService_Dashboard(t *testing.T) {
	now := time.Date(2026, time.August, 31, 18, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		clients:    []store.Client{{ID: uuid.New()}},
		categories: []store.Category{{ID: uuid.New()}, {ID: uuid.New()}},
		products: []store.Product{
			{Price: 1000, Stock: 2, AlertThreshold: 5},
			{Price: 500, Stock: 0, AlertThreshold: 0},
			{Price: 200, Stock: 50, AlertThreshold: 5},
		},
		sales: []store.Sale{
			{Date: now.Add(-2 * time.Hour), Total: 1500},
			{Date: time.Date(2026, time.August, 2, 0, 0, 0, 0, time.UTC), Total: 700},
			{Date: time.Date(2026, time.July, 2, 0, 0, 0, 0, time.UTC), Total: 400},
		},
		purchases: []store.Purchase{{ID: uuid.New()}},
	}
	svc := newFixedService(repo, now)

	sum := svc.Dashboard()
	assert.Equal(t, 1, sum.Clients)
	assert.Equal(t, 2, sum.Categories)
	assert.Equal(t, 3, sum.Products)
	assert.Equal(t, 3, sum.Sales)
	assert.Equal(t, 1, sum.Purchases)
	assert.Equal(t, int64(2000+0+10000), sum.InventoryValue)
	assert.Equal(t, 2, sum.LowStock)
	assert.Equal(t, 1, sum.OutOfStock)
	assert.Equal(t, int64(1500), sum.RevenueToday)
	assert.Equal(t, int64(2200), sum.RevenueMonth)
}
