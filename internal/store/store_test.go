package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeClock hands out strictly increasing timestamps so updated_at
// comparisons are deterministic.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestStore(t *testing.T) (*Store, *MockPersister) {
	t.Helper()

	ctrl := gomock.NewController(t)
	persister := NewMockPersister(ctrl)
	persister.EXPECT().Load(gomock.Any()).Return(nil, nil)

	s := Open(context.Background(), persister)
	clock := &fakeClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	s.now = clock.Now

	return s, persister
}

func TestStore_AddClient(t *testing.T) {
	s, persister := newTestStore(t)
	persister.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	c := s.AddClient(context.Background(), ClientParams{
		Name:    "Alice Martin",
		Email:   "alice@example.com",
		Phone:   "555-0100",
		Address: "1 Main St",
	})

	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.False(t, c.CreatedAt.IsZero())
	assert.Equal(t, c.CreatedAt, c.UpdatedAt)

	clients := s.Clients()
	require.Len(t, clients, 1)
	assert.Equal(t, "Alice Martin", clients[0].Name)
	assert.Equal(t, "alice@example.com", clients[0].Email)
	assert.Equal(t, c.ID, clients[0].ID)
}

func TestStore_UpdateClient(t *testing.T) {
	s, persister := newTestStore(t)
	persister.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	c := s.AddClient(context.Background(), ClientParams{Name: "Alice", Email: "a@example.com"})

	name := "Alice Martin"
	s.UpdateClient(context.Background(), c.ID, ClientUpdate{Name: &name})

	clients := s.Clients()
	require.Len(t, clients, 1)
	assert.Equal(t, "Alice Martin", clients[0].Name)
	assert.Equal(t, "a@example.com", clients[0].Email, "untouched fields stay")
	assert.Equal(t, c.CreatedAt, clients[0].CreatedAt)
	assert.True(t, clients[0].UpdatedAt.After(c.UpdatedAt))
}

func TestStore_UpdateClient_MissingID(t *testing.T) {
	s, persister := newTestStore(t)
	persister.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(1) // only the add

	c := s.AddClient(context.Background(), ClientParams{Name: "Alice"})

	name := "Bob"
	s.UpdateClient(context.Background(), uuid.New(), ClientUpdate{Name: &name})

	clients := s.Clients()
	require.Len(t, clients, 1)
	assert.Equal(t, "Alice", clients[0].Name)
	assert.Equal(t, c.UpdatedAt, clients[0].UpdatedAt)
}

func TestStore_DeleteClient(t *testing.T) {
	s, persister := newTestStore(t)
	persister.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	c := s.AddClient(context.Background(), ClientParams{Name: "Alice"})
	s.DeleteClient(context.Background(), c.ID)
	assert.Empty(t, s.Clients())

	assert.NotPanics(t, func() {
		s.DeleteClient(context.Background(), c.ID)
	})
	assert.Empty(t, s.Clients())
}

func TestStore_DeleteClient_KeepsSales(t *testing.T) {
	s, persister := newTestStore(t)
	persister.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	c := s.AddClient(context.Background(), ClientParams{Name: "Alice"})
	sale := s.RecordSale(context.Background(), SaleParams{
		ClientID: c.ID,
		Date:     time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Items:    []ItemParams{{ProductID: uuid.New(), Quantity: 1, Price: 500}},
	})

	s.DeleteClient(context.Background(), c.ID)

	sales := s.Sales()
	require.Len(t, sales, 1)
	assert.Equal(t, sale.ID, sales[0].ID)
	assert.Equal(t, c.ID, sales[0].ClientID, "dangling client reference stays")
}

func TestStore_RecordSale(t *testing.T) {
	s, persister := newTestStore(t)
	persister.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	p := s.AddProduct(context.Background(), ProductParams{Name: "Espresso Beans", Price: 1250, Stock: 10, AlertThreshold: 5})

	sale := s.RecordSale(context.Background(), SaleParams{
		ClientID: uuid.New(),
		Date:     time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Items:    []ItemParams{{ProductID: p.ID, Quantity: 3, Price: 1250}},
	})

	products := s.Products()
	require.Len(t, products, 1)
	assert.Equal(t, 7, products[0].Stock)
	assert.True(t, products[0].UpdatedAt.After(p.UpdatedAt))

	require.Len(t, sale.Items, 1)
	assert.Equal(t, sale.ID, sale.Items[0].SaleID)
	assert.Equal(t, int64(3*1250), sale.Total)

	sales := s.Sales()
	require.Len(t, sales, 1)
	assert.Equal(t, sale.ID, sales[0].ID)
}

func TestStore_RecordSale_UnknownProduct(t *testing.T) {
	s, persister := newTestStore(t)
	persister.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	p := s.AddProduct(context.Background(), ProductParams{Name: "Beans", Price: 1000, Stock: 10})

	sale := s.RecordSale(context.Background(), SaleParams{
		Date: time.Now(),
		Items: []ItemParams{
			{ProductID: p.ID, Quantity: 2, Price: 1000},
			{ProductID: uuid.New(), Quantity: 4, Price: 300},
		},
	})

	// The dangling line adjusts nothing but still counts in the total.
	assert.Equal(t, 8, s.Products()[0].Stock)
	assert.Equal(t, int64(2*1000+4*300), sale.Total)
	assert.Len(t, sale.Items, 2)
}

func TestStore_RecordSale_NegativeStock(t *testing.T) {
	s, persister := newTestStore(t)
	persister.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	p := s.AddProduct(context.Background(), ProductParams{Name: "Beans", Price: 1000, Stock: 2})

	s.RecordSale(context.Background(), SaleParams{
		Date:  time.Now(),
		Items: []ItemParams{{ProductID: p.ID, Quantity: 5, Price: 1000}},
	})

	assert.Equal(t, -3, s.Products()[0].Stock, "stock is never clamped at zero")
}

func TestStore_RecordPurchase(t *testing.T) {
	s, persister := newTestStore(t)
	persister.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	p := s.AddProduct(context.Background(), ProductParams{Name: "Beans", Price: 1250, Stock: 7})

	purchase := s.RecordPurchase(context.Background(), PurchaseParams{
		SupplierName: "Roasters Ltd",
		Date:         time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		Items:        []ItemParams{{ProductID: p.ID, Quantity: 5, Price: 800}},
	})

	assert.Equal(t, 12, s.Products()[0].Stock)
	assert.Equal(t, int64(5*800), purchase.Total)
	require.Len(t, purchase.Items, 1)
	assert.Equal(t, purchase.ID, purchase.Items[0].PurchaseID)
}

func TestStore_UpdateSale_HeaderOnly(t *testing.T) {
	s, persister := newTestStore(t)
	persister.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	p := s.AddProduct(context.Background(), ProductParams{Name: "Beans", Price: 1000, Stock: 10})
	sale := s.RecordSale(context.Background(), SaleParams{
		Date:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Items: []ItemParams{{ProductID: p.ID, Quantity: 1, Price: 1000}},
	})

	newDate := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
	s.UpdateSale(context.Background(), sale.ID, SaleUpdate{Date: &newDate})

	sales := s.Sales()
	require.Len(t, sales, 1)
	assert.Equal(t, newDate, sales[0].Date)
	assert.Equal(t, sale.Total, sales[0].Total, "total is never recomputed")
	assert.Equal(t, sale.Items, sales[0].Items)
	assert.Equal(t, 9, s.Products()[0].Stock, "stock untouched by header update")
}

func TestStore_DeleteSale_KeepsStock(t *testing.T) {
	s, persister := newTestStore(t)
	persister.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	p := s.AddProduct(context.Background(), ProductParams{Name: "Beans", Price: 1000, Stock: 10})
	sale := s.RecordSale(context.Background(), SaleParams{
		Date:  time.Now(),
		Items: []ItemParams{{ProductID: p.ID, Quantity: 4, Price: 1000}},
	})

	s.DeleteSale(context.Background(), sale.ID)

	assert.Empty(t, s.Sales())
	assert.Equal(t, 6, s.Products()[0].Stock)
}

func TestOpen_RestoresSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	persister := NewMockPersister(ctrl)

	snap := &Snapshot{
		Clients:  []Client{{ID: uuid.New(), Name: "Alice"}},
		Products: []Product{{ID: uuid.New(), Name: "Beans", Stock: 3}},
	}
	persister.EXPECT().Load(gomock.Any()).Return(snap, nil)

	s := Open(context.Background(), persister)

	require.Len(t, s.Clients(), 1)
	assert.Equal(t, "Alice", s.Clients()[0].Name)
	require.Len(t, s.Products(), 1)
	assert.Equal(t, 3, s.Products()[0].Stock)
	assert.Empty(t, s.Sales())
}

func TestOpen_LoadErrorStartsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	persister := NewMockPersister(ctrl)
	persister.EXPECT().Load(gomock.Any()).Return(nil, errors.New("corrupt payload"))
	persister.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	s := Open(context.Background(), persister)

	assert.Empty(t, s.Clients())

	// The store must stay usable after a failed load.
	c := s.AddClient(context.Background(), ClientParams{Name: "Alice"})
	assert.NotEqual(t, uuid.Nil, c.ID)
}

func TestStore_SaveFailureDoesNotFailMutation(t *testing.T) {
	s, persister := newTestStore(t)
	persister.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full")).AnyTimes()

	c := s.AddClient(context.Background(), ClientParams{Name: "Alice"})

	require.Len(t, s.Clients(), 1)
	assert.Equal(t, c.ID, s.Clients()[0].ID)
}

func TestStore_SnapshotCopiesState(t *testing.T) {
	s, persister := newTestStore(t)
	persister.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	s.AddClient(context.Background(), ClientParams{Name: "Alice"})

	snap := s.Snapshot()
	snap.Clients[0].Name = "Mallory"

	assert.Equal(t, "Alice", s.Clients()[0].Name)
}
