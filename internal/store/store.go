package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=store.go -destination=persister_mock.go -package=store

// Persister is the boundary to durable storage. Load runs once at startup,
// Save after every successful mutation with the full current state.
type Persister interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
}

// Store owns the five record collections in memory. All mutation goes through
// its methods; reads hand out copies. A failed snapshot write never fails the
// mutation that triggered it — the store keeps operating in memory.
type Store struct {
	mu        sync.RWMutex
	persister Persister
	now       func() time.Time

	clients    []Client
	categories []Category
	products   []Product
	sales      []Sale
	purchases  []Purchase
}

// Open creates a store backed by the given persister and loads the last-saved
// snapshot. A missing or unreadable snapshot degrades to an empty store.
func Open(ctx context.Context, p Persister) *Store {
	s := &Store{persister: p, now: time.Now}

	snap, err := p.Load(ctx)
	if err != nil {
		slog.Warn("failed to load snapshot, starting empty", "error", err)
		return s
	}

	if snap != nil {
		s.clients = snap.Clients
		s.categories = snap.Categories
		s.products = snap.Products
		s.sales = snap.Sales
		s.purchases = snap.Purchases
	}

	return s
}

// snapshotLocked copies the collections so the persister never aliases live
// slices. Callers must hold at least a read lock.
func (s *Store) snapshotLocked() *Snapshot {
	snap := &Snapshot{
		Clients:    make([]Client, len(s.clients)),
		Categories: make([]Category, len(s.categories)),
		Products:   make([]Product, len(s.products)),
		Sales:      make([]Sale, len(s.sales)),
		Purchases:  make([]Purchase, len(s.purchases)),
	}

	copy(snap.Clients, s.clients)
	copy(snap.Categories, s.categories)
	copy(snap.Products, s.products)
	copy(snap.Sales, s.sales)
	copy(snap.Purchases, s.purchases)

	return snap
}

// Snapshot returns a copy of the full current state.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

func (s *Store) persistLocked(ctx context.Context) {
	if err := s.persister.Save(ctx, s.snapshotLocked()); err != nil {
		slog.Error("failed to save snapshot", "error", err)
	}
}

// --- Clients ---

type ClientParams struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

type ClientUpdate struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

func (s *Store) AddClient(ctx context.Context, params ClientParams) Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c := Client{
		ID:        uuid.New(),
		Name:      params.Name,
		Email:     params.Email,
		Phone:     params.Phone,
		Address:   params.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.clients = append(s.clients, c)
	s.persistLocked(ctx)

	return c
}

// UpdateClient merges the supplied fields over the existing record. A missing
// id is a no-op, not an error.
func (s *Store) UpdateClient(ctx context.Context, id uuid.UUID, update ClientUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.clients {
		if s.clients[i].ID != id {
			continue
		}

		c := &s.clients[i]

		if update.Name != nil {
			c.Name = *update.Name
		}

		if update.Email != nil {
			c.Email = *update.Email
		}

		if update.Phone != nil {
			c.Phone = *update.Phone
		}

		if update.Address != nil {
			c.Address = *update.Address
		}

		c.UpdatedAt = s.now()
		s.persistLocked(ctx)

		return
	}
}

// DeleteClient removes the client. Sales referencing it keep their dangling
// client id; readers substitute a fallback label.
func (s *Store) DeleteClient(ctx context.Context, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.clients {
		if s.clients[i].ID == id {
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			s.persistLocked(ctx)

			return
		}
	}
}

// Clients returns all clients in insertion order.
func (s *Store) Clients() []Client {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Client, len(s.clients))
	copy(out, s.clients)

	return out
}

// --- Categories ---

type CategoryParams struct {
	Name        string
	Description string
}

type CategoryUpdate struct {
	Name        *string
	Description *string
}

func (s *Store) AddCategory(ctx context.Context, params CategoryParams) Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c := Category{
		ID:          uuid.New(),
		Name:        params.Name,
		Description: params.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.categories = append(s.categories, c)
	s.persistLocked(ctx)

	return c
}

func (s *Store) UpdateCategory(ctx context.Context, id uuid.UUID, update CategoryUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.categories {
		if s.categories[i].ID != id {
			continue
		}

		c := &s.categories[i]

		if update.Name != nil {
			c.Name = *update.Name
		}

		if update.Description != nil {
			c.Description = *update.Description
		}

		c.UpdatedAt = s.now()
		s.persistLocked(ctx)

		return
	}
}

func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			s.persistLocked(ctx)

			return
		}
	}
}

func (s *Store) Categories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Category, len(s.categories))
	copy(out, s.categories)

	return out
}

// --- Products ---

type ProductParams struct {
	Name           string
	Description    string
	Price          int64
	CategoryID     uuid.UUID
	Stock          int
	AlertThreshold int
}

type ProductUpdate struct {
	Name           *string
	Description    *string
	Price          *int64
	CategoryID     *uuid.UUID
	Stock          *int
	AlertThreshold *int
}

func (s *Store) AddProduct(ctx context.Context, params ProductParams) Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p := Product{
		ID:             uuid.New(),
		Name:           params.Name,
		Description:    params.Description,
		Price:          params.Price,
		CategoryID:     params.CategoryID,
		Stock:          params.Stock,
		AlertThreshold: params.AlertThreshold,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	s.products = append(s.products, p)
	s.persistLocked(ctx)

	return p
}

func (s *Store) UpdateProduct(ctx context.Context, id uuid.UUID, update ProductUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}

		p := &s.products[i]

		if update.Name != nil {
			p.Name = *update.Name
		}

		if update.Description != nil {
			p.Description = *update.Description
		}

		if update.Price != nil {
			p.Price = *update.Price
		}

		if update.CategoryID != nil {
			p.CategoryID = *update.CategoryID
		}

		if update.Stock != nil {
			p.Stock = *update.Stock
		}

		if update.AlertThreshold != nil {
			p.AlertThreshold = *update.AlertThreshold
		}

		p.UpdatedAt = s.now()
		s.persistLocked(ctx)

		return
	}
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			s.persistLocked(ctx)

			return
		}
	}
}

func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)

	return out
}

// --- Sales and purchases ---

// ItemParams is one line of a sale or purchase to record. Price is the unit
// price in cents to capture on the line item.
type ItemParams struct {
	ProductID uuid.UUID
	Quantity  int
	Price     int64
}

type SaleParams struct {
	ClientID uuid.UUID
	Date     time.Time
	Items    []ItemParams
}

// SaleUpdate covers header fields only. Items and totals are fixed at
// recording time.
type SaleUpdate struct {
	ClientID *uuid.UUID
	Date     *time.Time
}

type PurchaseParams struct {
	SupplierName string
	Date         time.Time
	Items        []ItemParams
}

type PurchaseUpdate struct {
	SupplierName *string
	Date         *time.Time
}

// RecordSale appends the sale and decrements stock for every resolvable line
// item in a single mutation, so no reader can observe one without the other.
// Line items whose product id does not resolve adjust nothing but stay on the
// sale. Stock is not checked against the quantities and may go negative.
func (s *Store) RecordSale(ctx context.Context, params SaleParams) Sale {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sale := Sale{
		ID:        uuid.New(),
		ClientID:  params.ClientID,
		Date:      params.Date,
		CreatedAt: now,
		UpdatedAt: now,
	}

	total := int64(0)

	for _, item := range params.Items {
		sale.Items = append(sale.Items, SaleItem{
			ID:        uuid.New(),
			SaleID:    sale.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
		total += item.Price * int64(item.Quantity)
	}

	sale.Total = total
	s.applyStockDeltaLocked(params.Items, -1, now)

	s.sales = append(s.sales, sale)
	s.persistLocked(ctx)

	return sale
}

// RecordPurchase is the mirror of RecordSale with a positive stock delta.
func (s *Store) RecordPurchase(ctx context.Context, params PurchaseParams) Purchase {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	purchase := Purchase{
		ID:           uuid.New(),
		SupplierName: params.SupplierName,
		Date:         params.Date,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	total := int64(0)

	for _, item := range params.Items {
		purchase.Items = append(purchase.Items, PurchaseItem{
			ID:         uuid.New(),
			PurchaseID: purchase.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			Price:      item.Price,
		})
		total += item.Price * int64(item.Quantity)
	}

	purchase.Total = total
	s.applyStockDeltaLocked(params.Items, +1, now)

	s.purchases = append(s.purchases, purchase)
	s.persistLocked(ctx)

	return purchase
}

// applyStockDeltaLocked shifts stock by sign * quantity per line item. Items
// referencing unknown products are skipped silently.
func (s *Store) applyStockDeltaLocked(items []ItemParams, sign int, now time.Time) {
	for _, item := range items {
		for i := range s.products {
			if s.products[i].ID != item.ProductID {
				continue
			}

			s.products[i].Stock += sign * item.Quantity
			s.products[i].UpdatedAt = now

			break
		}
	}
}

func (s *Store) UpdateSale(ctx context.Context, id uuid.UUID, update SaleUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sales {
		if s.sales[i].ID != id {
			continue
		}

		sale := &s.sales[i]

		if update.ClientID != nil {
			sale.ClientID = *update.ClientID
		}

		if update.Date != nil {
			sale.Date = *update.Date
		}

		sale.UpdatedAt = s.now()
		s.persistLocked(ctx)

		return
	}
}

// DeleteSale removes the sale record. Stock is not restored: the adjustment
// happened when the sale was recorded and deletions do not reverse it.
func (s *Store) DeleteSale(ctx context.Context, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sales {
		if s.sales[i].ID == id {
			s.sales = append(s.sales[:i], s.sales[i+1:]...)
			s.persistLocked(ctx)

			return
		}
	}
}

func (s *Store) Sales() []Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Sale, len(s.sales))
	copy(out, s.sales)

	return out
}

func (s *Store) UpdatePurchase(ctx context.Context, id uuid.UUID, update PurchaseUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.purchases {
		if s.purchases[i].ID != id {
			continue
		}

		purchase := &s.purchases[i]

		if update.SupplierName != nil {
			purchase.SupplierName = *update.SupplierName
		}

		if update.Date != nil {
			purchase.Date = *update.Date
		}

		purchase.UpdatedAt = s.now()
		s.persistLocked(ctx)

		return
	}
}

func (s *Store) DeletePurchase(ctx context.Context, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.purchases {
		if s.purchases[i].ID == id {
			s.purchases = append(s.purchases[:i], s.purchases[i+1:]...)
			s.persistLocked(ctx)

			return
		}
	}
}

func (s *Store) Purchases() []Purchase {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Purchase, len(s.purchases))
	copy(out, s.purchases)

	return out
}
