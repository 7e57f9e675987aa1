package store

import (
	"time"

	"github.com/google/uuid"
)

// Client is a customer the shop sells to.
type Client struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category groups products for reporting. Products reference categories by id
// only; deleting a category leaves those references dangling on purpose.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product is a stocked item. Price is the current unit price in cents. Stock
// may go negative: quantity checks happen at input time in the UI, never here.
type Product struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Price          int64     `json:"price"`
	CategoryID     uuid.UUID `json:"category_id"`
	Stock          int       `json:"stock"`
	AlertThreshold int       `json:"alert_threshold"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SaleItem is one line of a sale. Price is the unit price in cents captured
// when the sale was recorded, not a live reference to the product price.
type SaleItem struct {
	ID        uuid.UUID `json:"id"`
	SaleID    uuid.UUID `json:"sale_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     int64     `json:"price"`
}

// Sale is a recorded sale to a client. Total is computed once at recording
// time as the sum of item price times quantity.
type Sale struct {
	ID        uuid.UUID  `json:"id"`
	ClientID  uuid.UUID  `json:"client_id"`
	Date      time.Time  `json:"date"`
	Items     []SaleItem `json:"items"`
	Total     int64      `json:"total"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PurchaseItem is one line of a purchase, with the unit cost in cents at
// recording time.
type PurchaseItem struct {
	ID         uuid.UUID `json:"id"`
	PurchaseID uuid.UUID `json:"purchase_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Quantity   int       `json:"quantity"`
	Price      int64     `json:"price"`
}

// Purchase is a recorded supplier purchase. Suppliers are free text, there is
// no supplier entity.
type Purchase struct {
	ID           uuid.UUID      `json:"id"`
	SupplierName string         `json:"supplier_name"`
	Date         time.Time      `json:"date"`
	Items        []PurchaseItem `json:"items"`
	Total        int64          `json:"total"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Snapshot is the full state of all five collections, as handed to the
// Persister after every mutation.
type Snapshot struct {
	Clients    []Client   `json:"clients"`
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
	Sales      []Sale     `json:"sales"`
	Purchases  []Purchase `json:"purchases"`
}
