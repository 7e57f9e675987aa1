package purchase

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"storekeep/internal/store"
)

type Handler struct {
	store *store.Store
}

func NewHandler(st *store.Store) *Handler {
	return &Handler{store: st}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type itemResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     int64     `json:"price"`
}

type purchaseResponse struct {
	ID           uuid.UUID      `json:"id"`
	SupplierName string         `json:"supplier_name"`
	Date         time.Time      `json:"date"`
	Items        []itemResponse `json:"items"`
	Total        int64          `json:"total"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func toResponse(p store.Purchase) purchaseResponse {
	resp := purchaseResponse{
		ID:           p.ID,
		SupplierName: p.SupplierName,
		Date:         p.Date,
		Total:        p.Total,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}

	for _, item := range p.Items {
		resp.Items = append(resp.Items, itemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	return resp
}

type itemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     int64     `json:"price"`
}

type createPurchaseRequest struct {
	SupplierName string        `json:"supplier_name"`
	Date         time.Time     `json:"date"`
	Items        []itemRequest `json:"items"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.SupplierName == "" {
		http.Error(w, "supplier_name is required", http.StatusBadRequest)
		return
	}

	if len(req.Items) == 0 {
		http.Error(w, "at least one item is required", http.StatusBadRequest)
		return
	}

	items := make([]store.ItemParams, len(req.Items))

	for i, item := range req.Items {
		if item.Quantity <= 0 {
			http.Error(w, "quantity must be positive", http.StatusBadRequest)
			return
		}

		if item.Price < 0 {
			http.Error(w, "price must not be negative", http.StatusBadRequest)
			return
		}

		items[i] = store.ItemParams{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	p := h.store.RecordPurchase(r.Context(), store.PurchaseParams{
		SupplierName: req.SupplierName,
		Date:         date,
		Items:        items,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	purchases := h.store.Purchases()
	resp := make([]purchaseResponse, len(purchases))

	for i, p := range purchases {
		resp[i] = toResponse(p)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updatePurchaseRequest struct {
	SupplierName *string    `json:"supplier_name,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.store.UpdatePurchase(r.Context(), id, store.PurchaseUpdate{
		SupplierName: req.SupplierName,
		Date:         req.Date,
	})

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	h.store.DeletePurchase(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}
