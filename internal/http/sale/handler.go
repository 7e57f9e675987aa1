package sale

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

type saleResponse struct {
	ID        uuid.UUID      `json:"id"`
	ClientID  uuid.UUID      `json:"client_id"`
	Date      time.Time      `json:"date"`
	Items     []itemResponse `json:"items"`
	Total     int64          `json:"total"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func toResponse(s store.Sale) saleResponse {
	resp := saleResponse{
		ID:        s.ID,
		ClientID:  s.ClientID,
		Date:      s.Date,
		Total:     s.Total,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}

	for _, item := range s.Items {
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

type createSaleRequest struct {
	ClientID uuid.UUID     `json:"client_id"`
	Date     time.Time     `json:"date"`
	Items    []itemRequest `json:"items"`
}

// create records the sale and its stock decrements in one store mutation.
// Input validation lives here: the store assumes well-formed items.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
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

	s := h.store.RecordSale(r.Context(), store.SaleParams{
		ClientID: req.ClientID,
		Date:     date,
		Items:    items,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(s)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	sales := h.store.Sales()
	resp := make([]saleResponse, len(sales))

	for i, s := range sales {
		resp[i] = toResponse(s)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateSaleRequest struct {
	ClientID *uuid.UUID `json:"client_id,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
}

// update touches header fields only. Items and the total are fixed when the
// sale is recorded.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.store.UpdateSale(r.Context(), id, store.SaleUpdate{
		ClientID: req.ClientID,
		Date:     req.Date,
	})

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	h.store.DeleteSale(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}
