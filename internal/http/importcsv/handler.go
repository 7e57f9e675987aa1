package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"storekeep/internal/importer"
	"storekeep/internal/store"
)

type Handler struct {
	importSvc *importer.Service
	store     *store.Store
}

func NewHandler(importSvc *importer.Service, st *store.Store) *Handler {
	return &Handler{
		importSvc: importSvc,
		store:     st,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/products", h.importProducts)
}

type productResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Price          int64     `json:"price"`
	CategoryID     uuid.UUID `json:"category_id"`
	Stock          int       `json:"stock"`
	AlertThreshold int       `json:"alert_threshold"`
	CreatedAt      time.Time `json:"created_at"`
}

type importSuccessResponse struct {
	Imported int               `json:"imported"`
	Products []productResponse `json:"products"`
}

func (h *Handler) importProducts(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := h.importSvc.ParseCatalog(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	added := h.importSvc.Apply(r.Context(), h.store, rows)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toSuccessResponse(added)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toSuccessResponse(products []store.Product) importSuccessResponse {
	responses := make([]productResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, productResponse{
			ID:             p.ID,
			Name:           p.Name,
			Description:    p.Description,
			Price:          p.Price,
			CategoryID:     p.CategoryID,
			Stock:          p.Stock,
			AlertThreshold: p.AlertThreshold,
			CreatedAt:      p.CreatedAt,
		})
	}

	return importSuccessResponse{
		Imported: len(products),
		Products: responses,
	}
}
