package report

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"storekeep/internal/report"
	"storekeep/internal/store"
)

const defaultMonths = 6

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
	r.Get("/categories", h.categories)
	r.Get("/monthly-sales", h.monthlySales)
	r.Get("/low-stock", h.lowStock)
}

type dashboardResponse struct {
	Clients        int   `json:"clients"`
	Categories     int   `json:"categories"`
	Products       int   `json:"products"`
	Sales          int   `json:"sales"`
	Purchases      int   `json:"purchases"`
	InventoryValue int64 `json:"inventory_value"`
	LowStock       int   `json:"low_stock"`
	OutOfStock     int   `json:"out_of_stock"`
	RevenueToday   int64 `json:"revenue_today"`
	RevenueMonth   int64 `json:"revenue_month"`
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	sum := h.svc.Dashboard()

	writeJSON(w, dashboardResponse{
		Clients:        sum.Clients,
		Categories:     sum.Categories,
		Products:       sum.Products,
		Sales:          sum.Sales,
		Purchases:      sum.Purchases,
		InventoryValue: sum.InventoryValue,
		LowStock:       sum.LowStock,
		OutOfStock:     sum.OutOfStock,
		RevenueToday:   sum.RevenueToday,
		RevenueMonth:   sum.RevenueMonth,
	})
}

type categoryValuationResponse struct {
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	Count      int       `json:"count"`
	TotalValue int64     `json:"total_value"`
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	vals := h.svc.CategoryValuations()
	resp := make([]categoryValuationResponse, 0, len(vals))

	for _, v := range vals {
		resp = append(resp, categoryValuationResponse{
			CategoryID: v.CategoryID,
			Name:       v.Name,
			Count:      v.Count,
			TotalValue: v.TotalValue,
		})
	}

	sort.Slice(resp, func(i, j int) bool { return resp[i].Name < resp[j].Name })

	writeJSON(w, resp)
}

type monthlyBucketResponse struct {
	Label string `json:"label"`
	Total int64  `json:"total"`
}

func (h *Handler) monthlySales(w http.ResponseWriter, r *http.Request) {
	months := defaultMonths

	if s := r.URL.Query().Get("months"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 36 {
			http.Error(w, "months must be between 1 and 36", http.StatusBadRequest)
			return
		}

		months = n
	}

	buckets := h.svc.MonthlySales(months)
	resp := make([]monthlyBucketResponse, len(buckets))

	for i, b := range buckets {
		resp[i] = monthlyBucketResponse{Label: b.Label, Total: b.Total}
	}

	writeJSON(w, resp)
}

type lowStockResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Stock          int       `json:"stock"`
	AlertThreshold int       `json:"alert_threshold"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	low := h.svc.LowStock()
	resp := make([]lowStockResponse, len(low))

	for i, p := range low {
		resp[i] = toLowStock(p, h.svc.CategoryName(p.CategoryID))
	}

	writeJSON(w, resp)
}

func toLowStock(p store.Product, category string) lowStockResponse {
	return lowStockResponse{
		ID:             p.ID,
		Name:           p.Name,
		Category:       category,
		Stock:          p.Stock,
		AlertThreshold: p.AlertThreshold,
		UpdatedAt:      p.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
