// Package importer parses product catalog CSV exports.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storekeep/internal/encoding"
	"storekeep/internal/store"
)

const (
	colName        = "Name"
	colDescription = "Description"
	colCategory    = "Category"
	colPrice       = "Price"
	colStock       = "Stock"
	colAlert       = "Alert"
)

// ProductRow is one parsed catalog line. Price is in cents; Category is the
// raw name from the file, resolved to an id by Apply.
type ProductRow struct {
	Name           string
	Description    string
	Category       string
	Price          int64
	Stock          int
	AlertThreshold int
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// ParseCatalog reads a semicolon-separated catalog export. The header row is
// found by scanning for the known column names, so leading junk from
// spreadsheet exports is tolerated. Rows that fail to parse are skipped.
func (s *Service) ParseCatalog(r io.Reader) ([]ProductRow, error) {
	utf8Reader, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	reader := csv.NewReader(utf8Reader)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	idx := map[string]int{}
	headerFound := false

	var products []ProductRow

	for _, row := range rows {
		if !headerFound {
			matches := 0

			for i, col := range row {
				switch strings.TrimSpace(col) {
				case colName, colDescription, colCategory, colPrice, colStock, colAlert:
					idx[strings.TrimSpace(col)] = i
					matches++
				}
			}

			// Name and Price are the minimum for a usable catalog.
			if matches >= 2 {
				if _, ok := idx[colName]; !ok {
					idx = map[string]int{}
					continue
				}

				if _, ok := idx[colPrice]; !ok {
					idx = map[string]int{}
					continue
				}

				headerFound = true
			}

			continue
		}

		name := field(row, idx, colName)
		if name == "" {
			continue
		}

		price, err := parsePrice(field(row, idx, colPrice))
		if err != nil {
			continue
		}

		products = append(products, ProductRow{
			Name:           name,
			Description:    field(row, idx, colDescription),
			Category:       field(row, idx, colCategory),
			Price:          price,
			Stock:          parseCount(field(row, idx, colStock)),
			AlertThreshold: parseCount(field(row, idx, colAlert)),
		})
	}

	if !headerFound {
		return nil, fmt.Errorf("no catalog header found")
	}

	return products, nil
}

// Apply adds the parsed rows to the store, resolving category names against
// existing categories and creating the ones that do not exist yet.
func (s *Service) Apply(ctx context.Context, st *store.Store, rows []ProductRow) []store.Product {
	categoryIDs := map[string]store.Category{}
	for _, c := range st.Categories() {
		categoryIDs[c.Name] = c
	}

	added := make([]store.Product, 0, len(rows))

	for _, row := range rows {
		params := store.ProductParams{
			Name:           row.Name,
			Description:    row.Description,
			Price:          row.Price,
			Stock:          row.Stock,
			AlertThreshold: row.AlertThreshold,
		}

		if row.Category != "" {
			c, ok := categoryIDs[row.Category]
			if !ok {
				c = st.AddCategory(ctx, store.CategoryParams{Name: row.Category})
				categoryIDs[row.Category] = c
			}

			params.CategoryID = c.ID
		}

		added = append(added, st.AddProduct(ctx, params))
	}

	return added
}

func field(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[i])
}

// parsePrice converts a decimal price string into cents. Both "1.234,56" and
// "1234.56" styles are accepted.
func parsePrice(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}

	clean := s
	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	if d.IsNegative() {
		return 0, fmt.Errorf("negative price: %s", s)
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

func parseCount(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}

	return n
}
