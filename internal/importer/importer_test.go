package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"storekeep/internal/importer"
	"storekeep/internal/store"
)

func TestService_ParseCatalog(t *testing.T) {
	type args struct {
		csvContent string
	}

	type testCase struct {
		name    string
		args    args
		wantLen int
		verify  func(t *testing.T, rows []importer.ProductRow)
		wantErr bool
	}

	tests := []testCase{
		{
			name: "Standard Export",
			args: args{
				csvContent: `Catalog export - 2026-08-31
Shop;Corner Grocery

Name;Description;Category;Price;Stock;Alert
Espresso Beans;1kg bag;Coffee;12,50;10;5
Ground Coffee;;Coffee;8.99;0;3
;missing name;Coffee;1,00;5;1
Tea Sampler;assorted;Tea;not-a-price;2;1
`,
			},
			wantLen: 2,
			verify: func(t *testing.T, rows []importer.ProductRow) {
				assert.Equal(t, "Espresso Beans", rows[0].Name)
				assert.Equal(t, int64(1250), rows[0].Price)
				assert.Equal(t, 10, rows[0].Stock)
				assert.Equal(t, 5, rows[0].AlertThreshold)
				assert.Equal(t, "Coffee", rows[0].Category)

				assert.Equal(t, int64(899), rows[1].Price, "dot decimals parse too")
				assert.Equal(t, 0, rows[1].Stock)
			},
		},
		{
			name: "Thousand Separators",
			args: args{
				csvContent: "Name;Price;Stock\nEspresso Machine;1.234,56;1\n",
			},
			wantLen: 1,
			verify: func(t *testing.T, rows []importer.ProductRow) {
				assert.Equal(t, int64(123456), rows[0].Price)
			},
		},
		{
			name: "No Header",
			args: args{
				csvContent: "just;some;cells\nwithout;a;header\n",
			},
			wantErr: true,
		},
		{
			name: "Negative Price Skipped",
			args: args{
				csvContent: "Name;Price\nGood;2,00\nBad;-1,00\n",
			},
			wantLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := importer.NewService()
			rows, err := svc.ParseCatalog(strings.NewReader(tt.args.csvContent))

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Len(t, rows, tt.wantLen)

			if tt.verify != nil {
				tt.verify(t, rows)
			}
		})
	}
}

func TestService_Apply(t *testing.T) {
	ctrl := gomock.NewController(t)
	persister := store.NewMockPersister(ctrl)
	persister.EXPECT().Load(gomock.Any()).Return(nil, nil)
	persister.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	st := store.Open(context.Background(), persister)
	existing := st.AddCategory(context.Background(), store.CategoryParams{Name: "Coffee"})

	svc := importer.NewService()
	added := svc.Apply(context.Background(), st, []importer.ProductRow{
		{Name: "Espresso Beans", Category: "Coffee", Price: 1250, Stock: 10, AlertThreshold: 5},
		{Name: "Tea Sampler", Category: "Tea", Price: 800, Stock: 4},
		{Name: "Gift Card", Price: 2000},
	})

	require.Len(t, added, 3)
	assert.Equal(t, existing.ID, added[0].CategoryID, "existing categories are reused")

	categories := st.Categories()
	require.Len(t, categories, 2, "unknown category names are created once")
	assert.Equal(t, "Tea", categories[1].Name)
	assert.Equal(t, categories[1].ID, added[1].CategoryID)

	assert.Equal(t, uuid.Nil, added[2].CategoryID, "no category stays unset")
	require.Len(t, st.Products(), 3)
}
