package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/erp/reconciler/internal/domain/catalog"
)

func TestXLSXWriter_WriteProducts(t *testing.T) {
	m := &catalog.Product{Name: "Kettle", Vendor: "KT-1", SKU: "111", Barcode: "4600001"}
	w := &catalog.Product{Name: "Kettle 1.7L", Vendor: "KT-1W", SKU: "W111", Barcode: "4600001"}
	lonely := &catalog.Product{Name: "Mug", SKU: "W222", Barcode: "4600002"}

	data, err := NewXLSXWriter().WriteProducts([]catalog.Row{
		{Marketplace: m, Warehouse: w},
		{Warehouse: lonely},
		{Marketplace: &catalog.Product{Name: "Чайник", Barcode: "4600003"}},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, ProductHeaders, rows[0])
	assert.Equal(t, []string{"Kettle", "Kettle 1.7L", "KT-1", "KT-1W", "111", "W111", "4600001"}, rows[1])
	assert.Equal(t, []string{"", "Mug", "", "", "", "W222", "4600002"}, rows[2])
	assert.Equal(t, []string{"Чайник", "", "", "", "", "", "4600003"}, rows[3])
}

func TestXLSXWriter_Empty(t *testing.T) {
	data, err := NewXLSXWriter().WriteProducts(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, ".xlsx", NewXLSXWriter().Extension())
}
