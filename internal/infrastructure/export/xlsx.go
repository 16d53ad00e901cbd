// Package export renders product reports as Excel workbooks.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/erp/reconciler/internal/domain/catalog"
)

// SheetName is the only sheet of a product report
const SheetName = "Products"

// XLSXContentType is the MIME type of .xlsx files
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ProductHeaders are the report columns
var ProductHeaders = []string{
	"Marketplace name",
	"Moy Sklad name",
	"Marketplace vendor code",
	"Moy Sklad vendor code",
	"Marketplace SKU",
	"Moy Sklad SKU",
	"Barcode",
}

// XLSXWriter writes product rows into a workbook, one row per pair
type XLSXWriter struct{}

// NewXLSXWriter creates an XLSXWriter
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// ContentType returns the MIME type of the report
func (w *XLSXWriter) ContentType() string {
	return XLSXContentType
}

// Extension returns the file extension of the report
func (w *XLSXWriter) Extension() string {
	return ".xlsx"
}

// WriteProducts renders the rows. The barcode column shows the marketplace
// barcode, or the warehouse one for rows without a listing.
func (w *XLSXWriter) WriteProducts(rows []catalog.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return nil, err
	}
	if err := sw.SetColWidth(1, 6, 32); err != nil {
		return nil, err
	}

	header := make([]any, len(ProductHeaders))
	for i, h := range ProductHeaders {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, rowValues(r)); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func rowValues(r catalog.Row) []any {
	var mName, mVendor, mSKU, wName, wVendor, wSKU, barcode string
	if m := r.Marketplace; m != nil {
		mName, mVendor, mSKU, barcode = m.Name, m.Vendor, m.SKU, m.Barcode
	}
	if wh := r.Warehouse; wh != nil {
		wName, wVendor, wSKU = wh.Name, wh.Vendor, wh.SKU
		if barcode == "" {
			barcode = wh.Barcode
		}
	}
	return []any{mName, wName, mVendor, wVendor, mSKU, wSKU, barcode}
}
