package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/MrSnakeDoc/propintel/internal/domain"
)

const (
	// SheetName is the only sheet of an exported workbook.
	SheetName = "PropertyDetails"

	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	defaultSheet    = "Sheet1"
)

// RenderXLSX builds a one-sheet workbook: header row plus one data row.
// Numbers are written as numeric cells, nulls as empty cells.
func RenderXLSX(rec domain.PropertyDetails) (Payload, error) {
	data, err := ColumnsToXLSX(domain.Flatten(rec))
	if err != nil {
		return Payload{}, err
	}
	return Payload{
		Filename:    Filename(rec.PropertyTitle, FormatXLSX),
		ContentType: contentTypeXLSX,
		Data:        data,
	}, nil
}

// ColumnsToXLSX renders flattened columns as workbook bytes.
func ColumnsToXLSX(cols []domain.Column) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close() // in-memory workbook, nothing to flush
	}()

	if err := f.SetSheetName(defaultSheet, SheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := make([]interface{}, len(cols))
	row := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = c.Name
		row[i] = cellValue(c.Value)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A2", &row); err != nil {
		return nil, fmt.Errorf("failed to write data row: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func cellValue(v domain.Value) interface{} {
	if v.IsNull() {
		return nil
	}
	if f, ok := v.Float(); ok {
		return f
	}
	return v.String()
}
