package export

import (
	"strings"

	"github.com/MrSnakeDoc/propintel/internal/domain"
)

const contentTypeCSV = "text/csv;charset=utf-8"

// RenderCSV writes the flattened record as exactly two lines: the header and
// one data row, with no trailing newline.
func RenderCSV(rec domain.PropertyDetails) Payload {
	return Payload{
		Filename:    Filename(rec.PropertyTitle, FormatCSV),
		ContentType: contentTypeCSV,
		Data:        []byte(ColumnsToCSV(domain.Flatten(rec))),
	}
}

// ColumnsToCSV renders flattened columns as a header line and a value line.
func ColumnsToCSV(cols []domain.Column) string {
	header := make([]string, len(cols))
	row := make([]string, len(cols))
	for i, c := range cols {
		header[i] = escapeCSV(c.Name)
		row[i] = escapeCSV(c.Value.String())
	}
	return strings.Join(header, ",") + "\n" + strings.Join(row, ",")
}

// escapeCSV quotes a field only when it contains a comma, a double quote or
// a newline. Inner quotes are doubled.
func escapeCSV(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
