// Package export renders a property record as downloadable files.
package export

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/propintel/internal/domain"
)

// Format is one of the supported export formats.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported format, in menu order.
var Formats = []Format{FormatJSON, FormatCSV, FormatXLSX}

// Payload is a rendered file ready to be written or served.
type Payload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported export format: %q", s)
}

// Render dispatches to the renderer for the given format.
func Render(format Format, rec domain.PropertyDetails) (Payload, error) {
	switch format {
	case FormatJSON:
		return RenderJSON(rec)
	case FormatCSV:
		return RenderCSV(rec), nil
	case FormatXLSX:
		return RenderXLSX(rec)
	default:
		return Payload{}, fmt.Errorf("unsupported export format: %q", format)
	}
}
