package export

import (
	"encoding/json"
	"fmt"

	"github.com/MrSnakeDoc/propintel/internal/domain"
)

const contentTypeJSON = "application/json"

// RenderJSON pretty-prints the unflattened record with two-space indentation.
func RenderJSON(rec domain.PropertyDetails) (Payload, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return Payload{}, fmt.Errorf("failed to marshal record: %w", err)
	}
	return Payload{
		Filename:    Filename(rec.PropertyTitle, FormatJSON),
		ContentType: contentTypeJSON,
		Data:        data,
	}, nil
}
