package extract

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/MrSnakeDoc/propintel/internal/domain"
)

const schemaURL = "property_details.json"

//go:embed schema/property_details.json
var schemaJSON []byte

// recordSchema is compiled once; the embedded document is part of the build,
// so a compile failure is a programming error.
var recordSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("add record schema: %v", err))
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		panic(fmt.Sprintf("compile record schema: %v", err))
	}
	return schema
}

// DecodeRecord validates a model answer against the record schema and
// decodes it. Code fences around the JSON are tolerated.
func DecodeRecord(answer string) (domain.PropertyDetails, error) {
	body := []byte(stripFences(answer))

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return domain.PropertyDetails{}, fmt.Errorf("answer is not valid JSON: %w", err)
	}
	if err := recordSchema.Validate(v); err != nil {
		return domain.PropertyDetails{}, fmt.Errorf("answer does not match the record schema: %w", err)
	}

	var rec domain.PropertyDetails
	if err := json.Unmarshal(body, &rec); err != nil {
		return domain.PropertyDetails{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
