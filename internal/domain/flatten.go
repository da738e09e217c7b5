package domain

import (
	"strconv"
	"strings"
)

// ListSeparator joins list fields into a single tabular cell.
const ListSeparator = "; "

type valueKind uint8

const (
	kindNull valueKind = iota
	kindText
	kindNumber
)

// Value is a single flattened cell: null, text or number.
type Value struct {
	kind valueKind
	text string
	num  float64
}

// Null is the marker for an absent value.
func Null() Value { return Value{kind: kindNull} }

// Text wraps a string cell.
func Text(s string) Value { return Value{kind: kindText, text: s} }

// Number wraps a numeric cell.
func Number(f float64) Value { return Value{kind: kindNumber, num: f} }

// IsNull reports whether the cell carries no value.
func (v Value) IsNull() bool { return v.kind == kindNull }

// Float returns the numeric value and whether the cell is numeric.
func (v Value) Float() (float64, bool) { return v.num, v.kind == kindNumber }

// String renders the cell for text formats. Null renders as "".
// Numbers use the shortest decimal form (3500000, 2.5).
func (v Value) String() string {
	switch v.kind {
	case kindText:
		return v.text
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Column is one (name, value) pair of a flattened record.
type Column struct {
	Name  string
	Value Value
}

// Flatten converts a record into an ordered list of columns for tabular
// export. The column set is fixed: the four lister columns are present (as
// nulls) even when the record has no lister.
func Flatten(p PropertyDetails) []Column {
	cols := []Column{
		{"Property Title", optText(p.PropertyTitle)},
		{"Address", optText(p.Address)},
		{"Price", optNumber(p.Price)},
		{"Bedrooms", optNumber(p.Bedrooms)},
		{"Bathrooms", optNumber(p.Bathrooms)},
		{"SqFt", optNumber(p.Sqft)},
		{"Property Type", optText(p.PropertyType)},
		{"Purpose", optText(p.Purpose)},
		{"Furnishing Type", optText(p.FurnishingType)},
		{"Description", optText(p.Description)},

		{"Key Features", joined(p.KeyFeatures)},
		{"Images", joined(p.Images)},
		{"Amenities", joined(p.Amenities)},
		{"Validated Information", joined(p.ValidatedInformation)},

		{"Building Information", optText(p.BuildingInformation)},
		{"Permit Number", optText(p.PermitNumber)},
		{"DED Number", optText(p.DEDNumber)},
		{"RERA Number", optText(p.RERANumber)},
		{"Reference ID", optText(p.ReferenceID)},
		{"BRN/DLD", optText(p.BRNDLD)},
	}

	lister := Lister{}
	if p.ListedBy != nil {
		lister = *p.ListedBy
	}
	cols = append(cols,
		Column{"Listed By Name", optText(lister.Name)},
		Column{"Listed By Phone", optText(lister.Phone)},
		Column{"Listed By Email", optText(lister.Email)},
		Column{"Listed By Company", optText(lister.Company)},
	)

	return cols
}

// ColumnNames returns the header row of a flattened record.
func ColumnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func optText(s *string) Value {
	if s == nil {
		return Null()
	}
	return Text(*s)
}

func optNumber(f *float64) Value {
	if f == nil {
		return Null()
	}
	return Number(*f)
}

func joined(list []string) Value {
	return Text(strings.Join(list, ListSeparator))
}
