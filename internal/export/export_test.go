package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/MrSnakeDoc/propintel/internal/domain"
)

func marinaRecord() domain.PropertyDetails {
	rec := domain.PropertyDetails{
		PropertyTitle: domain.StringPtr("Luxury Marina View Apartment"),
		Price:         domain.NumberPtr(3500000),
		Bathrooms:     domain.NumberPtr(2.5),
		Description:   domain.StringPtr("Sea view, \"prime\" spot\nready to move"),
		KeyFeatures:   []string{"Pool", "Gym"},
		ListedBy: &domain.Lister{
			Name:    domain.StringPtr("John Doe"),
			Company: domain.StringPtr("Premium Properties LLC"),
		},
	}
	rec.Normalize()
	return rec
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name  string
		title *string
		ext   Format
		want  string
	}{
		{name: "plain title", title: domain.StringPtr("Luxury Marina View Apartment"), ext: FormatJSON, want: "luxury_marina_view_apartment.json"},
		{name: "punctuation", title: domain.StringPtr("3-Bed Villa, JVC!"), ext: FormatCSV, want: "3_bed_villa__jvc_.csv"},
		{name: "non ascii", title: domain.StringPtr("Café"), ext: FormatXLSX, want: "caf_.xlsx"},
		{name: "absent", title: nil, ext: FormatJSON, want: "property_details.json"},
		{name: "empty", title: domain.StringPtr(""), ext: FormatCSV, want: "property_details.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.title, tt.ext); got != tt.want {
				t.Errorf("Filename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderFilenamesShareBase(t *testing.T) {
	rec := marinaRecord()
	for _, f := range Formats {
		p, err := Render(f, rec)
		if err != nil {
			t.Fatalf("Render(%s) error = %v", f, err)
		}
		want := "luxury_marina_view_apartment." + string(f)
		if p.Filename != want {
			t.Errorf("Render(%s) filename = %q, want %q", f, p.Filename, want)
		}
		if len(p.Data) == 0 {
			t.Errorf("Render(%s) returned empty payload", f)
		}
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	if _, err := Render(Format("pdf"), marinaRecord()); err == nil {
		t.Error("Render() with unknown format should fail")
	}
	if _, err := ParseFormat("PDF"); err == nil {
		t.Error("ParseFormat() should reject pdf")
	}
	if f, err := ParseFormat(" XLSX "); err != nil || f != FormatXLSX {
		t.Errorf("ParseFormat(XLSX) = %q, %v", f, err)
	}
}

func TestRenderJSONRoundTrip(t *testing.T) {
	rec := marinaRecord()

	p, err := RenderJSON(rec)
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}
	if !strings.Contains(string(p.Data), "\n  \"propertyTitle\": ") {
		t.Errorf("expected two-space indentation, got:\n%s", p.Data)
	}
	if !strings.Contains(string(p.Data), `"amenities": []`) {
		t.Errorf("empty list should render as [], got:\n%s", p.Data)
	}

	var back domain.PropertyDetails
	if err := json.Unmarshal(p.Data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(back, rec) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, rec)
	}
}

func TestRenderCSV(t *testing.T) {
	rec := marinaRecord()
	p := RenderCSV(rec)

	text := string(p.Data)
	if strings.HasSuffix(text, "\n") {
		t.Error("CSV should not end with a newline")
	}
	if strings.Contains(text, "null") {
		t.Errorf("null values must render as empty fields:\n%s", text)
	}

	r := csv.NewReader(bytes.NewReader(p.Data))
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("csv.ReadAll() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 CSV records, got %d", len(records))
	}

	cols := domain.Flatten(rec)
	if len(records[0]) != len(cols) || len(records[1]) != len(cols) {
		t.Fatalf("field counts = %d/%d, want %d", len(records[0]), len(records[1]), len(cols))
	}

	for i, c := range cols {
		if records[0][i] != c.Name {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], c.Name)
		}
		if records[1][i] != c.Value.String() {
			t.Errorf("value[%d] (%s) = %q, want %q", i, c.Name, records[1][i], c.Value.String())
		}
	}
}

func TestEscapeCSV(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: "a,b", want: `"a,b"`},
		{in: `say "hi"`, want: `"say ""hi"""`},
		{in: "line1\nline2", want: "\"line1\nline2\""},
		{in: " leading space", want: " leading space"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := escapeCSV(tt.in); got != tt.want {
			t.Errorf("escapeCSV(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderXLSX(t *testing.T) {
	rec := marinaRecord()
	p, err := RenderXLSX(rec)
	if err != nil {
		t.Fatalf("RenderXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(p.Data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			t.Logf("failed to close workbook: %v", err)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != SheetName {
		t.Fatalf("sheets = %v, want [%s]", sheets, SheetName)
	}

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	cols := domain.Flatten(rec)
	if !reflect.DeepEqual(rows[0], domain.ColumnNames(cols)) {
		t.Errorf("header row = %v", rows[0])
	}
	if rows[1][0] != "Luxury Marina View Apartment" {
		t.Errorf("title cell = %q", rows[1][0])
	}
	if rows[1][2] != "3500000" {
		t.Errorf("price cell = %q, want 3500000", rows[1][2])
	}
}
