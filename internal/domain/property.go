package domain

import "encoding/json"

// PropertyDetails is the structured record extracted from a listing.
//
// Every scalar is optional: a nil pointer means the extractor found nothing,
// which is not the same thing as an empty string. List fields are never nil
// once a record has gone through Normalize (JSON decoding does it for you).
type PropertyDetails struct {
	// ─────────────────────────────
	// Headline
	// ─────────────────────────────

	PropertyTitle *string  `json:"propertyTitle"`
	Address       *string  `json:"address"`
	Price         *float64 `json:"price"`

	// ─────────────────────────────
	// Layout
	// ─────────────────────────────

	Bedrooms       *float64 `json:"bedrooms"`
	Bathrooms      *float64 `json:"bathrooms"`
	Sqft           *float64 `json:"sqft"`
	PropertyType   *string  `json:"propertyType"`
	Purpose        *string  `json:"purpose"`        // e.g. "For Sale", "For Rent"
	FurnishingType *string  `json:"furnishingType"` // e.g. "Furnished", "Partly Furnished"
	Description    *string  `json:"description"`

	KeyFeatures          []string `json:"keyFeatures"`
	Images               []string `json:"images"`
	Amenities            []string `json:"amenities"`
	ValidatedInformation []string `json:"validatedInformation"`

	BuildingInformation *string `json:"buildingInformation"`

	// ─────────────────────────────
	// Regulatory identifiers
	// ─────────────────────────────

	PermitNumber *string `json:"permitNumber"`
	DEDNumber    *string `json:"dedNumber"`  // DED licence number
	RERANumber   *string `json:"reraNumber"` // RERA registration number
	ReferenceID  *string `json:"referenceId"`
	BRNDLD       *string `json:"brnDld"` // broker BRN / DLD permit

	ListedBy *Lister `json:"listedBy"`
}

// Lister is the agent or company advertising the property.
type Lister struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Company *string `json:"company"`
}

// Normalize replaces nil list fields with empty lists so callers can
// iterate without checking.
func (p *PropertyDetails) Normalize() {
	if p.KeyFeatures == nil {
		p.KeyFeatures = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Amenities == nil {
		p.Amenities = []string{}
	}
	if p.ValidatedInformation == nil {
		p.ValidatedInformation = []string{}
	}
}

// Clone returns a deep copy: no list, pointer or lister is shared with p.
func (p PropertyDetails) Clone() PropertyDetails {
	c := p
	for _, sp := range []**string{
		&c.PropertyTitle, &c.Address, &c.PropertyType, &c.Purpose, &c.FurnishingType,
		&c.Description, &c.BuildingInformation, &c.PermitNumber, &c.DEDNumber,
		&c.RERANumber, &c.ReferenceID, &c.BRNDLD,
	} {
		*sp = cloneString(*sp)
	}
	for _, fp := range []**float64{&c.Price, &c.Bedrooms, &c.Bathrooms, &c.Sqft} {
		*fp = cloneNumber(*fp)
	}

	c.KeyFeatures = cloneList(p.KeyFeatures)
	c.Images = cloneList(p.Images)
	c.Amenities = cloneList(p.Amenities)
	c.ValidatedInformation = cloneList(p.ValidatedInformation)

	if p.ListedBy != nil {
		c.ListedBy = &Lister{
			Name:    cloneString(p.ListedBy.Name),
			Phone:   cloneString(p.ListedBy.Phone),
			Email:   cloneString(p.ListedBy.Email),
			Company: cloneString(p.ListedBy.Company),
		}
	}
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneNumber(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// cloneList keeps nil as nil so Clone does not normalize.
func cloneList(list []string) []string {
	if list == nil {
		return nil
	}
	return append([]string{}, list...)
}

// Title returns the property title, or "" when absent.
func (p PropertyDetails) Title() string {
	if p.PropertyTitle == nil {
		return ""
	}
	return *p.PropertyTitle
}

// propertyDetailsJSON has the same fields without the custom (un)marshalers.
type propertyDetailsJSON PropertyDetails

// MarshalJSON always emits lists as arrays, never null.
func (p PropertyDetails) MarshalJSON() ([]byte, error) {
	p.Normalize()
	return json.Marshal(propertyDetailsJSON(p))
}

// UnmarshalJSON decodes a record and normalizes missing or null lists.
func (p *PropertyDetails) UnmarshalJSON(data []byte) error {
	var raw propertyDetailsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = PropertyDetails(raw)
	p.Normalize()
	return nil
}

// StringPtr is a small helper for building records by hand.
func StringPtr(s string) *string { return &s }

// NumberPtr is a small helper for building records by hand.
func NumberPtr(f float64) *float64 { return &f }
