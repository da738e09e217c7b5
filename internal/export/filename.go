package export

import "strings"

// FallbackBaseName is used when a record has no usable title.
const FallbackBaseName = "property_details"

// Filename derives a safe file name from a record title:
// anything outside [A-Za-z0-9] becomes '_' and the result is lowercased.
func Filename(title *string, ext Format) string {
	return baseName(title) + "." + string(ext)
}

func baseName(title *string) string {
	if title == nil || *title == "" {
		return FallbackBaseName
	}

	var b strings.Builder
	b.Grow(len(*title))
	for _, r := range *title {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
