package extract

import "strings"

const systemPrompt = `You extract structured data from real-estate listings.
Answer with a single JSON object and nothing else, using exactly these keys:
propertyTitle, address, price, bedrooms, bathrooms, sqft, propertyType, purpose,
furnishingType, description, keyFeatures, images, amenities, validatedInformation,
buildingInformation, permitNumber, dedNumber, reraNumber, referenceId, brnDld, listedBy.

Rules:
- price, bedrooms, bathrooms and sqft are plain numbers without currency, units or separators.
- keyFeatures, images, amenities and validatedInformation are arrays of strings; use [] when none.
- listedBy is an object with name, phone, email and company, or null when no lister is given.
- purpose is e.g. "For Sale" or "For Rent"; furnishingType is e.g. "Furnished" or "Unfurnished".
- images holds absolute image URLs found in the text.
- Use null for any value the listing does not state. Never invent values.`

func userPrompt(listing string) string {
	var sb strings.Builder
	sb.WriteString("Extract the property details from this listing:\n\n")
	sb.WriteString(strings.TrimSpace(listing))
	return sb.String()
}
