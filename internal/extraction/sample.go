package extraction

import "strings"

// SampleListing is a complete listing for trying the extractor without a
// real page. Every record field has a value in it.
var SampleListing = strings.TrimSpace(`
Property Title: Luxury Marina View Apartment with Full Sea View
For Sale: AED 3,500,000
Address: Unit 1205, Marina Tower, Dubai Marina, Dubai, UAE
Type: Apartment, Furnishing: Fully Furnished
Specs: 3 Bedrooms, 4 Bathrooms, 2100 sqft.

Description:
Stunning 3-bedroom apartment in the heart of Dubai Marina offering breathtaking full sea views and direct marina access.
This meticulously designed unit boasts high-end finishes, a spacious open-plan living area, and floor-to-ceiling windows.
The modern kitchen comes fully equipped with Miele appliances. Each bedroom is en-suite, with the master featuring a walk-in closet and a luxurious bathroom with a jacuzzi tub.
Residents enjoy access to state-of-the-art facilities.
Image URLs: https://example.com/image1.jpg, https://example.com/image2.png, http://example.com/image3.webp

Key Features:
- Panoramic Sea Views
- Upgraded Interiors
- Private Balcony
- Smart Home System

Amenities:
- Infinity Pool
- Modern Gymnasium
- Children's Play Area
- 24/7 Security & Concierge
- Covered Parking (2 spots)
- Sauna and Steam Room
- BBQ Area

Building Information: Marina Tower, Developed by Emaar, Completed 2022. Floor: 12/45.
Validated Information: RERA Certified Property, Title Deed Ready.
Permit Number: DXB-PERMIT-12345
DED License: 987654
RERA Registration: 54321
Property Reference ID: APART-MARINA-001
BRN (DLD): 12345 / DLD Permit: 67890

Listed By:
Agent: John Doe
Company: Premium Properties LLC
Phone: +971 50 123 4567
Email: john.doe@premiumproperties.ae
`)
