// Package verification implements document intake: one shared contract for
// passport, visa, flight-ticket, and aadhar uploads. Per-type differences
// (required images, error codes, checkable fields) live in the Definition
// table so handlers and service stay generic.
package verification

import (
	"vouch/internal/transaction/models"
)

// MaxFileSize is the per-file upload ceiling.
const MaxFileSize = 5 << 20 // 5 MiB

// ImageSpec describes one required upload for a document type.
type ImageSpec struct {
	Side        models.ImageSide
	Field       string // multipart field name
	MissingCode string
	SizeCode    string
}

// Definition is the intake contract for one document type.
type Definition struct {
	Type   models.DocumentType
	Route  string // URL segment under /kyc/transactions/{txnId}/documents/
	Label  string // human name used in response messages
	Images []ImageSpec
	// Checks are the checkable fields a failure directive can mark false,
	// ordinal-indexed.
	Checks []string
	// AllowFailure is false for aadhar, which ignores failure directives and
	// always verifies.
	AllowFailure bool
	// DetailsKey names the type-specific details object in responses.
	DetailsKey string
	// Tracked document types participate in the overall rollup.
	Tracked bool
}

// Image returns the ImageSpec for a side.
func (d Definition) Image(side models.ImageSide) (ImageSpec, bool) {
	for _, img := range d.Images {
		if img.Side == side {
			return img, true
		}
	}
	return ImageSpec{}, false
}

var definitions = []Definition{
	{
		Type:  models.DocumentTypePassport,
		Route: "passport",
		Label: "Passport",
		Images: []ImageSpec{
			{Side: models.SideFront, Field: "frontImage", MissingCode: "MISSING_FRONT_IMAGE", SizeCode: "FRONT_FILE_SIZE_EXCEEDED"},
			{Side: models.SideBack, Field: "backImage", MissingCode: "MISSING_BACK_IMAGE", SizeCode: "BACK_FILE_SIZE_EXCEEDED"},
		},
		Checks:       []string{"faceMatch", "mrzValid", "notExpired"},
		AllowFailure: true,
		DetailsKey:   "passportDetails",
		Tracked:      true,
	},
	{
		Type:  models.DocumentTypeVisa,
		Route: "visa",
		Label: "Visa",
		Images: []ImageSpec{
			{Side: models.SideMain, Field: "visaImage", MissingCode: "MISSING_VISA_IMAGE", SizeCode: "VISA_FILE_SIZE_EXCEEDED"},
		},
		Checks:       []string{"visaNumberValid", "notExpired", "countryMatch"},
		AllowFailure: true,
		DetailsKey:   "visaDetails",
		Tracked:      true,
	},
	{
		Type:  models.DocumentTypeFlightTicket,
		Route: "flight-ticket",
		Label: "Flight ticket",
		Images: []ImageSpec{
			{Side: models.SideMain, Field: "ticketImage", MissingCode: "MISSING_TICKET_IMAGE", SizeCode: "TICKET_FILE_SIZE_EXCEEDED"},
		},
		Checks:       []string{"ticketNumberValid", "nameMatch", "travelDateValid"},
		AllowFailure: true,
		DetailsKey:   "flightTicketDetails",
		Tracked:      true,
	},
	{
		Type:  models.DocumentTypeAadhar,
		Route: "aadhar",
		Label: "Aadhar",
		Images: []ImageSpec{
			{Side: models.SideFront, Field: "frontImage", MissingCode: "MISSING_FRONT_IMAGE", SizeCode: "FRONT_FILE_SIZE_EXCEEDED"},
			{Side: models.SideBack, Field: "backImage", MissingCode: "MISSING_BACK_IMAGE", SizeCode: "BACK_FILE_SIZE_EXCEEDED"},
		},
		AllowFailure: false,
		DetailsKey:   "aadharDetails",
		Tracked:      false,
	},
}

// Definitions returns the intake contracts in registration order.
func Definitions() []Definition {
	return definitions
}

// DefinitionFor looks up the contract for a document type.
func DefinitionFor(dt models.DocumentType) (Definition, bool) {
	for _, d := range definitions {
		if d.Type == dt {
			return d, true
		}
	}
	return Definition{}, false
}
