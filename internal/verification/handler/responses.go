package handler

import (
	"vouch/internal/transaction/models"
	"vouch/internal/verification"
)

// intakeResponse shapes the body for a completed intake. Verified responses
// carry the extracted fields under the type-specific details key; failed
// responses carry the per-check validation details instead.
func intakeResponse(def verification.Definition, res *verification.IntakeResult) map[string]any {
	if res.Status == models.StatusFailed {
		return map[string]any{
			"message":           def.Label + " verification failed.",
			"success":           false,
			"status":            models.StatusFailed,
			"validationDetails": res.Result.ValidationDetails,
		}
	}

	details := make(map[string]any, len(res.Result.Fields)+3)
	for k, v := range res.Result.Fields {
		details[k] = v
	}
	details["score"] = res.Result.Score
	if def.Type == models.DocumentTypeAadhar && res.Transaction != nil {
		// Aadhar verification echoes the applicant identity captured at
		// transaction creation rather than values read off the card.
		details["name"] = res.Transaction.PersonalInfo.Name
		details["dateOfBirth"] = res.Transaction.PersonalInfo.DateOfBirth
	}

	body := map[string]any{
		"message":      def.Label + " verification completed.",
		"success":      true,
		"status":       models.StatusVerified,
		def.DetailsKey: details,
	}
	if c := res.Result.Contact; c != nil {
		body["contactDetails"] = map[string]string{
			"country":    c.Country,
			"city":       c.City,
			"state":      c.State,
			"postalCode": c.PostalCode,
			"address1":   c.Address1,
			"address2":   c.Address2,
		}
	}
	return body
}
