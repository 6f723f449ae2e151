package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vouch/internal/transaction/models"
)

func TestNewStartsAllPending(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	tx := New("txn-1", models.PersonalInfo{Name: "Jane Roe", DateOfBirth: "1985-05-01"}, now)

	assert.Equal(t, "txn-1", tx.ID)
	assert.Equal(t, now, tx.CreatedAt)
	assert.Equal(t, now, tx.UpdatedAt)
	assert.Empty(t, tx.Documents)
	for _, dt := range models.TrackedTypes {
		assert.Equal(t, models.StatusPending, tx.StatusOf(dt), "type %s", dt)
	}
	assert.Equal(t, models.StatusPending, Overall(tx))
}

func TestRollupPrecedence(t *testing.T) {
	p, v, f := models.StatusPending, models.StatusVerified, models.StatusFailed

	tests := []struct {
		name     string
		statuses []models.DocumentStatus
		want     models.DocumentStatus
	}{
		{"all pending", []models.DocumentStatus{p, p, p}, p},
		{"all verified", []models.DocumentStatus{v, v, v}, v},
		{"all failed", []models.DocumentStatus{f, f, f}, f},
		{"failed beats verified", []models.DocumentStatus{v, f, v}, f},
		{"failed beats pending", []models.DocumentStatus{p, f, p}, f},
		{"failed beats mixed", []models.DocumentStatus{p, f, v}, f},
		{"pending beats verified", []models.DocumentStatus{v, p, v}, p},
		{"one verified rest pending", []models.DocumentStatus{v, p, p}, p},
		{"empty defaults pending", nil, p},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rollup(tt.statuses...))
		})
	}
}

// Exhaustive check of the precedence rule over every combination of the three
// tracked statuses.
func TestRollupExhaustive(t *testing.T) {
	all := []models.DocumentStatus{models.StatusPending, models.StatusVerified, models.StatusFailed}
	for _, a := range all {
		for _, b := range all {
			for _, c := range all {
				got := Rollup(a, b, c)
				switch {
				case a == models.StatusFailed || b == models.StatusFailed || c == models.StatusFailed:
					assert.Equal(t, models.StatusFailed, got, "%s/%s/%s", a, b, c)
				case a == models.StatusPending || b == models.StatusPending || c == models.StatusPending:
					assert.Equal(t, models.StatusPending, got, "%s/%s/%s", a, b, c)
				default:
					assert.Equal(t, models.StatusVerified, got, "%s/%s/%s", a, b, c)
				}
			}
		}
	}
}

func TestStatusFromValidation(t *testing.T) {
	assert.Equal(t, models.StatusVerified, StatusFromValidation(nil))
	assert.Equal(t, models.StatusVerified, StatusFromValidation(map[string]bool{"faceMatch": true}))
	assert.Equal(t, models.StatusFailed, StatusFromValidation(map[string]bool{"faceMatch": true, "notExpired": false}))
}

func TestDocumentUpdateValidate(t *testing.T) {
	now := time.Now()
	valid := DocumentUpdate{
		Type:      models.DocumentTypeVisa,
		Record:    &models.DocumentRecord{Keys: map[models.ImageSide]string{models.SideMain: "k"}, Score: 0.91},
		Status:    models.StatusVerified,
		UpdatedAt: now,
	}
	require.NoError(t, valid.Validate())

	noRecord := valid
	noRecord.Record = nil
	assert.Error(t, noRecord.Validate())

	backToPending := valid
	backToPending.Status = models.StatusPending
	assert.Error(t, backToPending.Validate())

	disagreement := valid
	disagreement.Record = &models.DocumentRecord{
		ValidationDetails: map[string]bool{"notExpired": false},
	}
	disagreement.Status = models.StatusVerified
	assert.Error(t, disagreement.Validate())
}

func TestApplyTouchesOnlyItsType(t *testing.T) {
	created := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)
	tx := New("txn-1", models.PersonalInfo{Name: "Jane Roe", DateOfBirth: "1985-05-01"}, created)

	passport := DocumentUpdate{
		Type: models.DocumentTypePassport,
		Record: &models.DocumentRecord{
			Keys:  map[models.ImageSide]string{models.SideFront: "txn-1/passport/front.jpg"},
			Score: 0.91,
		},
		Status:    models.StatusVerified,
		Contact:   &ContactMerge{Country: "USA", City: "New York"},
		UpdatedAt: later,
	}
	require.NoError(t, passport.Apply(tx))

	assert.Equal(t, models.StatusVerified, tx.StatusOf(models.DocumentTypePassport))
	assert.Equal(t, models.StatusPending, tx.StatusOf(models.DocumentTypeVisa))
	assert.Equal(t, models.StatusPending, tx.StatusOf(models.DocumentTypeFlightTicket))
	assert.Nil(t, tx.Document(models.DocumentTypeVisa))
	assert.Equal(t, later, tx.UpdatedAt)
	assert.Equal(t, created, tx.CreatedAt)

	// Contact fields merge; creation-time identity fields survive.
	assert.Equal(t, "Jane Roe", tx.PersonalInfo.Name)
	assert.Equal(t, "1985-05-01", tx.PersonalInfo.DateOfBirth)
	assert.Equal(t, "USA", tx.PersonalInfo.Country)
	assert.Equal(t, "New York", tx.PersonalInfo.City)

	assert.Equal(t, models.StatusPending, Overall(tx))
}

func TestApplyReuploadOverwritesOwnTypeOnly(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	tx := New("txn-1", models.PersonalInfo{Name: "Jane Roe", DateOfBirth: "1985-05-01"}, now)

	first := DocumentUpdate{
		Type:      models.DocumentTypeVisa,
		Record:    &models.DocumentRecord{Keys: map[models.ImageSide]string{models.SideMain: "a"}, Score: 0.91},
		Status:    models.StatusVerified,
		UpdatedAt: now.Add(time.Minute),
	}
	require.NoError(t, first.Apply(tx))

	passport := DocumentUpdate{
		Type:      models.DocumentTypePassport,
		Record:    &models.DocumentRecord{Keys: map[models.ImageSide]string{models.SideFront: "p"}, Score: 0.91},
		Status:    models.StatusVerified,
		UpdatedAt: now.Add(2 * time.Minute),
	}
	require.NoError(t, passport.Apply(tx))

	redo := DocumentUpdate{
		Type: models.DocumentTypeVisa,
		Record: &models.DocumentRecord{
			Keys:              map[models.ImageSide]string{models.SideMain: "b"},
			ValidationDetails: map[string]bool{"notExpired": false},
		},
		Status:    models.StatusFailed,
		UpdatedAt: now.Add(3 * time.Minute),
	}
	require.NoError(t, redo.Apply(tx))

	assert.Equal(t, "b", tx.Document(models.DocumentTypeVisa).Keys[models.SideMain])
	assert.Equal(t, models.StatusFailed, tx.StatusOf(models.DocumentTypeVisa))
	// Passport untouched by the visa re-upload.
	assert.Equal(t, models.StatusVerified, tx.StatusOf(models.DocumentTypePassport))
	assert.Equal(t, "p", tx.Document(models.DocumentTypePassport).Keys[models.SideFront])

	assert.Equal(t, models.StatusFailed, Overall(tx))
}
