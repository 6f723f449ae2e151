package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vouch/internal/blobstore"
	"vouch/internal/transaction/lifecycle"
	"vouch/internal/transaction/models"
	"vouch/internal/transaction/store"
	"vouch/internal/verification"
	"vouch/pkg/testutil"
)

type fixture struct {
	router chi.Router
	txns   *store.Memory
	blobs  *blobstore.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	txns := store.NewMemory()
	blobs := blobstore.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := verification.NewService(txns, blobs, verification.NewSimulatedVerifier(), logger, nil, nil)
	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return &fixture{router: r, txns: txns, blobs: blobs}
}

func (f *fixture) seed(t *testing.T, id string) {
	t.Helper()
	tx := lifecycle.New(id, models.PersonalInfo{Name: "Jane Roe", DateOfBirth: "1992-04-12"}, time.Now().UTC())
	require.NoError(t, f.txns.Put(context.Background(), tx))
}

// multipartRequest builds an upload request with the given file fields and
// plain form fields.
func multipartRequest(t *testing.T, path string, files map[string][]byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, data := range files {
		fw, err := w.CreateFormFile(field, field+".jpg")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestIntakeMissingImages(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "txn-1")

	cases := []struct {
		name  string
		path  string
		files map[string][]byte
		code  string
	}{
		{"passport no front", "/kyc/transactions/txn-1/documents/passport",
			map[string][]byte{"backImage": []byte("img")}, "MISSING_FRONT_IMAGE"},
		{"passport no back", "/kyc/transactions/txn-1/documents/passport",
			map[string][]byte{"frontImage": []byte("img")}, "MISSING_BACK_IMAGE"},
		{"visa no image", "/kyc/transactions/txn-1/documents/visa",
			nil, "MISSING_VISA_IMAGE"},
		{"flight ticket no image", "/kyc/transactions/txn-1/documents/flight-ticket",
			nil, "MISSING_TICKET_IMAGE"},
		{"aadhar no front", "/kyc/transactions/txn-1/documents/aadhar",
			map[string][]byte{"backImage": []byte("img")}, "MISSING_FRONT_IMAGE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := testutil.DoRequest(f.router, multipartRequest(t, tc.path, tc.files, nil))
			testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, tc.code)
			assert.Equal(t, 0, f.blobs.Len())
		})
	}
}

func TestIntakeLegacyRouteRequiresTxnID(t *testing.T) {
	f := newFixture(t)

	req := multipartRequest(t, "/kyc/documents/passport", map[string][]byte{
		"frontImage": []byte("img"),
		"backImage":  []byte("img"),
	}, nil)
	rr := testutil.DoRequest(f.router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "MISSING_TXN_ID")
}

func TestIntakeLegacyRouteFormField(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "txn-1")

	req := multipartRequest(t, "/kyc/documents/visa", map[string][]byte{
		"visaImage": []byte("img"),
	}, map[string]string{"txnId": "txn-1"})
	rr := testutil.DoRequest(f.router, req)
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "success", true)
}

func TestIntakeUnknownTransaction(t *testing.T) {
	f := newFixture(t)

	req := multipartRequest(t, "/kyc/transactions/ghost/documents/passport", map[string][]byte{
		"frontImage": []byte("img"),
		"backImage":  []byte("img"),
	}, nil)
	rr := testutil.DoRequest(f.router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "INVALID_TRANSACTION_ID")
	assert.Equal(t, 0, f.blobs.Len())
}

func TestIntakePassportVerified(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "txn-1")

	req := multipartRequest(t, "/kyc/transactions/txn-1/documents/passport", map[string][]byte{
		"frontImage": []byte("img"),
		"backImage":  []byte("img"),
	}, nil)
	rr := testutil.DoRequest(f.router, req)
	testutil.AssertStatusOK(t, rr)

	body := testutil.UnmarshalResponse[map[string]any](t, rr)
	assert.Equal(t, true, (*body)["success"])
	assert.Equal(t, "VERIFIED", (*body)["status"])
	assert.Equal(t, "Passport verification completed.", (*body)["message"])

	details, ok := (*body)["passportDetails"].(map[string]any)
	require.True(t, ok, "passportDetails missing")
	assert.Equal(t, "A1234567", details["passportNumber"])
	assert.InDelta(t, 0.95, details["score"].(float64), 1e-9)

	contact, ok := (*body)["contactDetails"].(map[string]any)
	require.True(t, ok, "contactDetails missing")
	assert.Equal(t, "New York", contact["city"])
}

func TestIntakeSimulatedFailure(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "txn-1")

	req := multipartRequest(t, "/kyc/transactions/txn-1/documents/visa", map[string][]byte{
		"visaImage": []byte("img"),
	}, map[string]string{"simulateFailure": "all"})
	rr := testutil.DoRequest(f.router, req)
	testutil.AssertStatusOK(t, rr)

	body := testutil.UnmarshalResponse[map[string]any](t, rr)
	assert.Equal(t, false, (*body)["success"])
	assert.Equal(t, "FAILED", (*body)["status"])
	details, ok := (*body)["validationDetails"].(map[string]any)
	require.True(t, ok, "validationDetails missing")
	for check, v := range details {
		assert.Equal(t, false, v, "check %s", check)
	}
	assert.NotContains(t, *body, "visaDetails")
}

func TestIntakeBadDirective(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "txn-1")

	req := multipartRequest(t, "/kyc/transactions/txn-1/documents/visa", map[string][]byte{
		"visaImage": []byte("img"),
	}, map[string]string{"simulateFailure": "often"})
	rr := testutil.DoRequest(f.router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "INVALID_REQUEST")
}

func TestIntakeAadharEchoesIdentity(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "txn-1")

	req := multipartRequest(t, "/kyc/transactions/txn-1/documents/aadhar", map[string][]byte{
		"frontImage": []byte("img"),
		"backImage":  []byte("img"),
	}, nil)
	rr := testutil.DoRequest(f.router, req)
	testutil.AssertStatusOK(t, rr)

	body := testutil.UnmarshalResponse[map[string]any](t, rr)
	assert.Equal(t, true, (*body)["success"])
	details, ok := (*body)["aadharDetails"].(map[string]any)
	require.True(t, ok, "aadharDetails missing")
	assert.Equal(t, "Jane Roe", details["name"])
	assert.Equal(t, "1992-04-12", details["dateOfBirth"])
	assert.InDelta(t, 0.90, details["score"].(float64), 1e-9)
}

func TestIntakeRejectsNonMultipart(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "txn-1")

	req := httptest.NewRequest(http.MethodPost, "/kyc/transactions/txn-1/documents/passport",
		bytes.NewBufferString(`{"frontImage":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := testutil.DoRequest(f.router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "INVALID_REQUEST")
}
