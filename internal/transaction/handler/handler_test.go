package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vouch/internal/transaction/models"
	"vouch/internal/transaction/service"
	"vouch/internal/transaction/store"
	"vouch/pkg/testutil"
)

func newTestRouter(t *testing.T) (chi.Router, store.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.NewMemory()
	svc := service.New(st, logger, nil, nil)
	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return r, st
}

func TestCreateTransaction(t *testing.T) {
	r, _ := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/kyc/transactions", map[string]string{
		"name":        "Jane Roe",
		"dateOfBirth": "1992-04-12",
	})
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatusOK(t, rr)
	body := testutil.UnmarshalResponse[map[string]any](t, rr)
	assert.NotEmpty(t, (*body)["transactionId"])

	status, ok := (*body)["status"].(map[string]any)
	require.True(t, ok, "status map missing")
	for _, dt := range models.TrackedTypes {
		assert.Equal(t, "PENDING", status[string(dt)])
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	cases := []struct {
		name string
		body map[string]string
		code string
	}{
		{"missing name", map[string]string{"dateOfBirth": "1992-04-12"}, "MISSING_NAME"},
		{"blank name", map[string]string{"name": "   ", "dateOfBirth": "1992-04-12"}, "MISSING_NAME"},
		{"missing dob", map[string]string{"name": "Jane Roe"}, "INVALID_DOB"},
		{"bad dob format", map[string]string{"name": "Jane Roe", "dateOfBirth": "12/04/1992"}, "INVALID_DOB"},
		{"future dob", map[string]string{"name": "Jane Roe", "dateOfBirth": "2099-01-01"}, "INVALID_DOB"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/kyc/transactions", tc.body)
			rr := testutil.DoRequest(r, req)
			testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, tc.code)
		})
	}
}

func TestCreateTransactionMalformedBody(t *testing.T) {
	r, _ := newTestRouter(t)

	req := testutil.NewRequestWithBody(t, http.MethodPost, "/kyc/transactions", "{not json")
	rr := testutil.DoRequest(r, req)
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "INVALID_REQUEST")
}

func TestStatusUnknownTransaction(t *testing.T) {
	r, _ := newTestRouter(t)

	req := testutil.NewRequest(t, http.MethodGet, "/kyc/transactions/nope/status")
	rr := testutil.DoRequest(r, req)
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "TXN_NOT_FOUND")
}

func TestStatusQueryFormRequiresID(t *testing.T) {
	r, _ := newTestRouter(t)

	req := testutil.NewRequest(t, http.MethodGet, "/kyc/status")
	rr := testutil.DoRequest(r, req)
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "MISSING_TXN_ID")
}

func TestStatusBothForms(t *testing.T) {
	r, _ := newTestRouter(t)

	createReq := testutil.NewJSONRequest(t, http.MethodPost, "/kyc/transactions", map[string]string{
		"name":        "Jane Roe",
		"dateOfBirth": "1992-04-12",
	})
	createRR := testutil.DoRequest(r, createReq)
	testutil.AssertStatusOK(t, createRR)
	created := testutil.UnmarshalResponse[map[string]any](t, createRR)
	txnID, _ := (*created)["transactionId"].(string)
	require.NotEmpty(t, txnID)

	for _, path := range []string{
		"/kyc/transactions/" + txnID + "/status",
		"/kyc/status?txnId=" + txnID,
	} {
		req := testutil.NewRequest(t, http.MethodGet, path)
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatusOK(t, rr)

		body := testutil.UnmarshalResponse[map[string]any](t, rr)
		assert.Equal(t, txnID, (*body)["transactionId"], "path %s", path)
		assert.Equal(t, "PENDING", (*body)["status"], "path %s", path)

		docs, ok := (*body)["documents"].(map[string]any)
		require.True(t, ok, "documents missing for %s", path)
		for _, dt := range models.TrackedTypes {
			doc, ok := docs[string(dt)].(map[string]any)
			require.True(t, ok, "document %s missing", dt)
			assert.Equal(t, "PENDING", doc["status"])
			assert.NotContains(t, doc, "score")
		}
	}
}
