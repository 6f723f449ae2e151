package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "vouch/pkg/domain-errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestWriteError(t *testing.T) {
	t.Run("bad request carries code and message", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.KindBadRequest, dErrors.CodeMissingName, "Name is required"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		assert.Equal(t, "MISSING_NAME", body["code"])
		assert.Equal(t, "Name is required", body["message"])
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.KindNotFound, dErrors.CodeTxnNotFound, "Transaction not found"))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "TXN_NOT_FOUND", decode(t, w)["code"])
	})

	t.Run("internal error keeps generic message and surfaces cause", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.Internal("error creating transaction", errors.New("db failed")))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decode(t, w)
		assert.Equal(t, "INTERNAL_ERROR", body["code"])
		assert.Equal(t, "error creating transaction", body["message"])
		assert.Equal(t, "db failed", body["error"])
	})

	t.Run("plain error falls back to 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decode(t, w)
		assert.Equal(t, "INTERNAL_ERROR", body["code"])
		assert.Equal(t, "boom", body["error"])
	})
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, map[string]string{"message": "ok"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "ok", decode(t, w)["message"])
}
