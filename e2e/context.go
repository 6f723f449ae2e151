// Package e2e drives a running vouch instance over HTTP with godog. Point
// VOUCH_E2E_URL at the server under test.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// TestContext carries request/response state across steps of one scenario.
type TestContext struct {
	BaseURL string
	client  *http.Client

	lastStatus int
	lastBody   map[string]interface{}

	txnID string
}

func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Reset clears scenario state between scenarios.
func (tc *TestContext) Reset() {
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.txnID = ""
}

// PostJSON sends a JSON body and captures the response.
func (tc *TestContext) PostJSON(path string, body interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}
	resp, err := tc.client.Post(tc.BaseURL+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	return tc.capture(resp)
}

// PostMultipart uploads the given file fields (with placeholder image bytes)
// plus plain form fields, and captures the response.
func (tc *TestContext) PostMultipart(path string, files []string, fields map[string]string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, field := range files {
		fw, err := w.CreateFormFile(field, field+".jpg")
		if err != nil {
			return fmt.Errorf("create form file %s: %w", field, err)
		}
		if _, err := fw.Write([]byte("e2e-image-bytes")); err != nil {
			return fmt.Errorf("write form file %s: %w", field, err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("write form field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, tc.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	return tc.capture(resp)
}

// Get captures a GET response.
func (tc *TestContext) Get(path string) error {
	resp, err := tc.client.Get(tc.BaseURL + path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return tc.capture(resp)
}

func (tc *TestContext) capture(resp *http.Response) error {
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	tc.lastStatus = resp.StatusCode
	tc.lastBody = nil
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &tc.lastBody); err != nil {
			return fmt.Errorf("decode response body %q: %w", raw, err)
		}
	}
	return nil
}

// Field returns a top-level field from the last response body.
func (tc *TestContext) Field(name string) (interface{}, error) {
	if tc.lastBody == nil {
		return nil, fmt.Errorf("no response captured")
	}
	v, ok := tc.lastBody[name]
	if !ok {
		return nil, fmt.Errorf("field %q not in response %v", name, tc.lastBody)
	}
	return v, nil
}
