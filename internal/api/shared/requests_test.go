package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title  string `json:"title"  validate:"required"`
	Status string `json:"status" validate:"required"`
}

type selfValidating struct {
	ok bool
}

func (s selfValidating) Validate() error {
	if !s.ok {
		return assert.AnError
	}
	return nil
}

func decodeBody(body string) (sampleRequest, error) {
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(body))
	var out sampleRequest
	err := DecodeJSON(httptest.NewRecorder(), req, &out)
	return out, err
}

func TestDecodeJSON_Valid(t *testing.T) {
	got, err := decodeBody(`{"title": "Exercise", "status": "in_progress"}`)
	require.NoError(t, err)
	assert.Equal(t, sampleRequest{Title: "Exercise", Status: "in_progress"}, got)
}

func TestDecodeJSON_Rejects(t *testing.T) {
	cases := map[string]struct {
		body    string
		wantErr string
	}{
		"syntax error":   {`{"title": "Exercise",}`, "invalid character"},
		"unknown field":  {`{"title": "Exercise", "priority": 1}`, "unknown field"},
		"empty body":     {``, "EOF"},
		"trailing value": {`{"title": "Exercise"} {"title": "Read book"}`, "single JSON value"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decodeBody(tc.body)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestDecodeJSON_OversizedBody(t *testing.T) {
	_, err := decodeBody(`{"title": "` + strings.Repeat("x", MaxRequestBody) + `"}`)
	require.Error(t, err)

	var tooLarge *http.MaxBytesError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, int64(MaxRequestBody), tooLarge.Limit)
}

func TestValidateRequest_StructTags(t *testing.T) {
	assert.NoError(t, ValidateRequest(sampleRequest{Title: "Read book", Status: "done"}))
	assert.Error(t, ValidateRequest(sampleRequest{Status: "done"}))
	assert.Error(t, ValidateRequest(sampleRequest{Title: "Read book"}))
}

func TestValidateRequest_PrefersValidateMethod(t *testing.T) {
	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.ErrorIs(t, ValidateRequest(selfValidating{ok: false}), assert.AnError)
}
