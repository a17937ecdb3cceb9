package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/travelist-ai/internal/types"
)

type decodeTarget struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestDecodeJSONBody(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		status int
		reason string
	}{
		{"valid", `{"name":"Lisbon","count":2}`, 0, ""},
		{"empty", ``, http.StatusBadRequest, "body must not be empty"},
		{"syntax", `{"name":}`, http.StatusBadRequest, "badly-formed JSON (at character"},
		{"truncated", `{"name":"Lis`, http.StatusBadRequest, "badly-formed JSON"},
		{"wrong field type", `{"count":"two"}`, http.StatusBadRequest, `field "count" must be int, got string`},
		{"unknown key", `{"city":"Rome"}`, http.StatusBadRequest, `unknown key "city"`},
		{"two values", `{"name":"a"}{"name":"b"}`, http.StatusBadRequest, "single JSON value"},
		{"too large", `{"name":"` + strings.Repeat("x", MaxBodyBytes) + `"}`, http.StatusRequestEntityTooLarge, "must not be larger than"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var dst decodeTarget
			err := DecodeJSONBody(httptest.NewRecorder(), r, &dst)
			if tc.status == 0 {
				require.NoError(t, err)
				assert.Equal(t, decodeTarget{Name: "Lisbon", Count: 2}, dst)
				return
			}
			var be *BodyError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, tc.status, be.Status)
			assert.Contains(t, be.Reason, tc.reason)
		})
	}

	t.Run("non pointer target", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		var be *BodyError
		require.ErrorAs(t, DecodeJSONBody(httptest.NewRecorder(), r, decodeTarget{}), &be)
		assert.Equal(t, http.StatusInternalServerError, be.Status)
	})
}

func TestInvalidBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r = r.WithContext(context.WithValue(r.Context(), middleware.RequestIDKey, "req-7"))

	rec := httptest.NewRecorder()
	InvalidBody(rec, r, &BodyError{Status: http.StatusRequestEntityTooLarge, Reason: "too big"})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var got types.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, types.ErrorResponse{Error: "Invalid request body: too big", RequestID: "req-7"}, got)

	rec = httptest.NewRecorder()
	InvalidBody(rec, r, assert.AnError)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWriteJSONResponse(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	t.Run("payload", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteJSONResponse(rec, r, http.StatusOK, map[string]string{"name": "Tapas & Co <Lisbon>"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"name":"Tapas & Co <Lisbon>"}`, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "&")
	})

	t.Run("no content", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteJSONResponse(rec, r, http.StatusNoContent, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("unencodable payload", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteJSONResponse(rec, r, http.StatusOK, map[string]any{"ch": make(chan int)})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
