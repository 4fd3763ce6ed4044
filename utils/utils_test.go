package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, CheckPassword(hash, "secret123"))
	assert.Error(t, CheckPassword(hash, "wrong"))
}

func TestHandleError(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, http.StatusNotFound, "Category not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success": false, "message": "Category not found"}`, rec.Body.String())
}

func TestSendJSONResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	SendJSONResponse(rec, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Image Added Successfully",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success": true, "message": "Image Added Successfully"}`, rec.Body.String())
}

func TestDecodeJSONBody(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name": "Desserts"}`))
	require.NoError(t, DecodeJSONBody(r, &dst))
	assert.Equal(t, "Desserts", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))
	assert.Error(t, DecodeJSONBody(r, &dst))
}

func TestErrorWithTrace(t *testing.T) {
	assert.NoError(t, ErrorWithTrace(nil, "ignored"))

	err := ErrorWithTrace(assert.AnError, "extra context")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "utils_test.go")
	assert.Contains(t, err.Error(), "extra context")
}
