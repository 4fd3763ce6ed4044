package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestPageParams(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantLimit  uint64
		wantOffset uint64
	}{
		{"defaults", "/api/admin/get-orders", defaultPageSize, 0},
		{"explicit", "/api/admin/get-orders?limit=10&offset=20", 10, 20},
		{"zero limit falls back", "/api/admin/get-orders?limit=0", defaultPageSize, 0},
		{"garbage ignored", "/api/admin/get-orders?limit=abc&offset=-5", defaultPageSize, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			limit, offset := pageParams(r)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestPostgresErrorClassification(t *testing.T) {
	unique := &pq.Error{Code: "23505"}
	fk := &pq.Error{Code: "23503"}

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isUniqueViolation(fk))
	assert.False(t, isUniqueViolation(assert.AnError))
	assert.False(t, isUniqueViolation(nil))

	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isForeignKeyViolation(unique))
	assert.False(t, isForeignKeyViolation(assert.AnError))
}

func TestJoinColumns(t *testing.T) {
	assert.Equal(t, "id, name", joinColumns([]string{"id", "name"}))
	assert.Equal(t, "id", joinColumns([]string{"id"}))
}
