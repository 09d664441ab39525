package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func withParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestURLParamUUID(t *testing.T) {
	id := uuid.New()

	got, ok := URLParamUUID(withParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", id.String()), "id")
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = URLParamUUID(withParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "42"), "id")
	assert.False(t, ok)
}

func TestQueryLimit(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"/?limit=25", 25},
		{"/", 0},
		{"/?limit=-3", 0},
		{"/?limit=ten", 0},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, QueryLimit(httptest.NewRequest(http.MethodGet, tt.url, nil)))
		})
	}
}
