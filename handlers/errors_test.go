package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"baggr-backend/identity"
	"baggr-backend/services"

	"github.com/gin-gonic/gin"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"field error", services.NewFieldError("name", "required"), http.StatusBadRequest, "Validation failed"},
		{"cycle", services.ErrCycle, http.StatusBadRequest, "Category cannot be moved under itself or one of its descendants"},
		{"not found", services.NewNotFound("provider"), http.StatusNotFound, "Provider not found"},
		{"forbidden", services.ErrForbidden, http.StatusForbidden, "You do not have permission to perform this action"},
		{"conflict", fmt.Errorf("tag %q %w", "pizza", services.ErrConflict), http.StatusConflict, `Tag "pizza" already exists`},
		{"in use", services.ErrCategoryInUse, http.StatusConflict, "Category subtree is referenced by service providers"},
		{"identity down", fmt.Errorf("%w: timeout", identity.ErrDependencyUnavailable), http.StatusBadGateway, "Authorization service unavailable"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, internalErrorMessage},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)

			respondError(c, tc.err)

			if w.Code != tc.status {
				t.Errorf("expected %d, got %d", tc.status, w.Code)
			}
			if msg := parseResponse(w)["error"]; msg != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, msg)
			}
		})
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query string
		page  int
		limit int
	}{
		{"", 1, 20},
		{"?page=3&limit=10", 3, 10},
		{"?page=0&limit=-5", 1, 20},
		{"?limit=500", 1, 100},
		{"?page=abc", 1, 20},
	}
	for _, tc := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/"+tc.query, nil)
		p := parsePagination(c)
		if p.Page != tc.page || p.Limit != tc.limit {
			t.Errorf("%q: expected page %d limit %d, got %+v", tc.query, tc.page, tc.limit, p)
		}
	}

	if pages := (pagination{Page: 1, Limit: 20}).pages(41); pages != 3 {
		t.Errorf("expected 3 pages, got %d", pages)
	}
}
