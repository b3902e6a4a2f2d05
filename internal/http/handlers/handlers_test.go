package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/civicresolve/backend/internal/service"
)

func TestWriteServiceErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{Logger: zerolog.Nop()}

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{service.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: bad status", service.ErrValidation), http.StatusBadRequest, "VALIDATION_ERROR"},
		{fmt.Errorf("%w: no contractor assigned", service.ErrInvalidState), http.StatusConflict, "INVALID_STATE"},
		{service.ErrDuplicateVote, http.StatusConflict, "DUPLICATE_VOTE"},
		{context.DeadlineExceeded, http.StatusGatewayTimeout, "TIMEOUT"},
		{fmt.Errorf("disk full"), http.StatusInternalServerError, "DB_ERROR"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		h.writeServiceError(c, tc.err, "missing")

		if w.Code != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, w.Code)
		}
		var body ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Error.Code != tc.code {
			t.Fatalf("%v: expected code %s, got %s", tc.err, tc.code, body.Error.Code)
		}
	}
}

func TestParseCoord(t *testing.T) {
	if v := parseCoord(" 18.52 "); v != 18.52 {
		t.Fatalf("unexpected value: %f", v)
	}
	if v := parseCoord("north"); v != 0 {
		t.Fatalf("expected 0 for malformed input, got %f", v)
	}
	if v := parseCoord(""); v != 0 {
		t.Fatalf("expected 0 for blank input, got %f", v)
	}
	for _, raw := range []string{"NaN", "Inf", "-Inf", "1e400"} {
		if v := parseCoord(raw); v != 0 {
			t.Fatalf("expected 0 for %q, got %f", raw, v)
		}
	}
}
