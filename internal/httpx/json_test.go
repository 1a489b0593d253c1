package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stocklog/inventory-service/internal/apperr"
)

func TestWriteError_StatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperr.Validationf("bad input"), http.StatusBadRequest},
		{apperr.Unauthorized("no token"), http.StatusUnauthorized},
		{apperr.Forbidden("not yours"), http.StatusForbidden},
		{apperr.NotFound("missing"), http.StatusNotFound},
		{apperr.Conflict("exists"), http.StatusConflict},
		{apperr.Storage(errors.New("db down")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteError(rec, tc.err)
		if rec.Code != tc.status {
			t.Errorf("%v: expected status %d, got %d", tc.err, tc.status, rec.Code)
		}
	}
}

func TestWriteError_DoesNotLeakStorageDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, apperr.Storage(errors.New("password=hunter2 host=db1")))

	if body := rec.Body.String(); strings.Contains(body, "hunter2") {
		t.Errorf("storage detail leaked to client: %s", body)
	}
}
