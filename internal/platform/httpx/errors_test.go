package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workdeck/workdeck/internal/shared"
)

func TestRespondErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load org: %w", shared.ErrNotFound), http.StatusNotFound},
		{"duplicate", shared.ErrDuplicate, http.StatusConflict},
		{"idempotency conflict", shared.ErrIdempotencyConflict, http.StatusConflict},
		{"invalid credentials", shared.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unknown", errors.New("pool exhausted"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			RespondError(rr, nil, tc.err)
			require.Equal(t, tc.status, rr.Code)

			var problem ProblemDetail
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &problem))
			assert.Equal(t, tc.status, problem.Status)
		})
	}
}

func TestRespondErrorHidesUnknownDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, nil, errors.New("dsn=postgres://user:hunter2@db"))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "hunter2")
}
