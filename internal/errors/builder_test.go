package errors

import (
	"net/http"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorBuilder_Chain(t *testing.T) {
	sentinel := errors.New("service already invoiced")

	err := WithError(sentinel).
		WithHintf("Health service %s was already invoiced", "hs_1").
		WithReportableDetails(map[string]any{"service_id": "hs_1"}).
		Mark(ErrPrecondition)

	require.Error(t, err)
	assert.True(t, Is(err, sentinel))
	assert.True(t, IsPrecondition(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, ErrCodePrecondition, CodeFromErr(err))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatusFromErr(err))
	assert.Contains(t, errors.GetAllHints(err), "Health service hs_1 was already invoiced")

	var payloads []string
	for _, sdp := range errors.GetAllSafeDetails(err) {
		for _, p := range sdp.SafeDetails {
			if strings.HasPrefix(p, "__json__:") {
				payloads = append(payloads, p)
			}
		}
	}
	require.Len(t, payloads, 1)
	assert.Contains(t, payloads[0], `"service_id":"hs_1"`)
}

func TestErrorBuilder_UnmarshalableDetailsAreDropped(t *testing.T) {
	err := NewError("bad details").
		WithReportableDetails(map[string]any{"fn": func() {}}).
		Mark(ErrValidation)

	assert.True(t, IsValidation(err))
	for _, sdp := range errors.GetAllSafeDetails(err) {
		for _, p := range sdp.SafeDetails {
			assert.False(t, strings.HasPrefix(p, "__json__:"))
		}
	}
}

func TestErrorBuilder_UnmarkedDefaultsToSystemError(t *testing.T) {
	err := NewError("boom").WithHint("Something broke").Error()

	assert.Equal(t, ErrCodeSystemError, CodeFromErr(err))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFromErr(err))
}
