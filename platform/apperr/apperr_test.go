package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindNotFound:     http.StatusNotFound,
		KindValidation:   http.StatusBadRequest,
		KindBadRequest:   http.StatusBadRequest,
		KindUnauthorized: http.StatusUnauthorized,
		KindForbidden:    http.StatusForbidden,
		KindTooLarge:     http.StatusRequestEntityTooLarge,
		KindUnavailable:  http.StatusServiceUnavailable,
		KindInternal:     http.StatusInternalServerError,
		KindUnknown:      http.StatusBadRequest,
	}
	for kind, status := range cases {
		assert.Equal(t, status, New(kind, "x").HTTPStatus(), "kind %d", kind)
	}
}

func TestGetKindLooksThroughWrapping(t *testing.T) {
	base := NotFound("course not found")
	wrapped := fmt.Errorf("load course: %w", base)

	assert.Equal(t, KindNotFound, GetKind(wrapped))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.Equal(t, KindUnknown, GetKind(errors.New("plain")))
}

func TestErrorMessageIncludesOpAndCause(t *testing.T) {
	err := Wrap(KindUnavailable, "database unreachable", errors.New("dial tcp: refused")).WithOp("health")

	assert.Equal(t, "health: database unreachable: dial tcp: refused", err.Error())
	assert.ErrorIs(t, err, err.Err)
}
