package errorutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromResponse_Detail(t *testing.T) {
	t.Parallel()

	err := FromResponse(400, []byte(`{"detail":"Login failed"}`))
	require.Equal(t, KindValidation, err.Kind)
	require.Equal(t, "Login failed", err.Message)
}

func TestFromResponse_FieldErrors(t *testing.T) {
	t.Parallel()

	err := FromResponse(422, []byte(`{"bin":["already exists"]}`))
	require.Equal(t, "bin: already exists", err.Message)
}

func TestFromResponse_MultipleFieldsSorted(t *testing.T) {
	t.Parallel()

	err := FromResponse(422, []byte(`{"phone":["this field is required"],"email":["invalid email"]}`))
	require.Equal(t, "email: invalid email; phone: this field is required", err.Message)
}

func TestFromResponse_DetailWins(t *testing.T) {
	t.Parallel()

	err := FromResponse(400, []byte(`{"detail":"bad request","email":["invalid"]}`))
	require.Equal(t, "bad request", err.Message)
}

func TestFromResponse_FallbackOnEmptyBody(t *testing.T) {
	t.Parallel()

	err := FromResponse(404, nil)
	require.Equal(t, "request failed with status 404", err.Message)
}

func TestFromResponse_ServerError(t *testing.T) {
	t.Parallel()

	err := FromResponse(502, []byte("bad gateway"))
	require.Equal(t, KindNetwork, err.Kind)
	require.Equal(t, "server error (status 502)", err.Message)
}

func TestNewNetwork_StripsTransportWrapping(t *testing.T) {
	t.Parallel()

	wrapped := errors.New(`Post "http://127.0.0.1:8080/api/v1/auth/login/": dial tcp: connection refused`)
	err := NewNetwork(wrapped)
	require.Equal(t, "dial tcp: connection refused", err.Message)
	require.ErrorIs(t, err, wrapped)
}

func TestNormalize_PassesAuthErrorThrough(t *testing.T) {
	t.Parallel()

	original := NewSessionAbsent("")
	require.Same(t, original, Normalize(original))
	require.Equal(t, "no active session", original.Message)
}

func TestNormalize_WrapsUnknownErrors(t *testing.T) {
	t.Parallel()

	err := Normalize(errors.New("boom"))
	require.Equal(t, KindNetwork, err.Kind)
	require.Equal(t, "boom", err.Message)
}

func TestMessage(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", Message(nil))
	require.Equal(t, "no refresh token stored", Message(NewSessionAbsent("no refresh token stored")))
}
