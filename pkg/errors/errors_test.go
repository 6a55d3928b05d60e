package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndIsCode(t *testing.T) {
	base := errors.New("dial tcp: refused")
	err := Wrap(CodeTransport, "geocoding request failed", base)

	require.True(t, IsCode(err, CodeTransport))
	require.False(t, IsCode(err, CodeNotFound))
	require.ErrorIs(t, err, base)
	require.Equal(t, "geocoding request failed: dial tcp: refused", err.Error())

	wrapped := fmt.Errorf("weather: %w", err)
	require.True(t, IsCode(wrapped, CodeTransport))
	require.Equal(t, CodeTransport, CodeOf(wrapped))
	require.Equal(t, "", CodeOf(base))
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(CodeNotFound, "no geocoding match", nil)
	require.Equal(t, "no geocoding match", err.Error())
	require.Nil(t, errors.Unwrap(err))
}
