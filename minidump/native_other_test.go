//go:build !windows

package minidump

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNative_Unavailable(t *testing.T) {
	c := Native(zerolog.Nop())
	require.False(t, c.Available())
	require.IsType(t, Noop{}, c)
}
