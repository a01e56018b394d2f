package idgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratorPrefixesAndUniqueness(t *testing.T) {
	g := Must(3)

	seen := map[string]struct{}{}
	for i := 0; i < 1000; i++ {
		n := g.OrderNumber()
		require.True(t, strings.HasPrefix(n, "ORD-"))
		_, dup := seen[n]
		require.False(t, dup, n)
		seen[n] = struct{}{}
	}
	require.True(t, strings.HasPrefix(g.TransferReference(), "TRF-"))
	require.True(t, strings.HasPrefix(g.RemittanceReference(), "REM-"))
}

func TestNewRejectsOutOfRangeNode(t *testing.T) {
	_, err := New(4096)
	require.Error(t, err)
}
