package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContentHashPure(t *testing.T) {
	t.Parallel()

	a := ContentHash("2024-03-05", "COLES 2041 SPOTSWOOD", -42.50)
	b := ContentHash("2024-03-05", "COLES 2041 SPOTSWOOD", -42.50)
	require.Equal(t, a, b)
	require.Len(t, a, 64)

	require.NotEqual(t, a, ContentHash("2024-03-06", "COLES 2041 SPOTSWOOD", -42.50))
	require.NotEqual(t, a, ContentHash("2024-03-05", "COLES 2041 SPOTSWOOD", -42.51))
	require.NotEqual(t, a, ContentHash("2024-03-05", "COLES 2041", -42.50))
}

func TestVirtualHashDistinctFromContentHash(t *testing.T) {
	t.Parallel()

	// A manual entry must never collide with a statement import of the
	// same date, description and amount.
	real := ContentHash("2024-03-05", "Rent", -900)
	virtual := VirtualHash("2024-03-05", "Rent", -900)
	require.NotEqual(t, real, virtual)
	require.Equal(t, virtual, VirtualHash("2024-03-05", "Rent", -900))
}

func TestFormatAmountStable(t *testing.T) {
	t.Parallel()

	// Trailing zeros must not change the fingerprint input.
	require.Equal(t, ContentHash("2024-01-01", "x", 50), ContentHash("2024-01-01", "x", 50.0))
}
