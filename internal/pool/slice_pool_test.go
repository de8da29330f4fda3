package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetFloat64Slice(t *testing.T) {
	t.Run("returns zeroed slice with correct size", func(t *testing.T) {
		slice, cleanup := GetFloat64Slice(100)
		defer cleanup()

		require.Len(t, slice, 100)
		for _, v := range slice {
			require.Zero(t, v)
		}
	})

	t.Run("reused slice is cleared", func(t *testing.T) {
		slice1, cleanup1 := GetFloat64Slice(50)
		for i := range slice1 {
			slice1[i] = float64(i + 1)
		}
		cleanup1()

		slice2, cleanup2 := GetFloat64Slice(40)
		defer cleanup2()

		require.Len(t, slice2, 40)
		for _, v := range slice2 {
			require.Zero(t, v)
		}
	})

	t.Run("grows when capacity insufficient", func(t *testing.T) {
		_, cleanup1 := GetFloat64Slice(10)
		cleanup1()

		slice2, cleanup2 := GetFloat64Slice(1000)
		defer cleanup2()

		require.Len(t, slice2, 1000)
	})

	t.Run("zero size", func(t *testing.T) {
		slice, cleanup := GetFloat64Slice(0)
		defer cleanup()

		require.Empty(t, slice)
	})
}
