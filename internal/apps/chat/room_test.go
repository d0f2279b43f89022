package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomID(t *testing.T) {
	t.Run("symmetric regardless of argument order", func(t *testing.T) {
		a := "3f1d2c4e-aaaa-bbbb-cccc-000000000001"
		b := "9e8d7c6b-dddd-eeee-ffff-000000000002"

		assert.Equal(t, RoomID(a, b), RoomID(b, a))
	})

	t.Run("sorted lexicographically with separator", func(t *testing.T) {
		assert.Equal(t, "alpha_beta", RoomID("beta", "alpha"))
		assert.Equal(t, "alpha_beta", RoomID("alpha", "beta"))
	})

	t.Run("identical ids still produce a stable room", func(t *testing.T) {
		assert.Equal(t, "u1_u1", RoomID("u1", "u1"))
	})
}
