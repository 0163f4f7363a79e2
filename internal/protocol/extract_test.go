package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONArray(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `["me"]`, `["me"]`},
		{"trailing garbage", `["user_left","a"]ffff{}`, `["user_left","a"]`},
		{"nested", `["update_room",{"users":[{"id":"a"}]}]tail`, `["update_room",{"users":[{"id":"a"}]}]`},
		{"brackets in strings", `["message",{"text":"]] [[ \"]\""}]x`, `["message",{"text":"]] [[ \"]\""}]`},
		{"leading noise", `123["a"]`, `["a"]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSONArray(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractJSONArrayErrors(t *testing.T) {
	t.Parallel()

	_, err := ExtractJSONArray(`{"a":1}`)
	assert.ErrorIs(t, err, ErrNoArray)

	_, err = ExtractJSONArray(`["a",{"b":[1,2]`)
	assert.ErrorIs(t, err, ErrUnterminated)

	_, err = ExtractJSONArray(`["a\"]`)
	assert.ErrorIs(t, err, ErrUnterminated)
}
