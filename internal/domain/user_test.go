package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"test1@EXAMPLE.com", "test1@example.com"},
		{"Test2@ExampLe.com", "Test2@example.com"},
		{"test3@EXAMPLE.COM", "test3@example.com"},
		{"test4@example.com", "test4@example.com"},
		{"no-at-sign", "no-at-sign"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeEmail(tc.in))
	}
}

func TestNewUser(t *testing.T) {
	user, err := NewUser("user@EXAMPLE.com", "Test User", "hash")
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", user.Email)
	assert.Equal(t, "Test User", user.Name)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.False(t, user.IsStaff)
	assert.False(t, user.IsSuperuser)
	assert.NotZero(t, user.ID)
}

func TestNewUserEmptyEmail(t *testing.T) {
	_, err := NewUser("", "Test User", "hash")
	require.ErrorIs(t, err, ErrEmptyEmail)
}

// UUIDv7 монотонны в рамках процесса: сортировка по id отражает
// порядок создания.
func TestNewIDOrdering(t *testing.T) {
	prev := NewID()
	for i := 0; i < 100; i++ {
		next := NewID()
		require.Equal(t, 1, compareUUIDs(next, prev), "id должны возрастать")
		prev = next
	}
}

func compareUUIDs(a, b [16]byte) int {
	for i := 0; i < 16; i++ {
		switch {
		case a[i] > b[i]:
			return 1
		case a[i] < b[i]:
			return -1
		}
	}
	return 0
}
