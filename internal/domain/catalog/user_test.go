package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser(" Admin@Example.com ", "hash")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", u.Email)
	assert.True(t, u.IsActive)
	assert.Nil(t, u.LastLoginAt)

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	u.RecordLogin(at)
	require.NotNil(t, u.LastLoginAt)
	assert.Equal(t, at, *u.LastLoginAt)

	for _, bad := range []string{"", "not-an-email"} {
		_, err := NewUser(bad, "hash")
		assert.Equal(t, ErrInvalidEmail, err, bad)
	}
}
