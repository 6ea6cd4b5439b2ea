package utility

import (
	"testing"
	"time"

	"engagement_survey/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestCache_TTLAndStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewCache(20*time.Millisecond, 5*time.Millisecond)
	c.Set("perm:admin", []string{"Survey.Read"})

	v, ok := c.Get("perm:admin")
	require.True(t, ok)
	assert.Equal(t, []string{"Survey.Read"}, v)

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	_, ok = c.Get("perm:admin")
	assert.False(t, ok)

	c.Set("x", 1)
	c.Delete("x")
	assert.Equal(t, 0, c.Len())

	c.Stop()
	c.Stop()
}

func TestTokenManager(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Issue("u1", "admin", "c1", "laptop")
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "c1", claims.CompanyID)
	assert.Equal(t, "laptop", claims.Hwid)

	other := NewTokenManager("other-secret", time.Hour)
	_, err = other.Parse(token)
	assert.Error(t, err)
	assert.Equal(t, common.StatusUnauthorized, common.StatusOf(err))

	expired := NewTokenManager("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue("u1", "admin", "c1", "")
	require.NoError(t, err)
	_, err = m.Parse(old)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestPassword(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, common.ErrWeakPassword)

	hash, err := HashPassword("correct horse 1")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, "correct horse 1"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong password"), common.ErrInvalidCredentials)
	assert.ErrorIs(t, CheckPassword("", "x"), common.ErrInvalidCredentials)
}

func TestHelpers(t *testing.T) {
	code, err := RandomDigits(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Regexp(t, `^[0-9]{6}$`, code)

	assert.NoError(t, ValidateEmail("ada@acme.io"))
	assert.Error(t, ValidateEmail("ada"))
	assert.Error(t, ValidateEmail("Ada <ada@acme.io>"))
	assert.Error(t, ValidateEmail("ada@localhost"))
	assert.Equal(t, "ada@acme.io", NormalizeEmail("  Ada@ACME.io "))

	_, err = String2ObjectID("nope")
	assert.Equal(t, common.StatusBadRequest, common.StatusOf(err))
	ids, err := StringArray2ObjectIDArray([]string{"507f1f77bcf86cd799439011"})
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}
