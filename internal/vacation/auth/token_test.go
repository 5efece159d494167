package auth

import (
	"testing"
	"time"

	"github.com/eltonsantos/vacationmanager/internal/vacation/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret"

func TestTokenRoundTrip(t *testing.T) {
	identity := models.Identity{ID: uuid.New(), Role: models.RoleManager}

	token, err := GenerateToken(identity, testSecret, time.Hour)
	require.NoError(t, err)

	parsed, err := ParseIdentity(token, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, identity, parsed)
}

func TestParseIdentityWrongSecret(t *testing.T) {
	identity := models.Identity{ID: uuid.New(), Role: models.RoleAdmin}

	token, err := GenerateToken(identity, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseIdentity(token, "other_secret")
	assert.Error(t, err)
}

func TestParseIdentityExpired(t *testing.T) {
	identity := models.Identity{ID: uuid.New(), Role: models.RoleCollaborator}

	token, err := GenerateToken(identity, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseIdentity(token, testSecret)
	assert.Error(t, err)
}

func TestParseIdentityInvalidClaims(t *testing.T) {
	sign := func(claims jwt.MapClaims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return token
	}

	t.Run("unknown role", func(t *testing.T) {
		token := sign(jwt.MapClaims{
			"sub":  uuid.New().String(),
			"role": "SUPERUSER",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		_, err := ParseIdentity(token, testSecret)
		assert.ErrorContains(t, err, "invalid role claim")
	})

	t.Run("missing role", func(t *testing.T) {
		token := sign(jwt.MapClaims{
			"sub": uuid.New().String(),
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		_, err := ParseIdentity(token, testSecret)
		assert.ErrorContains(t, err, "invalid role claim")
	})

	t.Run("non-uuid subject", func(t *testing.T) {
		token := sign(jwt.MapClaims{
			"sub":  "not-a-uuid",
			"role": string(models.RoleAdmin),
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		_, err := ParseIdentity(token, testSecret)
		assert.ErrorContains(t, err, "invalid subject claim")
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := ParseIdentity("not.a.token", testSecret)
		assert.Error(t, err)
	})
}
