package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"fitness-tracker/internal/config"
	domain "fitness-tracker/internal/domain/user"
)

func testConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:   "test-secret-that-is-long-enough-for-hs256",
		Issuer:   "fitnessTrackerApi",
		Audience: "fitnessTrackerClient",
		TTL:      24 * time.Hour,
	}
}

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func TestGenerateAndParse_RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(testConfig(), fixedClock(now))

	u := domain.NewUser("Trainer Tom", "tom@example.com", "tom", "hash", domain.RoleUser, domain.RoleTrainer)
	token, expiresAt, err := svc.GenerateToken(u)
	require.NoError(t, err)
	require.Equal(t, now.Add(24*time.Hour), expiresAt)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, u.ID.String(), claims.Subject)
	require.Equal(t, "tom", claims.Name)
	require.ElementsMatch(t, []string{"User", "Trainer"}, claims.Roles)
	require.True(t, claims.HasRole("Trainer"))
	require.False(t, claims.HasRole("Admin"))
	require.NotEmpty(t, claims.ID)

	id, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, u.ID, id)
}

func TestGenerateToken_UniqueJTI(t *testing.T) {
	svc := NewService(testConfig())
	u := domain.NewUser("A", "a@example.com", "", "hash")

	t1, _, err := svc.GenerateToken(u)
	require.NoError(t, err)
	t2, _, err := svc.GenerateToken(u)
	require.NoError(t, err)

	c1, err := svc.ParseToken(t1)
	require.NoError(t, err)
	c2, err := svc.ParseToken(t2)
	require.NoError(t, err)
	require.NotEqual(t, c1.ID, c2.ID)
}

func TestParseToken_Expired(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	u := domain.NewUser("A", "a@example.com", "", "hash")

	token, _, err := NewService(testConfig(), fixedClock(issued)).GenerateToken(u)
	require.NoError(t, err)

	later := NewService(testConfig(), fixedClock(issued.Add(25*time.Hour)))
	_, err = later.ParseToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Rejects(t *testing.T) {
	u := domain.NewUser("A", "a@example.com", "", "hash")
	token, _, err := NewService(testConfig()).GenerateToken(u)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		cfg := testConfig()
		cfg.Secret = "another-secret-that-is-long-enough-too"
		_, err := NewService(cfg).ParseToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		cfg := testConfig()
		cfg.Audience = "someoneElse"
		_, err := NewService(cfg).ParseToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		cfg := testConfig()
		cfg.Issuer = "someoneElse"
		_, err := NewService(cfg).ParseToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := NewService(testConfig()).ParseToken("not-a-token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("alg none", func(t *testing.T) {
		claims := &Claims{
			Roles: []string{"Admin"},
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "fitnessTrackerApi",
				Subject:   u.ID.String(),
				Audience:  jwt.ClaimStrings{"fitnessTrackerClient"},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = NewService(testConfig()).ParseToken(unsigned)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing exp", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:   "fitnessTrackerApi",
				Subject:  u.ID.String(),
				Audience: jwt.ClaimStrings{"fitnessTrackerClient"},
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testConfig().Secret))
		require.NoError(t, err)

		_, err = NewService(testConfig()).ParseToken(signed)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
