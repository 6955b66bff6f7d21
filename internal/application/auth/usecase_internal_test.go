package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/pkg/jwt"
)

func newTestUseCase(t *testing.T, clock *time.Time) *AuthUseCase {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta"), bcrypt.MinCost)
	require.NoError(t, err)
	uc := NewAuthUseCase(Config{
		Username:     "admin",
		PasswordHash: string(hash),
		JWTSecret:    "test-secret",
		JWTIssuer:    "cartera-api",
	})
	uc.now = func() time.Time { return *clock }
	return uc
}

func TestLogin_Exitoso(t *testing.T) {
	now := time.Now()
	uc := newTestUseCase(t, &now)

	res, err := uc.Login(dto.LoginRequest{Username: "admin", Password: "secreta"})
	require.NoError(t, err)
	assert.Equal(t, "admin", res.Username)
	assert.WithinDuration(t, now.Add(24*time.Hour), res.ExpiresAt, time.Second)

	user, err := jwt.Parse("test-secret", res.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", user)
}

func TestLogin_RecordarmeSieteDias(t *testing.T) {
	now := time.Now()
	uc := newTestUseCase(t, &now)

	res, err := uc.Login(dto.LoginRequest{Username: "admin", Password: "secreta", RememberMe: true})
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(7*24*time.Hour), res.ExpiresAt, time.Second)
}

func TestLogin_BloqueoTrasTresIntentos(t *testing.T) {
	now := time.Now()
	uc := newTestUseCase(t, &now)
	bad := dto.LoginRequest{Username: "admin", Password: "mala"}

	_, err := uc.Login(bad)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(bad)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(bad)
	assert.ErrorIs(t, err, domain.ErrLoginLocked)

	// bloqueado incluso con la contraseña correcta
	_, err = uc.Login(dto.LoginRequest{Username: "admin", Password: "secreta"})
	assert.ErrorIs(t, err, domain.ErrLoginLocked)
	assert.Equal(t, now.Add(15*time.Minute), uc.LockedUntil())

	now = now.Add(15*time.Minute + time.Second)
	_, err = uc.Login(dto.LoginRequest{Username: "admin", Password: "secreta"})
	require.NoError(t, err)
	assert.True(t, uc.LockedUntil().IsZero())
}

func TestLogin_ExitoReiniciaContador(t *testing.T) {
	now := time.Now()
	uc := newTestUseCase(t, &now)
	bad := dto.LoginRequest{Username: "admin", Password: "mala"}

	_, _ = uc.Login(bad)
	_, _ = uc.Login(bad)
	_, err := uc.Login(dto.LoginRequest{Username: "admin", Password: "secreta"})
	require.NoError(t, err)

	_, err = uc.Login(bad)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioIncorrecto(t *testing.T) {
	now := time.Now()
	uc := newTestUseCase(t, &now)
	_, err := uc.Login(dto.LoginRequest{Username: "otro", Password: "secreta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
