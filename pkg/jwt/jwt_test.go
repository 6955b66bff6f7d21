package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cartera-api/pkg/jwt"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	now := time.Now()
	token, exp, err := jwt.Generate("secreto", "admin", "cartera-api", now, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), exp, time.Second)

	user, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "admin", user)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, _, err := jwt.Generate("secreto", "admin", "cartera-api", time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", token)
	require.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, _, err := jwt.Generate("secreto", "admin", "cartera-api", time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)

	_, err = jwt.Parse("secreto", token)
	require.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, _, err := jwt.Generate("", "admin", "x", time.Now(), time.Hour)
	require.Error(t, err)
}
