package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/pkg/jwt"
)

func TestGenerateYParse(t *testing.T) {
	token, err := jwt.Generate("s3cr3t", 42, "ADMIN", "ventas-api", 10)
	require.NoError(t, err)

	claims, err := jwt.Parse("s3cr3t", token)

	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "ventas-api", claims.Issuer)
	assert.Equal(t, "42", claims.Subject)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("s3cr3t", 1, "SELLER", "ventas-api", 10)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", token)

	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := jwt.Generate("s3cr3t", 1, "SELLER", "ventas-api", -1)
	require.NoError(t, err)

	_, err = jwt.Parse("s3cr3t", token)

	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", 1, "SELLER", "ventas-api", 10)
	assert.Error(t, err)
}
