package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/auth"
	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/ventas-api/pkg/jwt"
)

const testSecret = "secreto-de-pruebas"

func newAuth(t *testing.T, enabled bool) (*auth.AuthUseCase, *entity.User) {
	t.Helper()
	store := memory.NewStore(time.Second)
	hash, err := auth.HashPassword("clave-segura")
	require.NoError(t, err)
	user := &entity.User{Username: "caja1", PasswordHash: hash, Role: entity.RoleSeller, Enabled: enabled}
	require.NoError(t, store.Users().Create(context.Background(), user))
	uc := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testSecret, ExpMinutes: 5, Issuer: "ventas-api"})
	return uc, user
}

func TestLogin_CredencialesValidas(t *testing.T) {
	uc, user := newAuth(t, true)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Username: "caja1", Password: "clave-segura"})

	require.NoError(t, err)
	assert.Equal(t, user.ID, out.User.ID)
	claims, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, entity.RoleSeller, claims.Role)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	uc, _ := newAuth(t, true)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "caja1", Password: "otra"})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioDeshabilitado(t *testing.T) {
	uc, _ := newAuth(t, false)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "caja1", Password: "clave-segura"})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc, _ := newAuth(t, true)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "x"})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
