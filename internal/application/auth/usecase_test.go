package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger-api/internal/application/auth"
	"github.com/jhoicas/stockledger-api/internal/application/dto"
	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/stockledger-api/pkg/jwt"
)

const secret = "secreto-de-pruebas"

func newAuth() *auth.AuthUseCase {
	users := memory.NewUserRepository(memory.NewStore())
	return auth.NewAuthUseCase(users, auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "tests"})
}

func TestRegisterUser_SiempreRolUser(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Email: "ana@example.com", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, u.Role)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: " ana ", Email: "b@example.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "  ", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEnsureAdmin_CreaUnaVez(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()

	first, err := uc.EnsureAdmin(ctx, "root", "secreto123")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, first.Role)

	again, err := uc.EnsureAdmin(ctx, "root", "otra-clave")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	// la segunda llamada no cambia la contraseña
	out, err := uc.Login(ctx, dto.LoginRequest{Username: "root", Password: "secreto123"})
	require.NoError(t, err)
	claims, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, claims.Role)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "root", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
