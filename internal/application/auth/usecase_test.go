package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Stock-api/internal/application/auth"
	"github.com/jhoicas/Stock-api/internal/application/dto"
	"github.com/jhoicas/Stock-api/internal/domain"
	"github.com/jhoicas/Stock-api/internal/domain/entity"
	"github.com/jhoicas/Stock-api/internal/domain/repository"
	"github.com/jhoicas/Stock-api/pkg/jwt"
)

const testSecret = "test-secret"

type memUsers struct {
	repository.UserRepository
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]*entity.User{}} }

func (r *memUsers) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUsers) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id].LastLogin = &at
	return nil
}

func (r *memUsers) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

func newAuth(repo *memUsers) *auth.AuthUseCase {
	return auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: testSecret, ExpMinutes: 5, Issuer: "stock-api-test"}).
		WithBcryptCost(bcrypt.MinCost)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterUser_RolPorDefectoCashier(t *testing.T) {
	repo := newMemUsers()
	uc := newAuth(repo)

	got, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Username: "caja1", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCashier, got.Role)

	stored := repo.users[got.ID]
	assert.NotEqual(t, "secreto123", stored.PasswordHash, "nunca se guarda la contraseña plana")
}

func TestRegisterUser_UsernameDuplicado(t *testing.T) {
	uc := newAuth(newMemUsers())
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Password: "secreto123"})
	require.NoError(t, err)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Password: "otro12345"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRegisterUser_RolInvalido(t *testing.T) {
	uc := newAuth(newMemUsers())

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Username: "ana", Password: "secreto123", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEnsureAdmin_SoloConTablaVacia(t *testing.T) {
	repo := newMemUsers()
	uc := newAuth(repo)
	ctx := context.Background()

	created, err := uc.EnsureAdmin(ctx, "admin", "admin12345")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = uc.EnsureAdmin(ctx, "admin2", "admin12345")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, repo.users, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_TokenConRolYUltimoIngreso(t *testing.T) {
	repo := newMemUsers()
	uc := newAuth(repo)
	ctx := context.Background()

	reg, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Password: "secreto123", Role: entity.RoleManager})
	require.NoError(t, err)

	got, err := uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "secreto123"})
	require.NoError(t, err)
	require.NotNil(t, got.User.LastLogin)

	claims, err := jwt.Parse(testSecret, got.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, claims.UserID)
	assert.Equal(t, entity.RoleManager, claims.Role)
	assert.NotNil(t, repo.users[reg.ID].LastLogin)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newAuth(newMemUsers())
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "ana", Password: "secreto123"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "no se revela si el usuario existe")
}
