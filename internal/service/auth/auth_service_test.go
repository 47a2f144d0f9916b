package auth

import (
	"context"
	"testing"
	"time"

	"github.com/mpopescu/skybooker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	user.ID = 1
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewAuthService(repo, "secret", time.Hour)

	repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, domain.ErrNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	user, err := service.Register(context.Background(), RegisterInput{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "parola123",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "parola123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("parola123")))
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewAuthService(repo, "secret", time.Hour)

	_, err := service.Register(context.Background(), RegisterInput{Email: "ana@example.com"})

	assert.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewAuthService(repo, "secret", time.Hour)

	repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(&domain.User{ID: 1}, nil)

	_, err := service.Register(context.Background(), RegisterInput{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "parola123",
	})

	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_UnknownRole(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewAuthService(repo, "secret", time.Hour)

	_, err := service.Register(context.Background(), RegisterInput{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "parola123",
		Role:     "superadmin",
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewAuthService(repo, "secret", time.Hour)

	repo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)

	_, _, err := service.Login(context.Background(), "ghost@example.com", "parola123")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewAuthService(repo, "secret", time.Hour)

	stored := &domain.User{ID: 1, Email: "ana@example.com", PasswordHash: hashFor(t, "parola123")}
	repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(stored, nil)

	_, _, err := service.Login(context.Background(), "ana@example.com", "gresita")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_ResolveRoundTrip(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewAuthService(repo, "secret", time.Hour)

	stored := &domain.User{ID: 7, Email: "ana@example.com", PasswordHash: hashFor(t, "parola123"), Role: domain.RoleAdmin}
	repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(stored, nil)

	token, user, err := service.Login(context.Background(), "ana@example.com", "parola123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, int64(7), user.ID)

	identity, err := service.Resolve(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), identity.UserID)
	assert.Equal(t, domain.RoleAdmin, identity.Role)
}

func TestAuthService_Resolve_WrongSecret(t *testing.T) {
	repo := &MockUserRepository{}
	issuer := NewAuthService(repo, "secret-a", time.Hour)
	verifier := NewAuthService(repo, "secret-b", time.Hour)

	stored := &domain.User{ID: 7, Email: "ana@example.com", PasswordHash: hashFor(t, "parola123"), Role: domain.RoleUser}
	repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(stored, nil)

	token, _, err := issuer.Login(context.Background(), "ana@example.com", "parola123")
	assert.NoError(t, err)

	_, err = verifier.Resolve(token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Resolve_Expired(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewAuthService(repo, "secret", -time.Minute)

	stored := &domain.User{ID: 7, Email: "ana@example.com", PasswordHash: hashFor(t, "parola123"), Role: domain.RoleUser}
	repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(stored, nil)

	token, _, err := service.Login(context.Background(), "ana@example.com", "parola123")
	assert.NoError(t, err)

	_, err = service.Resolve(token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Resolve_Malformed(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewAuthService(repo, "secret", time.Hour)

	_, err := service.Resolve("not-a-token")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
