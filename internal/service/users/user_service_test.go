package users

import (
	"context"
	"testing"

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

func storedUser() *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("parola123"), bcrypt.MinCost)
	return &domain.User{
		ID:           5,
		Name:         "Ana Pop",
		Email:        "ana@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
}

func TestUserService_Create_DefaultsRole(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewUserService(repo)

	repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(nil, domain.ErrNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	user, err := service.Create(context.Background(), CreateInput{
		Name:     "Ana Pop",
		Email:    "ana@example.com",
		Password: "parola123",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewUserService(repo)

	repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(storedUser(), nil)

	_, err := service.Create(context.Background(), CreateInput{
		Name:     "Ana Pop",
		Email:    "ana@example.com",
		Password: "parola123",
	})

	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Update_NilFieldsUntouched(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewUserService(repo)

	stored := storedUser()
	repo.On("GetByID", mock.Anything, int64(5)).Return(stored, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	name := "Ana Ionescu"
	updated, err := service.Update(context.Background(), 5, domain.UserPatch{Name: &name})

	assert.NoError(t, err)
	assert.Equal(t, "Ana Ionescu", updated.Name)
	assert.Equal(t, "ana@example.com", updated.Email)
	assert.Equal(t, domain.RoleUser, updated.Role)
}

func TestUserService_Update_PresentEmptyNameApplied(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewUserService(repo)

	repo.On("GetByID", mock.Anything, int64(5)).Return(storedUser(), nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	empty := ""
	updated, err := service.Update(context.Background(), 5, domain.UserPatch{Name: &empty})

	assert.NoError(t, err)
	assert.Equal(t, "", updated.Name)
}

func TestUserService_Update_EmptyPasswordRejected(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewUserService(repo)

	repo.On("GetByID", mock.Anything, int64(5)).Return(storedUser(), nil)

	empty := ""
	_, err := service.Update(context.Background(), 5, domain.UserPatch{Password: &empty})

	assert.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserService_Update_PasswordRehashed(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewUserService(repo)

	stored := storedUser()
	oldHash := stored.PasswordHash
	repo.On("GetByID", mock.Anything, int64(5)).Return(stored, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	password := "parola-noua"
	updated, err := service.Update(context.Background(), 5, domain.UserPatch{Password: &password})

	assert.NoError(t, err)
	assert.NotEqual(t, oldHash, updated.PasswordHash)
	assert.NotEqual(t, "parola-noua", updated.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("parola-noua")))
}

func TestUserService_Update_EmailTakenByOther(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewUserService(repo)

	repo.On("GetByID", mock.Anything, int64(5)).Return(storedUser(), nil)
	repo.On("GetByEmail", mock.Anything, "ocupat@example.com").Return(&domain.User{ID: 9}, nil)

	email := "ocupat@example.com"
	_, err := service.Update(context.Background(), 5, domain.UserPatch{Email: &email})

	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserService_Update_InvalidRole(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewUserService(repo)

	repo.On("GetByID", mock.Anything, int64(5)).Return(storedUser(), nil)

	role := domain.Role("owner")
	_, err := service.Update(context.Background(), 5, domain.UserPatch{Role: &role})

	assert.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserService_Update_NotFound(t *testing.T) {
	repo := &MockUserRepository{}
	service := NewUserService(repo)

	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound)

	name := "Ana"
	_, err := service.Update(context.Background(), 99, domain.UserPatch{Name: &name})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
