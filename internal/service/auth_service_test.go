package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/luct-reporting/reporting-api/internal/models"
	"github.com/luct-reporting/reporting-api/internal/scope"
	appErrors "github.com/luct-reporting/reporting-api/pkg/errors"
)

type mockUserRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
	created *models.User
	listed  models.UserRole
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if _, ok := m.byEmail[user.Email]; ok {
		return appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}
	if user.ID == "" {
		user.ID = "new-user"
	}
	m.created = user
	return nil
}

func (m *mockUserRepo) List(ctx context.Context, role models.UserRole) ([]models.User, error) {
	m.listed = role
	return []models.User{{ID: "u1", Role: models.RoleStudent}}, nil
}

func testAuthService(repo *mockUserRepo) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "reporting-api-test",
	})
}

func TestAuthServiceRegisterIssuesToken(t *testing.T) {
	repo := &mockUserRepo{}
	svc := testAuthService(repo)

	res, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Naleli",
		Email:    "naleli@example.com",
		Password: "secret1",
		Role:     "lecturer",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, models.RoleLecturer, res.User.Role)
	require.NotNil(t, repo.created)
	assert.NotEqual(t, "secret1", repo.created.PasswordHash)

	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, repo.created.ID, claims.UserID)
	assert.Equal(t, models.RoleLecturer, claims.Role)
}

func TestAuthServiceRegisterDefaultsToStudent(t *testing.T) {
	repo := &mockUserRepo{}
	svc := testAuthService(repo)

	res, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Thabo",
		Email:    "thabo@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, res.User.Role)
}

func TestAuthServiceRegisterPRLRequiresFaculty(t *testing.T) {
	svc := testAuthService(&mockUserRepo{})

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Palesa",
		Email:    "palesa@example.com",
		Password: "secret1",
		Role:     "prl",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	faculty := "FICT"
	repo := &mockUserRepo{byEmail: map[string]*models.User{
		"palesa@example.com": {ID: "u1", Name: "Palesa", Email: "palesa@example.com", PasswordHash: string(hash), Role: models.RolePRL, Faculty: &faculty},
	}}
	svc := testAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "palesa@example.com", Password: "secret1"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "FICT", claims.Faculty)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "palesa@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	repo := &mockUserRepo{}
	svc := testAuthService(repo)

	res, err := svc.Register(context.Background(), models.RegisterRequest{Name: "T", Email: "t@example.com", Password: "secret1"})
	require.NoError(t, err)

	other := NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{TokenSecret: "other-secret", TokenExpiry: time.Hour})
	_, err = other.ValidateToken(res.Token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceListUsers(t *testing.T) {
	repo := &mockUserRepo{}
	svc := testAuthService(repo)

	_, err := svc.ListUsers(context.Background(), scope.Identity{ID: "l1", Role: models.RoleLecturer}, "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	pl := scope.Identity{ID: "pl1", Role: models.RolePL}
	_, err = svc.ListUsers(context.Background(), pl, models.UserRole("registrar"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	users, err := svc.ListUsers(context.Background(), pl, models.RoleStudent)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, models.RoleStudent, repo.listed)
}

func TestAuthServiceListStudents(t *testing.T) {
	repo := &mockUserRepo{}
	svc := testAuthService(repo)

	_, err := svc.ListStudents(context.Background(), scope.Identity{ID: "s1", Role: models.RoleStudent})
	require.Error(t, err)

	_, err = svc.ListStudents(context.Background(), scope.Identity{ID: "p1", Role: models.RolePRL, Faculty: "FICT"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, repo.listed)
}
