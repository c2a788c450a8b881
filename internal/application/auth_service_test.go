package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iol-platform/logistics-service/internal/domain"
	apperrors "github.com/iol-platform/logistics-service/pkg/errors"
)

type mockUserRepo struct {
	CreateFunc         func(ctx context.Context, user *domain.User) error
	FindByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.CreateFunc(ctx, user)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.FindByUsernameFunc(ctx, username)
}

func pinnedCompanyRepo(companyID, pin string) *mockCompanyRepo {
	return &mockCompanyRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Company, error) {
			if id == companyID {
				return &domain.Company{CompanyID: companyID, CompanyPin: pin}, nil
			}
			return nil, domain.ErrCompanyNotFound
		},
	}
}

func TestRegister_HashesPassword(t *testing.T) {
	var created *domain.User
	users := &mockUserRepo{
		CreateFunc: func(ctx context.Context, user *domain.User) error {
			created = user
			return nil
		},
	}

	svc := NewAuthService(users, pinnedCompanyRepo("acme", "4711"), testLogger(), "secret", time.Hour)

	err := svc.Register(context.Background(), "acme", RegisterUserCommand{
		Username:   "alice",
		Password:   "hunter22",
		CompanyPin: "4711",
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, "acme", created.CompanyID)
	assert.NotEqual(t, "hunter22", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("hunter22")))
}

func TestRegister_RejectsWrongPin(t *testing.T) {
	users := &mockUserRepo{
		CreateFunc: func(ctx context.Context, user *domain.User) error {
			t.Fatal("should not create a user with a wrong PIN")
			return nil
		},
	}

	svc := NewAuthService(users, pinnedCompanyRepo("acme", "4711"), testLogger(), "secret", time.Hour)

	err := svc.Register(context.Background(), "acme", RegisterUserCommand{
		Username:   "alice",
		Password:   "hunter22",
		CompanyPin: "0000",
	})

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)
}

func TestRegister_DefaultPinWhenCompanyHasNone(t *testing.T) {
	users := &mockUserRepo{
		CreateFunc: func(ctx context.Context, user *domain.User) error { return nil },
	}

	svc := NewAuthService(users, pinnedCompanyRepo("acme", ""), testLogger(), "secret", time.Hour)

	err := svc.Register(context.Background(), "acme", RegisterUserCommand{
		Username:   "alice",
		Password:   "hunter22",
		CompanyPin: domain.DefaultCompanyPin,
	})

	assert.NoError(t, err)
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &mockUserRepo{
		FindByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{Username: "alice", PasswordHash: string(hash), CompanyID: "acme"}, nil
		},
	}

	svc := NewAuthService(users, nil, testLogger(), "secret", time.Hour)

	token, err := svc.Login(context.Background(), LoginCommand{Username: "alice", Password: "hunter22"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "acme", claims.CompanyID)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &mockUserRepo{
		FindByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{Username: "alice", PasswordHash: string(hash)}, nil
		},
	}

	svc := NewAuthService(users, nil, testLogger(), "secret", time.Hour)

	_, err = svc.Login(context.Background(), LoginCommand{Username: "alice", Password: "wrong"})

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)
}

func TestLogin_UnknownUser(t *testing.T) {
	users := &mockUserRepo{
		FindByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
			return nil, nil
		},
	}

	svc := NewAuthService(users, nil, testLogger(), "secret", time.Hour)

	_, err := svc.Login(context.Background(), LoginCommand{Username: "ghost", Password: "whatever"})

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)
}

func TestVerifyToken_RejectsForeignSignature(t *testing.T) {
	svcA := NewAuthService(nil, nil, testLogger(), "secret-a", time.Hour)
	svcB := NewAuthService(&mockUserRepo{
		FindByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
			hash, _ := bcrypt.GenerateFromPassword([]byte("pw123456"), bcrypt.MinCost)
			return &domain.User{Username: "bob", PasswordHash: string(hash), CompanyID: "acme"}, nil
		},
	}, nil, testLogger(), "secret-b", time.Hour)

	token, err := svcB.Login(context.Background(), LoginCommand{Username: "bob", Password: "pw123456"})
	require.NoError(t, err)

	_, err = svcA.VerifyToken(token)
	assert.Error(t, err)
}
