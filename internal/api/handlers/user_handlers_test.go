package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iol-platform/logistics-service/internal/application"
	apperrors "github.com/iol-platform/logistics-service/pkg/errors"
	"github.com/iol-platform/logistics-service/pkg/middleware"
)

type mockAuthService struct {
	registerFn func(ctx context.Context, companyID string, cmd application.RegisterUserCommand) error
	loginFn    func(ctx context.Context, cmd application.LoginCommand) (string, error)
}

func (m *mockAuthService) Register(ctx context.Context, companyID string, cmd application.RegisterUserCommand) error {
	if m.registerFn == nil {
		panic("Register not implemented")
	}
	return m.registerFn(ctx, companyID, cmd)
}

func (m *mockAuthService) Login(ctx context.Context, cmd application.LoginCommand) (string, error) {
	if m.loginFn == nil {
		panic("Login not implemented")
	}
	return m.loginFn(ctx, cmd)
}

func userRouter(service AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.InitValidator()
	router := gin.New()
	h := NewUserHandlers(service, newTestLogger())
	h.RegisterRoutes(router, router.Group("/companies"))
	return router
}

func TestRegisterUser_Created(t *testing.T) {
	var gotCompany string
	service := &mockAuthService{
		registerFn: func(ctx context.Context, companyID string, cmd application.RegisterUserCommand) error {
			gotCompany = companyID
			return nil
		},
	}
	router := userRouter(service)

	body := bytes.NewBufferString(`{"username":"alice","password":"hunter22","companyPin":"4711"}`)
	req := httptest.NewRequest(http.MethodPost, "/companies/acme/users", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "acme", gotCompany)
	assert.Contains(t, w.Body.String(), "User registration successful!")
}

func TestRegisterUser_WrongPin(t *testing.T) {
	service := &mockAuthService{
		registerFn: func(ctx context.Context, companyID string, cmd application.RegisterUserCommand) error {
			return apperrors.ErrForbidden("Invalid company PIN")
		},
	}
	router := userRouter(service)

	body := bytes.NewBufferString(`{"username":"alice","password":"hunter22","companyPin":"0000"}`)
	req := httptest.NewRequest(http.MethodPost, "/companies/acme/users", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	doc := decodeErrorDocument(t, w.Body)
	assert.Equal(t, "Invalid company PIN", doc.Title)
}

func TestRegisterUser_ShortPassword(t *testing.T) {
	router := userRouter(&mockAuthService{})

	body := bytes.NewBufferString(`{"username":"alice","password":"pw","companyPin":"4711"}`)
	req := httptest.NewRequest(http.MethodPost, "/companies/acme/users", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_ReturnsToken(t *testing.T) {
	service := &mockAuthService{
		loginFn: func(ctx context.Context, cmd application.LoginCommand) (string, error) {
			return "signed-token", nil
		},
	}
	router := userRouter(service)

	body := bytes.NewBufferString(`{"username":"alice","password":"hunter22"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "signed-token", resp["token"])
	assert.Equal(t, "Login successful!", resp["status"])
}

func TestLogin_BadCredentials(t *testing.T) {
	service := &mockAuthService{
		loginFn: func(ctx context.Context, cmd application.LoginCommand) (string, error) {
			return "", apperrors.ErrUnauthorized("Invalid username or password")
		},
	}
	router := userRouter(service)

	body := bytes.NewBufferString(`{"username":"alice","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
