package application

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/iol-platform/logistics-service/internal/domain"
	apperrors "github.com/iol-platform/logistics-service/pkg/errors"
	"github.com/iol-platform/logistics-service/pkg/logging"
)

// Claims are the JWT claims issued at login
type Claims struct {
	Username  string `json:"username"`
	CompanyID string `json:"companyId"`
	jwt.RegisteredClaims
}

// AuthService registers users under companies and issues bearer tokens
type AuthService struct {
	users     UserRepository
	companies CompanyRepository
	logger    *logging.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserRepository, companies CompanyRepository, logger *logging.Logger, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{
		users:     users,
		companies: companies,
		logger:    logger.WithComponent("auth-service"),
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Register creates a user account under a company. The caller must present
// the company's PIN.
func (s *AuthService) Register(ctx context.Context, companyID string, cmd RegisterUserCommand) error {
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return err
	}

	if cmd.CompanyPin != company.Pin() {
		return apperrors.ErrForbidden("Invalid company PIN")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &domain.User{
		Username:     cmd.Username,
		PasswordHash: string(hash),
		CompanyID:    company.CompanyID,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	s.logger.Event(ctx, "user.registered", map[string]any{
		"username":  user.Username,
		"companyId": user.CompanyID,
	})

	return nil
}

// Login verifies credentials and issues a bearer token carrying the user's
// company membership
func (s *AuthService) Login(ctx context.Context, cmd LoginCommand) (string, error) {
	user, err := s.users.FindByUsername(ctx, cmd.Username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperrors.ErrUnauthorized("Invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)); err != nil {
		return "", apperrors.ErrUnauthorized("Invalid username or password")
	}

	now := time.Now()
	claims := Claims{
		Username:  user.Username,
		CompanyID: user.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", err
	}

	return signed, nil
}

// VerifyToken validates a bearer token and returns its claims
func (s *AuthService) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrUnauthorized("Unexpected token signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, apperrors.ErrUnauthorized("Invalid or expired token").Wrap(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrUnauthorized("Invalid token claims")
	}

	return claims, nil
}
