package auth

import (
	"context"
	"errors"
	"os"
	"time"

	autherrors "github.com/mr-RSA369/leave-management-api/internal/auth/errors"
	"github.com/mr-RSA369/leave-management-api/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Every account starts with the default annual entitlement; HR adjusts
// it directly in the users table when policy differs.
var defaultEntitlement = decimal.NewFromInt(30)

const accessTokenTTL = 24 * time.Hour

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	Login(ctx context.Context, email, password string) (AuthResponse, error)
	GetMe(ctx context.Context, userID string) (UserResponse, error)
}

type service struct {
	users  user.Repository
	logger *zap.Logger
}

func NewService(users user.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{users: users, logger: l}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	role := user.RoleGeneral
	if req.Role != "" {
		parsed, err := user.ParseRole(req.Role)
		if err != nil {
			return AuthResponse{}, autherrors.ErrInvalidCredentials
		}
		role = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("register hash password failed", zap.Error(err))
		return AuthResponse{}, err
	}

	u := &user.User{
		Name:                   req.Name,
		Email:                  req.Email,
		Password:               string(hash),
		Role:                   role,
		AnnualLeaveEntitlement: defaultEntitlement,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if isUniqueEmailViolation(err) {
			return AuthResponse{}, autherrors.ErrEmailAlreadyExists
		}
		s.logger.Error("register persist user failed", zap.Error(err))
		return AuthResponse{}, err
	}

	token, err := s.generateToken(u)
	if err != nil {
		return AuthResponse{}, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role.String()),
	)

	return AuthResponse{
		User:        mapToUserResponse(u),
		AccessToken: token,
		TokenType:   "Bearer",
	}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := s.generateToken(u)
	if err != nil {
		return AuthResponse{}, err
	}

	s.logger.Info("user logged in", zap.String("user_id", u.ID.String()))

	return AuthResponse{
		User:        mapToUserResponse(u),
		AccessToken: token,
		TokenType:   "Bearer",
	}, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (UserResponse, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, autherrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}
	return mapToUserResponse(u), nil
}

func (s *service) generateToken(u *user.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": u.ID.String(),
		"role":    u.Role.String(),
		"exp":     time.Now().Add(accessTokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		s.logger.Error("sign access token failed", zap.Error(err))
		return "", err
	}
	return signed, nil
}

func isUniqueEmailViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_users_email"
	}
	return false
}

func mapToUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:                     u.ID.String(),
		Name:                   u.Name,
		Email:                  u.Email,
		Role:                   u.Role.String(),
		AnnualLeaveEntitlement: u.AnnualLeaveEntitlement.InexactFloat64(),
	}
}
