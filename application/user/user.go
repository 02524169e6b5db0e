package user

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aditpras/storefront/cmd/config"
	"github.com/aditpras/storefront/constant"
	"github.com/aditpras/storefront/model"
	redisrepo "github.com/aditpras/storefront/repository/redis"
	userrepo "github.com/aditpras/storefront/repository/user"
	"github.com/aditpras/storefront/utils/errors"
	"github.com/aditpras/storefront/utils/logger"
	validatorx "github.com/aditpras/storefront/utils/validator"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserApp owns shopper accounts: registration with an optional saved
// shipping address, email login, token validation for the auth middleware,
// and the profile read that checkout clients prefill from.
type UserApp interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.RegisterResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (uint64, error)
	GetProfile(ctx context.Context, userID uint64) (*model.UserProfile, error)
}

type UserAppImpl struct {
	config    *config.Config
	userRepo  userrepo.UserRepository
	redisRepo redisrepo.Repository
}

func NewUserApp(config *config.Config, userRepo userrepo.UserRepository, redisRepo redisrepo.Repository) UserApp {
	return &UserAppImpl{
		config:    config,
		userRepo:  userRepo,
		redisRepo: redisRepo,
	}
}

// Register creates a shopper account. Email is the unique login key and is
// stored lowercased; phone is optional but unique when given. A submitted
// default address is validated like a checkout address, with the account
// name standing in for a missing recipient name.
func (s *UserAppImpl) Register(ctx context.Context, req *model.RegisterRequest) (*model.RegisterResponse, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		logger.Error("[Register] get by email", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if existing != nil {
		return nil, errors.SetCustomError(constant.ErrCredentialExists)
	}

	if req.Phone != "" {
		taken, err := s.userRepo.ExistsByPhone(ctx, req.Phone)
		if err != nil {
			logger.Error("[Register] check phone", zap.String("error", err.Error()))
			return nil, errors.SetCustomError(constant.ErrInternal)
		}
		if taken {
			return nil, errors.SetCustomError(constant.ErrCredentialExists)
		}
	}

	entity := &model.UserEntity{
		Name:  req.Name,
		Email: email,
		Phone: req.Phone,
	}

	if req.Address != nil {
		addr := *req.Address
		if addr.FullName == "" {
			addr.FullName = req.Name
		}
		if err := validatorx.ValidateStruct(&addr); err != nil {
			return nil, errors.SetCustomError(constant.ErrInvalidAddress)
		}
		entity.Street = addr.Street
		entity.City = addr.City
		entity.State = addr.State
		entity.PostalCode = addr.PostalCode
		entity.Country = addr.Country
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("[Register] hash password", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	entity.PasswordHash = string(hashed)

	entity, err = s.userRepo.Create(ctx, entity)
	if err != nil {
		logger.Error("[Register] create user", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return &model.RegisterResponse{
		Name:  entity.Name,
		Email: entity.Email,
	}, nil
}

func (s *UserAppImpl) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		logger.Error("[Login] get by email", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if user == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.SetCustomError(constant.ErrInvalidPassword)
	}

	token, jti, err := s.issueToken(user.ID)
	if err != nil {
		logger.Error("[Login] issue token", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.redisRepo.SetSession(ctx, jti, user.ID, s.config.Auth.SessionExpTime); err != nil {
		logger.Error("[Login] set session", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return &model.LoginResponse{
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	}, nil
}

// ValidateToken checks signature, claims and the live jti session, and
// returns the shopper id the token was issued for.
func (s *UserAppImpl) ValidateToken(ctx context.Context, tokenString string) (uint64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("invalid claims")
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id in token")
	}
	if claims.ID == "" {
		return 0, fmt.Errorf("token missing jti")
	}

	sessionUserID, err := s.redisRepo.GetSession(ctx, claims.ID)
	if err != nil {
		return 0, fmt.Errorf("invalid or expired session")
	}
	if sessionUserID != userID {
		return 0, fmt.Errorf("token does not match user session")
	}

	return userID, nil
}

// GetProfile returns the shopper's account details plus the saved default
// shipping address, if any, for checkout prefill.
func (s *UserAppImpl) GetProfile(ctx context.Context, userID uint64) (*model.UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Error("[GetProfile] get by id", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if user == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}

	profile := &model.UserProfile{
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
	}
	if user.Street != "" {
		profile.Address = &model.ShippingAddress{
			FullName:   user.Name,
			Street:     user.Street,
			City:       user.City,
			State:      user.State,
			PostalCode: user.PostalCode,
			Country:    user.Country,
			Phone:      user.Phone,
		}
	}
	return profile, nil
}

func (s *UserAppImpl) issueToken(userID uint64) (string, string, error) {
	jti := uuid.NewString()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.config.Auth.JWTExpiration)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ID:        jti,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Auth.JWTSecret))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, jti, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
