package user_test

import (
	"context"
	"errors"
	"testing"
	"time"

	appuser "github.com/aditpras/storefront/application/user"
	"github.com/aditpras/storefront/cmd/config"
	"github.com/aditpras/storefront/constant"
	redismocks "github.com/aditpras/storefront/mocks/repository/redis"
	usermocks "github.com/aditpras/storefront/mocks/repository/user"
	"github.com/aditpras/storefront/model"
	cerr "github.com/aditpras/storefront/utils/errors"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func userTestConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "jwt-test-secret",
			JWTExpiration:  time.Hour,
			SessionExpTime: time.Hour,
		},
	}
}

func assertUserErrCode(t *testing.T, err error, errType constant.ErrorType) {
	t.Helper()
	var ce cerr.CustomError
	if !errors.As(err, &ce) {
		t.Fatalf("error type = %T, want CustomError", err)
	}
	if ce.ErrorCode() != constant.ErrorTypeCode[errType] {
		t.Fatalf("error code = %s, want %s", ce.ErrorCode(), constant.ErrorTypeCode[errType])
	}
}

func TestUserApp_Register(t *testing.T) {
	type fields struct {
		userRepo  *usermocks.UserRepository
		redisRepo *redismocks.RedisRepository
	}

	savedAddress := &model.ShippingAddress{
		Street:     "1 Main St",
		City:       "Springfield",
		State:      "IL",
		PostalCode: "62701",
		Country:    "US",
	}

	tests := []struct {
		name     string
		req      *model.RegisterRequest
		mockCall func(f fields)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success: email lowercased, password hashed, address stored",
			req: &model.RegisterRequest{
				Name:     "Test User",
				Email:    "Test@Example.COM",
				Phone:    "081234567890",
				Password: "secret123",
				Address:  savedAddress,
			},
			mockCall: func(f fields) {
				f.userRepo.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, nil).Once()
				f.userRepo.On("ExistsByPhone", mock.Anything, "081234567890").Return(false, nil).Once()
				f.userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.UserEntity) bool {
					if u.Email != "test@example.com" || u.Name != "Test User" || u.Phone != "081234567890" {
						return false
					}
					if u.Street != "1 Main St" || u.City != "Springfield" || u.PostalCode != "62701" || u.Country != "US" {
						return false
					}
					return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")) == nil
				})).Return(&model.UserEntity{
					ID: 1, Name: "Test User", Email: "test@example.com",
				}, nil).Once()
			},
		},
		{
			name: "success: no phone, no address",
			req: &model.RegisterRequest{
				Name:     "Test User",
				Email:    "test@example.com",
				Password: "secret123",
			},
			mockCall: func(f fields) {
				f.userRepo.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, nil).Once()
				f.userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.UserEntity) bool {
					return u.Email == "test@example.com" && u.Street == ""
				})).Return(&model.UserEntity{
					ID: 2, Name: "Test User", Email: "test@example.com",
				}, nil).Once()
			},
		},
		{
			name: "error: email already registered",
			req: &model.RegisterRequest{
				Name:     "Test User",
				Email:    "test@example.com",
				Password: "secret123",
			},
			mockCall: func(f fields) {
				f.userRepo.On("GetByEmail", mock.Anything, "test@example.com").Return(&model.UserEntity{ID: 9}, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrCredentialExists,
		},
		{
			name: "error: phone already taken",
			req: &model.RegisterRequest{
				Name:     "Test User",
				Email:    "test@example.com",
				Phone:    "081234567890",
				Password: "secret123",
			},
			mockCall: func(f fields) {
				f.userRepo.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, nil).Once()
				f.userRepo.On("ExistsByPhone", mock.Anything, "081234567890").Return(true, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrCredentialExists,
		},
		{
			name: "error: saved address missing city",
			req: &model.RegisterRequest{
				Name:     "Test User",
				Email:    "test@example.com",
				Password: "secret123",
				Address: &model.ShippingAddress{
					Street:     "1 Main St",
					PostalCode: "62701",
					Country:    "US",
				},
			},
			mockCall: func(f fields) {
				f.userRepo.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrInvalidAddress,
		},
		{
			name: "error: lookup failure",
			req: &model.RegisterRequest{
				Name:     "Test User",
				Email:    "test@example.com",
				Password: "secret123",
			},
			mockCall: func(f fields) {
				f.userRepo.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, errors.New("db error")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := fields{
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			}
			if tt.mockCall != nil {
				tt.mockCall(f)
			}
			app := appuser.NewUserApp(userTestConfig(), f.userRepo, f.redisRepo)

			got, err := app.Register(context.Background(), tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				assertUserErrCode(t, err, tt.errCode)
				return
			}
			if got.Email != "test@example.com" {
				t.Fatalf("email = %s, want test@example.com", got.Email)
			}
		})
	}
}

func TestUserApp_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt.GenerateFromPassword() error = %v", err)
	}
	storedUser := &model.UserEntity{
		ID:           1,
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: string(hash),
	}

	type fields struct {
		userRepo  *usermocks.UserRepository
		redisRepo *redismocks.RedisRepository
	}

	tests := []struct {
		name     string
		req      *model.LoginRequest
		mockCall func(f fields)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success",
			req:  &model.LoginRequest{Email: "test@example.com", Password: "secret123"},
			mockCall: func(f fields) {
				f.userRepo.On("GetByEmail", mock.Anything, "test@example.com").Return(storedUser, nil).Once()
				f.redisRepo.On("SetSession", mock.Anything, mock.AnythingOfType("string"), uint64(1), time.Hour).Return(nil).Once()
			},
		},
		{
			name: "success: mixed-case email matches the stored account",
			req:  &model.LoginRequest{Email: "Test@Example.COM", Password: "secret123"},
			mockCall: func(f fields) {
				f.userRepo.On("GetByEmail", mock.Anything, "test@example.com").Return(storedUser, nil).Once()
				f.redisRepo.On("SetSession", mock.Anything, mock.AnythingOfType("string"), uint64(1), time.Hour).Return(nil).Once()
			},
		},
		{
			name: "error: wrong password",
			req:  &model.LoginRequest{Email: "test@example.com", Password: "wrong"},
			mockCall: func(f fields) {
				f.userRepo.On("GetByEmail", mock.Anything, "test@example.com").Return(storedUser, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrInvalidPassword,
		},
		{
			name: "error: unknown email",
			req:  &model.LoginRequest{Email: "nobody@example.com", Password: "secret123"},
			mockCall: func(f fields) {
				f.userRepo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := fields{
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			}
			if tt.mockCall != nil {
				tt.mockCall(f)
			}
			app := appuser.NewUserApp(userTestConfig(), f.userRepo, f.redisRepo)

			got, err := app.Login(context.Background(), tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Login() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				assertUserErrCode(t, err, tt.errCode)
				return
			}
			if got.Token == "" {
				t.Fatal("token should not be empty")
			}
		})
	}
}

func TestUserApp_ValidateToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt.GenerateFromPassword() error = %v", err)
	}
	storedUser := &model.UserEntity{
		ID:           1,
		Email:        "test@example.com",
		PasswordHash: string(hash),
	}

	t.Run("token issued by Login validates against the stored session", func(t *testing.T) {
		userRepo := usermocks.NewUserRepository(t)
		redisRepo := redismocks.NewRedisRepository(t)

		var jti string
		userRepo.On("GetByEmail", mock.Anything, "test@example.com").Return(storedUser, nil).Once()
		redisRepo.On("SetSession", mock.Anything, mock.MatchedBy(func(id string) bool {
			jti = id
			return id != ""
		}), uint64(1), time.Hour).Return(nil).Once()

		app := appuser.NewUserApp(userTestConfig(), userRepo, redisRepo)
		loginResp, err := app.Login(context.Background(), &model.LoginRequest{
			Email:    "test@example.com",
			Password: "secret123",
		})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		redisRepo.On("GetSession", mock.Anything, mock.MatchedBy(func(id string) bool {
			return id == jti
		})).Return(uint64(1), nil).Once()

		userID, err := app.ValidateToken(context.Background(), loginResp.Token)
		if err != nil {
			t.Fatalf("ValidateToken() error = %v", err)
		}
		if userID != 1 {
			t.Fatalf("user id = %d, want 1", userID)
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		userRepo := usermocks.NewUserRepository(t)
		redisRepo := redismocks.NewRedisRepository(t)

		app := appuser.NewUserApp(userTestConfig(), userRepo, redisRepo)
		if _, err := app.ValidateToken(context.Background(), "not-a-token"); err == nil {
			t.Fatal("ValidateToken() error = nil, want error")
		}
	})

	t.Run("session user mismatch rejected", func(t *testing.T) {
		userRepo := usermocks.NewUserRepository(t)
		redisRepo := redismocks.NewRedisRepository(t)

		userRepo.On("GetByEmail", mock.Anything, "test@example.com").Return(storedUser, nil).Once()
		redisRepo.On("SetSession", mock.Anything, mock.AnythingOfType("string"), uint64(1), time.Hour).Return(nil).Once()

		app := appuser.NewUserApp(userTestConfig(), userRepo, redisRepo)
		loginResp, err := app.Login(context.Background(), &model.LoginRequest{
			Email:    "test@example.com",
			Password: "secret123",
		})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		redisRepo.On("GetSession", mock.Anything, mock.AnythingOfType("string")).Return(uint64(99), nil).Once()

		if _, err := app.ValidateToken(context.Background(), loginResp.Token); err == nil {
			t.Fatal("ValidateToken() error = nil, want error")
		}
	})
}

func TestUserApp_GetProfile(t *testing.T) {
	tests := []struct {
		name        string
		userID      uint64
		mockCall    func(repo *usermocks.UserRepository)
		wantAddress bool
		wantErr     bool
		errCode     constant.ErrorType
	}{
		{
			name:   "success: saved address returned with account name as recipient",
			userID: 1,
			mockCall: func(repo *usermocks.UserRepository) {
				repo.On("GetByID", mock.Anything, uint64(1)).Return(&model.UserEntity{
					ID: 1, Name: "Test User", Email: "test@example.com", Phone: "081234567890",
					Street: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701", Country: "US",
				}, nil).Once()
			},
			wantAddress: true,
		},
		{
			name:   "success: no saved address",
			userID: 2,
			mockCall: func(repo *usermocks.UserRepository) {
				repo.On("GetByID", mock.Anything, uint64(2)).Return(&model.UserEntity{
					ID: 2, Name: "Other User", Email: "other@example.com",
				}, nil).Once()
			},
		},
		{
			name:   "error: unknown user",
			userID: 3,
			mockCall: func(repo *usermocks.UserRepository) {
				repo.On("GetByID", mock.Anything, uint64(3)).Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			userRepo := usermocks.NewUserRepository(t)
			redisRepo := redismocks.NewRedisRepository(t)
			if tt.mockCall != nil {
				tt.mockCall(userRepo)
			}
			app := appuser.NewUserApp(userTestConfig(), userRepo, redisRepo)

			got, err := app.GetProfile(context.Background(), tt.userID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetProfile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				assertUserErrCode(t, err, tt.errCode)
				return
			}
			if tt.wantAddress {
				if got.Address == nil {
					t.Fatal("address should be set")
				}
				if got.Address.FullName != got.Name {
					t.Fatalf("address recipient = %s, want %s", got.Address.FullName, got.Name)
				}
				return
			}
			if got.Address != nil {
				t.Fatalf("address = %+v, want nil", got.Address)
			}
		})
	}
}
