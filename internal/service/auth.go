// Package service holds the business rules for accounts and the service taxonomy.
//
//	AuthHandler (HTTP) → AuthService (rules) → UserRepository / ProviderRepository (DB)
//	                                         ↘ PasswordService (bcrypt)
//	                                         ↘ TokenService (JWT)
//
// AuthService never touches cookies or HTTP; it returns the signed token and
// the handler decides how to deliver it.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/taskmate/internal/apperror"
	"github.com/sakif/taskmate/internal/auth"
	"github.com/sakif/taskmate/internal/model"
	"github.com/sakif/taskmate/internal/repository"
)

// AuthService handles registration, login and session lookup.
type AuthService struct {
	users     repository.UserRepository
	providers repository.ProviderRepository
	tx        repository.TxManager
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	validate  *validator.Validate
	logger    *slog.Logger

	// dummyHash is compared against on unknown emails so a failed login
	// costs one bcrypt comparison either way.
	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates an AuthService. users and providers serve reads
// outside a transaction; provider registration goes through tx.
func NewAuthService(
	users repository.UserRepository,
	providers repository.ProviderRepository,
	tx repository.TxManager,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		providers: providers,
		tx:        tx,
		tokens:    tokens,
		passwords: passwords,
		validate:  newValidator(),
		logger:    logger,
	}
}

// AuthResult is returned by registration and login. Profile is only set by
// RegisterProvider.
type AuthResult struct {
	User    *model.User
	Profile *model.ProviderProfile
	Token   string
}

type RegisterCustomerInput struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterProviderInput struct {
	Name               string `json:"name"               validate:"required"`
	Email              string `json:"email"              validate:"required"`
	Password           string `json:"password"           validate:"required"`
	ServiceCategory    int64  `json:"serviceCategory"    validate:"required"`
	ServiceSubCategory int64  `json:"serviceSubCategory" validate:"required"`

	YearsOfExperience       *int    `json:"yearsOfExperience" validate:"omitempty,gte=0"`
	ServiceDescription      *string `json:"serviceDescription"`
	ServiceAddress          *string `json:"serviceAddress"`
	WorkingDays             *string `json:"workingDays"   validate:"omitempty,oneof=weekdays weekends all"`
	PreferredTime           *string `json:"preferredTime" validate:"omitempty,oneof=morning afternoon evening flexible"`
	ServiceCharge           *string `json:"serviceCharge"`
	ConsultationIncluded    bool    `json:"consultationIncluded"`
	FollowupSupportIncluded bool    `json:"followupSupportIncluded"`
	WarrantyIncluded        bool    `json:"warrantyIncluded"`
	ContactNumber           *string `json:"contactNumber"`
}

type LoginInput struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterCustomer creates a customer account and issues a session token.
//
// The EmailExists pre-check only saves a bcrypt round on the common
// duplicate case. The UNIQUE constraint behind CreateUser is what actually
// prevents two accounts with one email.
func (s *AuthService) RegisterCustomer(ctx context.Context, in RegisterCustomerInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	if err := checkPasswordLength(in.Password); err != nil {
		return nil, err
	}

	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: checking email: %w", err)
	}
	if exists {
		return nil, apperror.UserExists()
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         model.RoleCustomer,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating customer: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("role", string(user.Role)),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// RegisterProvider creates a provider account and its profile in one
// transaction. Either both rows exist afterwards or neither does.
func (s *AuthService) RegisterProvider(ctx context.Context, in RegisterProviderInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	if err := checkPasswordLength(in.Password); err != nil {
		return nil, err
	}

	// Hash before opening the transaction so the connection is not held
	// for the duration of a bcrypt round.
	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         model.RoleProvider,
	}
	profile := &model.ProviderProfile{
		YearsOfExperience:       in.YearsOfExperience,
		ServiceCategoryID:       in.ServiceCategory,
		ServiceSubcategoryID:    in.ServiceSubCategory,
		ServiceDescription:      in.ServiceDescription,
		ServiceAddress:          in.ServiceAddress,
		WorkingDays:             (*model.WorkingDays)(in.WorkingDays),
		PreferredTime:           (*model.PreferredTime)(in.PreferredTime),
		ServiceCharge:           in.ServiceCharge,
		ConsultationIncluded:    in.ConsultationIncluded,
		FollowupSupportIncluded: in.FollowupSupportIncluded,
		WarrantyIncluded:        in.WarrantyIncluded,
		ContactNumber:           in.ContactNumber,
	}

	err = s.tx.Execute(ctx, func(repos repository.RepositoryFactory) error {
		exists, err := repos.Users().EmailExists(ctx, user.Email)
		if err != nil {
			return fmt.Errorf("checking email: %w", err)
		}
		if exists {
			return apperror.UserExists()
		}

		ok, err := repos.Taxonomy().SubcategoryInCategory(ctx, profile.ServiceCategoryID, profile.ServiceSubcategoryID)
		if err != nil {
			return fmt.Errorf("checking taxonomy: %w", err)
		}
		if !ok {
			return apperror.ValidationFailed("serviceSubCategory", "Invalid service category or subcategory")
		}

		if err := repos.Users().CreateUser(ctx, user); err != nil {
			return fmt.Errorf("creating provider: %w", err)
		}

		profile.UserID = user.ID
		if err := repos.Providers().CreateProviderProfile(ctx, profile); err != nil {
			return fmt.Errorf("creating provider profile: %w", err)
		}
		return nil
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, fmt.Errorf("service/auth: registering provider: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("role", string(user.Role)),
		slog.Int64("providerID", profile.ID),
	)

	return &AuthResult{User: user, Profile: profile, Token: token}, nil
}

// Login checks the credentials and issues a session token.
//
// An unknown email and a wrong password return the same
// apperror.InvalidCredentials so the response does not reveal which
// accounts exist.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)

	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	user, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			_ = s.passwords.Verify(s.fallbackHash(), in.Password)
			s.logger.Warn("login failed", slog.String("reason", "unknown email"))
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("login failed",
				slog.String("reason", "wrong password"),
				slog.Int64("userID", user.ID),
			)
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/auth: verifying password for user %d: %w", user.ID, err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.Int64("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// fallbackHash returns a valid bcrypt hash at the service's cost, computed
// once on first use.
func (s *AuthService) fallbackHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.passwords.Hash("taskmate-fallback-password")
		if err != nil {
			s.logger.Error("computing fallback hash", slog.String("error", err.Error()))
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

func checkPasswordLength(password string) error {
	if len(password) > auth.MaxPasswordBytes {
		return apperror.ValidationFailed("password", fmt.Sprintf("Password must be %d bytes or fewer", auth.MaxPasswordBytes))
	}
	return nil
}
