// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"enroll/config"
	deliverycontext "enroll/internal/delivery/context"
	"enroll/internal/domain/entity"
	domainerrors "enroll/internal/domain/errors"
	"enroll/internal/domain/repository"
	"enroll/internal/domain/service"
	"enroll/internal/domain/signup"
	"enroll/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	validator    *signup.Validator
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	minPasswordLength := 0
	if params.Config != nil && params.Config.Auth != nil {
		minPasswordLength = params.Config.Auth.MinPasswordLength
	}

	return &userService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		validator:    signup.NewValidator(minPasswordLength),
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ValidateStep checks a single wizard step. Each call is independent: no
// partial registration state is kept server-side, the client re-submits the
// full draft at final registration time.
func (srv *userService) ValidateStep(ctx context.Context, input *usecase.ValidateStepInput) error {
	payload := signup.StepPayload{
		Name:            input.Name,
		Email:           input.Email,
		Phone:           input.Phone,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
		AgreeToTerms:    input.AgreeToTerms,
	}

	if err := srv.validator.ValidateStep(input.Step, payload); err != nil {
		srv.log(ctx).Debug("Step validation rejected", slog.Int("step", input.Step), slog.Any("error", err))

		return errors.WithStack(err)
	}

	// The identity step additionally checks the store for a duplicate email so
	// the client can surface the conflict before the user finishes the form.
	// The unique index enforced at insert time remains the real gate; see Register.
	if input.Step == signup.StepIdentity {
		taken, err := srv.userRepo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			srv.log(ctx).Error("Failed to check email existence", slog.String("email", input.Email), slog.Any("error", err))

			return errors.Wrap(err, "failed to check email existence")
		}
		if taken {
			return domainerrors.ErrEmailTaken.WrapMessage("step validation failed")
		}
	}

	return nil
}

// Register orchestrates the complete account creation process. The full draft
// is re-validated against every step rule before any side effect, so a client
// that skipped the per-step calls gains nothing.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	payload := signup.StepPayload{
		Name:            input.Name,
		Email:           input.Email,
		Phone:           input.Phone,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
	}
	if err := srv.validator.ValidateRegistration(payload); err != nil {
		srv.log(ctx).Debug("Registration rejected by validation", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.WithStack(err)
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password during registration")
	}

	var registeredUser *entity.User

	// The existence check and the insert run in a single transaction; the
	// unique index on email is still the final arbiter between two concurrent
	// registrations carrying the same address.
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		taken, err := userRepo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return errors.Wrap(err, "failed to check email existence")
		}
		if taken {
			return domainerrors.ErrEmailTaken.WrapMessage("registration failed")
		}

		newUser := &entity.User{
			Name:         input.Name,
			Email:        input.Email,
			Phone:        input.Phone,
			PasswordHash: hashedPassword,
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				return domainerrors.ErrEmailTaken.WrapMessage("registration failed")
			}

			return errors.WithStack(err)
		}
		registeredUser = newUser

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to execute registration transaction", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	srv.log(ctx).Debug("User registered successfully", slog.Any("userID", registeredUser.ID))

	return &usecase.RegisterOutput{User: registeredUser}, nil
}

// Login orchestrates the user login process.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	if input.Email == "" || input.Password == "" {
		return nil, domainerrors.ErrMissingFields.WrapMessage("login failed")
	}

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

			return nil, domainerrors.ErrUserNotFound.WrapMessage("login failed")
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	token, err := srv.tokenService.Issue(user.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to issue session token", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue session token")
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{
		Token: token,
		User:  user,
	}, nil
}

// GetProfile returns the account bound to an authenticated session.
func (srv *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("profile lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return user, nil
}
