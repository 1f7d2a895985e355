package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/wb-go/wbf/zlog"
	"golang.org/x/crypto/bcrypt"

	"github.com/olekhv/shoplift/internal/domain"
	"github.com/olekhv/shoplift/internal/infrastructure/processor"
	"github.com/olekhv/shoplift/internal/infrastructure/token"
)

const minPasswordLen = 6

// dummyHash takes a bcrypt compare when login hits an unknown email, so
// the unknown-email and wrong-password paths cost the same and return
// the same error.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

type AccountUsecase struct {
	repo     domain.UserRepository
	variants *processor.VariantProcessor
	tokens   *token.Manager
	events   domain.EventPublisher
	cost     int
}

func NewAccountUsecase(
	repo domain.UserRepository,
	variants *processor.VariantProcessor,
	tokens *token.Manager,
	events domain.EventPublisher,
	bcryptCost int,
) *AccountUsecase {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountUsecase{
		repo:     repo,
		variants: variants,
		tokens:   tokens,
		events:   events,
		cost:     bcryptCost,
	}
}

func (u *AccountUsecase) Register(ctx context.Context, input domain.RegisterInput) (*domain.User, error) {
	verr := domain.NewValidationError()
	if strings.TrimSpace(input.Name) == "" {
		verr.Add("name", "The name field is required.")
	}
	if strings.TrimSpace(input.LastName) == "" {
		verr.Add("lastName", "The lastName field is required.")
	}
	if strings.TrimSpace(input.Phone) == "" {
		verr.Add("phone", "The phone field is required.")
	}
	if strings.TrimSpace(input.Email) == "" {
		verr.Add("email", "The email field is required.")
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		verr.Add("email", "The email must be a valid email address.")
	}
	if len(input.Password) < minPasswordLen {
		verr.Add("password", fmt.Sprintf("The password must be at least %d characters.", minPasswordLen))
	} else if input.Password != input.PasswordConfirmation {
		verr.Add("password", "The password confirmation does not match.")
	}
	if len(input.Image) == 0 {
		verr.Add("image", "The image field is required.")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	// Uniqueness is part of validation: reject before any file is
	// written.
	if _, err := u.repo.FindByEmail(ctx, input.Email); err == nil {
		verr.Add("email", "The email has already been taken.")
		return nil, verr
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	baseName := u.variants.NewBaseName()
	if _, err := u.variants.Generate(ctx, input.Image, baseName); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), u.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         input.Name,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		Image:        baseName,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := u.repo.Create(ctx, user); err != nil {
		zlog.Logger.Error().Err(err).Str("base_name", baseName).Msg("user insert failed after files were written")
		_ = u.events.Publish(ctx, domain.LifecycleEvent{
			Type:       domain.EventDerivativesOrphaned,
			Entity:     "user",
			BaseName:   baseName,
			Detail:     err.Error(),
			OccurredAt: time.Now(),
		})
		return nil, fmt.Errorf("create user: %w", err)
	}

	_ = u.events.Publish(ctx, domain.LifecycleEvent{
		Type:       domain.EventDerivativesCreated,
		Entity:     "user",
		EntityID:   user.ID,
		BaseName:   baseName,
		OccurredAt: time.Now(),
	})

	return user, nil
}

// Login returns a bearer token. The error for an unknown email and a
// wrong password is the same, and both paths run a bcrypt compare.
func (u *AccountUsecase) Login(ctx context.Context, email, password string) (string, error) {
	verr := domain.NewValidationError()
	if strings.TrimSpace(email) == "" {
		verr.Add("email", "The email field is required.")
	} else if _, err := mail.ParseAddress(email); err != nil {
		verr.Add("email", "The email must be a valid email address.")
	}
	if len(password) < minPasswordLen {
		verr.Add("password", fmt.Sprintf("The password must be at least %d characters.", minPasswordLen))
	}
	if verr.HasErrors() {
		return "", verr
	}

	user, err := u.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	tokenStr, err := u.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	zlog.Logger.Info().Int64("user_id", user.ID).Msg("user logged in")
	return tokenStr, nil
}

func (u *AccountUsecase) List(ctx context.Context) ([]*domain.User, error) {
	return u.repo.FindAll(ctx)
}
