package accounts

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// resetTokenValidity is how long a minted reset token stays usable.
const resetTokenValidity = "24h"

type FinalizePasswordResetMessage struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (e FinalizePasswordResetMessage) Type() string { return "user.password_reset_finalize" }

// Validate will run validation rules
func (e FinalizePasswordResetMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Token, validation.Required),
		validation.Field(&e.Password, validation.Required, validation.Length(8, 100)),
	)
}

type FinalizePasswordResetHandler struct {
	repo     RepositoryManager
	notifier Notifier
	logger   Logger
}

// NewFinalizePasswordResetHandler creates a handler with sane defaults.
func NewFinalizePasswordResetHandler(repo RepositoryManager) *FinalizePasswordResetHandler {
	return &FinalizePasswordResetHandler{
		repo:     repo,
		notifier: noopNotifier{},
		logger:   defLogger{},
	}
}

func (h *FinalizePasswordResetHandler) WithNotifier(n Notifier) *FinalizePasswordResetHandler {
	h.notifier = normalizeNotifier(n)
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *FinalizePasswordResetHandler) WithLogger(logger Logger) *FinalizePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *FinalizePasswordResetHandler) Execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset finalization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *FinalizePasswordResetHandler) execute(ctx context.Context, event FinalizePasswordResetMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password reset payload")
	}

	reset, err := h.repo.PasswordResets().GetByToken(ctx, event.Token)
	if err != nil {
		if IsNotFound(err) {
			return goerrors.New("invalid or expired password reset token", goerrors.CategoryNotFound).
				WithCode(goerrors.CodeNotFound)
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not retrieve password reset request")
	}

	if reset.IsUsed {
		return ErrResetTokenUsed
	}

	expired, err := IsOutsideThresholdPeriod(reset.CreatedAt, resetTokenValidity)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check token expiration period")
	}

	if expired {
		return ErrResetTokenExpired
	}

	passwordHash, err := HashPassword(event.Password)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid new password provided")
	}

	if err := h.repo.Users().SetPasswordHash(ctx, reset.UserID, passwordHash); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user password")
	}

	if err := h.repo.PasswordResets().MarkUsed(ctx, reset.ID); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update password reset status")
	}

	// Every other session becomes suspect once the password was reset.
	if _, err := h.repo.RefreshTokens().DeleteAllForPrincipal(ctx, KindUser, reset.UserID); err != nil {
		h.logger.Warn("could not revoke refresh tokens for user %d after reset: %v", reset.UserID, err)
	}

	if err := h.notifier.Notify(ctx, KindUser, reset.UserID, "Your password has been reset."); err != nil {
		h.logger.Warn("password reset notification failed for user %d: %v", reset.UserID, err)
	}

	return nil
}
