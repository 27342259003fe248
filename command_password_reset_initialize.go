package accounts

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

type InitializePasswordResetMessage struct {
	Email      string `json:"email"`
	OnResponse func(resp *InitializePasswordResetResponse)
}

func (e InitializePasswordResetMessage) Type() string { return "user.password_reset" }

// Validate will run validation rules
func (e InitializePasswordResetMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, is.Email),
	)
}

type InitializePasswordResetResponse struct {
	Reset   *PasswordResetToken
	Success bool
}

type InitializePasswordResetHandler struct {
	repo     RepositoryManager
	notifier Notifier
	logger   Logger
}

// NewInitializePasswordResetHandler creates a handler with sane defaults.
func NewInitializePasswordResetHandler(repo RepositoryManager) *InitializePasswordResetHandler {
	return &InitializePasswordResetHandler{
		repo:     repo,
		notifier: noopNotifier{},
		logger:   defLogger{},
	}
}

func (h *InitializePasswordResetHandler) WithNotifier(n Notifier) *InitializePasswordResetHandler {
	h.notifier = normalizeNotifier(n)
	return h
}

func (h *InitializePasswordResetHandler) WithLogger(logger Logger) *InitializePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	resp := &InitializePasswordResetResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := event.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password reset payload")
	}

	user, err := h.repo.Users().GetByEmail(ctx, event.Email)
	if err != nil {
		// An unknown email reports the same success as a known one so the
		// endpoint cannot be used to enumerate accounts.
		if IsNotFound(err) {
			resp.Success = true
			if event.OnResponse != nil {
				event.OnResponse(resp)
			}
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
	}

	reset, err := h.repo.PasswordResets().Create(ctx, user.ID)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to initialize password reset")
	}

	if err := h.notifier.Notify(ctx, KindUser, user.ID, "A password reset was requested for your account."); err != nil {
		h.logger.Warn("password reset notification failed for user %d: %v", user.ID, err)
	}

	resp.Reset = reset
	resp.Success = true
	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
