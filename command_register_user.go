package accounts

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

const welcomeNotification = "Welcome to ShipNLogic :)"

type RegisterUserMessage struct {
	FullName            string `json:"full_name"`
	Email               string `json:"email"`
	ExceptionAlertEmail string `json:"exception_alert_email"`
	Password            string `json:"password"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate will run validation rules
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&e.ExceptionAlertEmail, is.Email),
		validation.Field(&e.Password, validation.Required, validation.Length(8, 100)),
	)
}

type RegisterUserHandler struct {
	repo     RepositoryManager
	notifier Notifier
	logger   Logger
}

// NewRegisterUserHandler creates a handler with sane defaults.
func NewRegisterUserHandler(repo RepositoryManager) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo:     repo,
		notifier: noopNotifier{},
		logger:   defLogger{},
	}
}

// WithNotifier sets the notifier used to deliver the welcome message.
func (h *RegisterUserHandler) WithNotifier(n Notifier) *RegisterUserHandler {
	h.notifier = normalizeNotifier(n)
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload")
	}

	if _, err := h.repo.Users().GetByEmail(ctx, event.Email); err == nil {
		return nil, goerrors.New("email already registered", goerrors.CategoryConflict).
			WithTextCode("EMAIL_TAKEN").
			WithMetadata(map[string]any{"email": event.Email})
	} else if !IsNotFound(err) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not check email availability")
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		FullName:            event.FullName,
		Email:               event.Email,
		ExceptionAlertEmail: event.ExceptionAlertEmail,
		PasswordHash:        hash,
	}

	if user, err = h.repo.Users().Create(ctx, user); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
	}

	// A user without a configuration row is half-registered; undo the user
	// insert rather than leave the account in that state.
	if _, err := h.repo.Configurations().Create(ctx, KindUser, user.ID); err != nil {
		if delErr := h.repo.Users().Delete(ctx, user.ID); delErr != nil {
			h.logger.Error("could not roll back user %d after configuration failure: %v", user.ID, delErr)
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user configuration")
	}

	if err := h.notifier.Notify(ctx, KindUser, user.ID, welcomeNotification); err != nil {
		h.logger.Warn("welcome notification failed for user %d: %v", user.ID, err)
	}

	return user, nil
}
