package accounts

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

type RegisterAdminMessage struct {
	FullName    string          `json:"full_name"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phone_number"`
	Gender      Gender          `json:"gender"`
	Permission  AdminPermission `json:"permission"`
	Password    string          `json:"password"`
	AddedBy     int64           `json:"added_by"`
}

func (e RegisterAdminMessage) Type() string { return "admin.register" }

// Validate will run validation rules
func (e RegisterAdminMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&e.PhoneNumber, validation.Required, validation.Length(7, 20), phoneRule),
		validation.Field(&e.Gender, validation.Required, validation.In(GenderMale, GenderFemale, GenderOther)),
		validation.Field(&e.Permission, validation.In(PermissionAdmin, PermissionSuperAdmin)),
		validation.Field(&e.Password, validation.Required, validation.Length(8, 100)),
	)
}

type RegisterAdminHandler struct {
	repo     RepositoryManager
	notifier Notifier
	logger   Logger
}

// NewRegisterAdminHandler creates a handler with sane defaults.
func NewRegisterAdminHandler(repo RepositoryManager) *RegisterAdminHandler {
	return &RegisterAdminHandler{
		repo:     repo,
		notifier: noopNotifier{},
		logger:   defLogger{},
	}
}

func (h *RegisterAdminHandler) WithNotifier(n Notifier) *RegisterAdminHandler {
	h.notifier = normalizeNotifier(n)
	return h
}

func (h *RegisterAdminHandler) WithLogger(logger Logger) *RegisterAdminHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegisterAdminHandler) Execute(ctx context.Context, event RegisterAdminMessage) (*Admin, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during admin registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterAdminHandler) execute(ctx context.Context, event RegisterAdminMessage) (*Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload")
	}

	if _, err := h.repo.Admins().GetByEmail(ctx, event.Email); err == nil {
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

	admin := &Admin{
		FullName:     event.FullName,
		Email:        event.Email,
		PhoneNumber:  event.PhoneNumber,
		Gender:       event.Gender,
		Permission:   event.Permission,
		AddedBy:      event.AddedBy,
		PasswordHash: hash,
	}

	if admin, err = h.repo.Admins().Create(ctx, admin); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryConflict, "could not create admin")
	}

	if _, err := h.repo.Configurations().Create(ctx, KindAdmin, admin.ID); err != nil {
		if delErr := h.repo.Admins().Delete(ctx, admin.ID); delErr != nil {
			h.logger.Error("could not roll back admin %d after configuration failure: %v", admin.ID, delErr)
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create admin configuration")
	}

	if err := h.notifier.Notify(ctx, KindAdmin, admin.ID, welcomeNotification); err != nil {
		h.logger.Warn("welcome notification failed for admin %d: %v", admin.ID, err)
	}

	return admin, nil
}
