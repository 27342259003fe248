package accounts

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// PrincipalKind discriminates which account table a principal lives in.
type PrincipalKind string

const (
	KindUser  PrincipalKind = "USER"
	KindAdmin PrincipalKind = "ADMIN"
)

// ParseKind validates a kind string coming off a token subject.
func ParseKind(s string) (PrincipalKind, bool) {
	switch PrincipalKind(s) {
	case KindUser:
		return KindUser, true
	case KindAdmin:
		return KindAdmin, true
	}
	return "", false
}

// AdminPermission is the admin's permission level.
type AdminPermission = string

const (
	PermissionAdmin      AdminPermission = "ADMIN"
	PermissionSuperAdmin AdminPermission = "SUPER_ADMIN"
)

// Gender values carried on admin records.
type Gender = string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// DefaultProfilePicture is assigned to new accounts until they upload one.
const DefaultProfilePicture = "/default_profile.jpg"

// User is the customer-facing account model.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID                  int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	ProfilePictureURL   string     `bun:"profile_picture_url,notnull" json:"profile_picture_url,omitempty"`
	FullName            string     `bun:"full_name,notnull" json:"full_name,omitempty"`
	Email               string     `bun:"email,notnull,unique" json:"email,omitempty"`
	ExceptionAlertEmail string     `bun:"exception_alert_email" json:"exception_alert_email,omitempty"`
	PasswordHash        string     `bun:"password_hash,notnull" json:"-"`
	IsActive            bool       `bun:"is_active" json:"is_active"`
	IsVerified          bool       `bun:"is_verified" json:"is_verified"`
	LastLogin           *time.Time `bun:"last_login,nullzero" json:"last_login,omitempty"`
	CreatedAt           time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Principal returns the auth-core projection of the user.
func (u *User) Principal() *Principal {
	return &Principal{
		Kind:         KindUser,
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt,
	}
}

// Admin is the back-office account model.
type Admin struct {
	bun.BaseModel `bun:"table:admins,alias:adm"`

	ID                int64           `bun:"id,pk,autoincrement" json:"id,omitempty"`
	ProfilePictureURL string          `bun:"profile_picture_url,notnull" json:"profile_picture_url,omitempty"`
	FullName          string          `bun:"full_name,notnull" json:"full_name,omitempty"`
	Email             string          `bun:"email,notnull,unique" json:"email,omitempty"`
	PhoneNumber       string          `bun:"phone_number,notnull" json:"phone_number,omitempty"`
	PasswordHash      string          `bun:"password_hash,notnull" json:"-"`
	IsActive          bool            `bun:"is_active" json:"is_active"`
	AddedBy           int64           `bun:"added_by" json:"added_by,omitempty"`
	Gender            Gender          `bun:"gender,notnull" json:"gender,omitempty"`
	Permission        AdminPermission `bun:"permission,notnull" json:"permission,omitempty"`
	LastLogin         *time.Time      `bun:"last_login,nullzero" json:"last_login,omitempty"`
	CreatedAt         time.Time       `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Principal returns the auth-core projection of the admin.
func (a *Admin) Principal() *Principal {
	return &Principal{
		Kind:         KindAdmin,
		ID:           a.ID,
		Email:        a.Email,
		FullName:     a.FullName,
		PasswordHash: a.PasswordHash,
		IsActive:     a.IsActive,
		Permission:   a.Permission,
		LastLogin:    a.LastLogin,
		CreatedAt:    a.CreatedAt,
	}
}

// Principal is the kind-agnostic account view the auth core operates on.
// Permission is only set for admins.
type Principal struct {
	Kind         PrincipalKind `json:"kind"`
	ID           int64         `json:"id"`
	Email        string        `json:"email"`
	FullName     string        `json:"full_name"`
	PasswordHash string        `json:"-"`
	IsActive     bool          `json:"is_active"`
	Permission   AdminPermission `json:"permission,omitempty"`
	LastLogin    *time.Time    `json:"last_login,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Subject renders the token subject, e.g. "USER-42".
func (p *Principal) Subject() string {
	return FormatSubject(p.Kind, p.ID)
}

// FormatSubject renders a token subject from its parts.
func FormatSubject(kind PrincipalKind, id int64) string {
	return fmt.Sprintf("%s-%d", kind, id)
}

// ParseSubject splits a token subject on the first dash and validates both
// halves. The kind prefix is checked, not just discarded: a subject minted
// for one table never resolves against the other.
func ParseSubject(subject string) (PrincipalKind, int64, error) {
	prefix, rest, found := strings.Cut(subject, "-")
	if !found {
		return "", 0, ErrInvalidToken
	}

	kind, ok := ParseKind(prefix)
	if !ok {
		return "", 0, ErrInvalidToken
	}

	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, ErrInvalidToken
	}

	return kind, id, nil
}

// RefreshToken is the persisted revocation record for an issued refresh
// token. Rows accumulate per principal (one per login/device) and are only
// removed in bulk on logout.
type RefreshToken struct {
	bun.BaseModel `bun:"table:refresh_tokens,alias:rft"`

	ID            int64         `bun:"id,pk,autoincrement" json:"id,omitempty"`
	PrincipalKind PrincipalKind `bun:"principal_kind,notnull" json:"principal_kind,omitempty"`
	PrincipalID   int64         `bun:"principal_id,notnull" json:"principal_id,omitempty"`
	Token         string        `bun:"token,notnull" json:"token,omitempty"`
	CreatedAt     time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// PasswordResetToken is a single-use credential for the reset flow.
type PasswordResetToken struct {
	bun.BaseModel `bun:"table:password_reset_tokens,alias:prt"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id,omitempty"`
	UserID    int64     `bun:"user_id,notnull" json:"user_id,omitempty"`
	Token     string    `bun:"token,notnull,unique" json:"token,omitempty"`
	IsUsed    bool      `bun:"is_used" json:"is_used"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Notification is an in-app message addressed to a principal.
type Notification struct {
	bun.BaseModel `bun:"table:notifications,alias:ntf"`

	ID            int64         `bun:"id,pk,autoincrement" json:"id,omitempty"`
	PrincipalKind PrincipalKind `bun:"principal_kind,notnull" json:"principal_kind,omitempty"`
	PrincipalID   int64         `bun:"principal_id,notnull" json:"principal_id,omitempty"`
	Content       string        `bun:"content,notnull" json:"content,omitempty"`
	IsRead        bool          `bun:"is_read" json:"is_read"`
	CreatedAt     time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Configuration holds per-principal notification preferences. One row per
// principal, created during registration.
type Configuration struct {
	bun.BaseModel `bun:"table:configurations,alias:cfg"`

	ID                int64         `bun:"id,pk,autoincrement" json:"id,omitempty"`
	PrincipalKind     PrincipalKind `bun:"principal_kind,notnull" json:"principal_kind,omitempty"`
	PrincipalID       int64         `bun:"principal_id,notnull" json:"principal_id,omitempty"`
	NotificationEmail bool          `bun:"notification_email" json:"notification_email"`
	NotificationInapp bool          `bun:"notification_inapp" json:"notification_inapp"`
}

// NewsletterSubscriber is a standalone signup record.
type NewsletterSubscriber struct {
	bun.BaseModel `bun:"table:newsletter_subscribers,alias:nws"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Email     string    `bun:"email,notnull,unique" json:"email,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Company is the logistics company attached to a user account.
type Company struct {
	bun.BaseModel `bun:"table:companies,alias:cmp"`

	ID                      int64     `bun:"id,pk,autoincrement" json:"id,omitempty"`
	UserID                  int64     `bun:"user_id,notnull" json:"user_id,omitempty"`
	Name                    string    `bun:"name,notnull" json:"name,omitempty"`
	RegistrationNumber      string    `bun:"registration_number,notnull" json:"registration_number,omitempty"`
	Email                   string    `bun:"email,notnull" json:"email,omitempty"`
	Phone                   string    `bun:"phone,notnull" json:"phone,omitempty"`
	Address                 string    `bun:"address" json:"address,omitempty"`
	TaxIdentificationNumber string    `bun:"tax_identification_number,notnull" json:"tax_identification_number,omitempty"`
	IsVerified              bool      `bun:"is_verified" json:"is_verified"`
	PermitImageURL          string    `bun:"permit_image_url" json:"permit_image_url,omitempty"`
	LicenseImageURL         string    `bun:"license_image_url" json:"license_image_url,omitempty"`
	CreatedAt               time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// SupportRequest is a help-desk ticket raised by a user.
type SupportRequest struct {
	bun.BaseModel `bun:"table:support_requests,alias:spt"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id,omitempty"`
	UserID    int64     `bun:"user_id,notnull" json:"user_id,omitempty"`
	Subject   string    `bun:"subject,notnull" json:"subject,omitempty"`
	Message   string    `bun:"message,notnull" json:"message,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
