package accounts

// Patch types carry optional field updates. A nil pointer means the field is
// untouched. Apply copies every set field onto the record and fails with
// ErrEmptyPatch when nothing was set, so callers never issue no-op updates.

// UserPatch updates the mutable profile fields of a user.
type UserPatch struct {
	ProfilePictureURL   *string `json:"profile_picture_url,omitempty"`
	FullName            *string `json:"full_name,omitempty"`
	ExceptionAlertEmail *string `json:"exception_alert_email,omitempty"`
}

func (p UserPatch) Apply(record *User) error {
	dirty := false
	if p.ProfilePictureURL != nil {
		record.ProfilePictureURL = *p.ProfilePictureURL
		dirty = true
	}
	if p.FullName != nil {
		record.FullName = *p.FullName
		dirty = true
	}
	if p.ExceptionAlertEmail != nil {
		record.ExceptionAlertEmail = *p.ExceptionAlertEmail
		dirty = true
	}
	if !dirty {
		return ErrEmptyPatch
	}
	return nil
}

// AdminPatch updates the mutable profile fields of an admin.
type AdminPatch struct {
	ProfilePictureURL *string `json:"profile_picture_url,omitempty"`
	FullName          *string `json:"full_name,omitempty"`
	PhoneNumber       *string `json:"phone_number,omitempty"`
	Gender            *Gender `json:"gender,omitempty"`
}

func (p AdminPatch) Apply(record *Admin) error {
	dirty := false
	if p.ProfilePictureURL != nil {
		record.ProfilePictureURL = *p.ProfilePictureURL
		dirty = true
	}
	if p.FullName != nil {
		record.FullName = *p.FullName
		dirty = true
	}
	if p.PhoneNumber != nil {
		record.PhoneNumber = *p.PhoneNumber
		dirty = true
	}
	if p.Gender != nil {
		record.Gender = *p.Gender
		dirty = true
	}
	if !dirty {
		return ErrEmptyPatch
	}
	return nil
}

// CompanyPatch updates company details. Unique fields still pass through the
// conflict check in the repository before the patch lands.
type CompanyPatch struct {
	Name                    *string `json:"name,omitempty"`
	RegistrationNumber      *string `json:"registration_number,omitempty"`
	Email                   *string `json:"email,omitempty"`
	Phone                   *string `json:"phone,omitempty"`
	Address                 *string `json:"address,omitempty"`
	TaxIdentificationNumber *string `json:"tax_identification_number,omitempty"`
	PermitImageURL          *string `json:"permit_image_url,omitempty"`
	LicenseImageURL         *string `json:"license_image_url,omitempty"`
}

func (p CompanyPatch) Apply(record *Company) error {
	dirty := false
	if p.Name != nil {
		record.Name = *p.Name
		dirty = true
	}
	if p.RegistrationNumber != nil {
		record.RegistrationNumber = *p.RegistrationNumber
		dirty = true
	}
	if p.Email != nil {
		record.Email = *p.Email
		dirty = true
	}
	if p.Phone != nil {
		record.Phone = *p.Phone
		dirty = true
	}
	if p.Address != nil {
		record.Address = *p.Address
		dirty = true
	}
	if p.TaxIdentificationNumber != nil {
		record.TaxIdentificationNumber = *p.TaxIdentificationNumber
		dirty = true
	}
	if p.PermitImageURL != nil {
		record.PermitImageURL = *p.PermitImageURL
		dirty = true
	}
	if p.LicenseImageURL != nil {
		record.LicenseImageURL = *p.LicenseImageURL
		dirty = true
	}
	if !dirty {
		return ErrEmptyPatch
	}
	return nil
}

// ConfigurationPatch updates notification preferences.
type ConfigurationPatch struct {
	NotificationEmail *bool `json:"notification_email,omitempty"`
	NotificationInapp *bool `json:"notification_inapp,omitempty"`
}

func (p ConfigurationPatch) Apply(record *Configuration) error {
	dirty := false
	if p.NotificationEmail != nil {
		record.NotificationEmail = *p.NotificationEmail
		dirty = true
	}
	if p.NotificationInapp != nil {
		record.NotificationInapp = *p.NotificationInapp
		dirty = true
	}
	if !dirty {
		return ErrEmptyPatch
	}
	return nil
}
