package accounts

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/nyaruka/phonenumbers"
)

// phoneRule validates phone numbers with libphonenumber. Accounts carry
// no region, so numbers must include their country code.
var phoneRule = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	num, err := phonenumbers.Parse(s, "")
	if err != nil {
		return errors.New("must be a phone number with country code")
	}
	if !phonenumbers.IsValidNumber(num) {
		return errors.New("must be a valid phone number")
	}
	return nil
})
