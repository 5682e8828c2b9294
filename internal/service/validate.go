package service

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidUserID indicates a string that cannot be an Eventernote user name
	ErrInvalidUserID = errors.New("invalid Eventernote user ID")
	// ErrInvalidEventID indicates a string that cannot be an Eventernote event ID
	ErrInvalidEventID = errors.New("invalid Eventernote event ID")
	// ErrInvalidRange indicates a period that cannot be applied
	ErrInvalidRange = errors.New("invalid date range")
)

// validator's alphanum tag rejects the _ . - that user names may contain
var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]{1,64}$`)

var validate = validator.New()

// ValidateUserID checks that id looks like an Eventernote user name.
// It keeps path separators and query characters out of scraped URLs.
func ValidateUserID(id string) error {
	if !userIDPattern.MatchString(id) || id == "." || id == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidUserID, id)
	}
	return nil
}

// ValidateEventID checks that id is a numeric Eventernote event ID
func ValidateEventID(id string) error {
	if err := validate.Var(id, "required,number,max=12"); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidEventID, id)
	}
	return nil
}
