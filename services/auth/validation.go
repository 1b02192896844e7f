package auth

import (
	"fmt"
	"net/mail"
	"unicode/utf8"

	"github.com/tech-arch1tect/greenpoll/apperror"
	"github.com/tech-arch1tect/greenpoll/models"
)

func checkLength(field string, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		return apperror.Validation(fmt.Sprintf("%s must be between %d and %d characters", field, min, max))
	}
	return nil
}

func ValidateUsername(username string) error {
	return checkLength("Username", username, models.UsernameMinLength, models.UsernameMaxLength)
}

func ValidateEmail(email string) error {
	if err := checkLength("Email", email, models.EmailMinLength, models.EmailMaxLength); err != nil {
		return err
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperror.Validation("Invalid email address")
	}
	return nil
}

func ValidatePassword(password string) error {
	return checkLength("Password", password, models.PasswordMinLength, models.PasswordMaxLength)
}
