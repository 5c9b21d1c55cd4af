package util

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// email syntax: local@domain.tld, no spaces
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// phone contract: optional +, optional leading 1, 9-15 digits total
var phoneRe = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// ValidatePasswordStrength enforces the account password policy:
// 8-100 chars with at least one uppercase, one lowercase and one digit.
func ValidatePasswordStrength(value interface{}) error {
	password, _ := value.(string)
	// character count, not bytes: "ż" is one character
	if utf8.RuneCountInString(password) > 100 {
		return errors.New("Hasło nie może być dłuższe niż 100 znaków.")
	}
	if utf8.RuneCountInString(password) < 8 {
		return errors.New("Hasło musi mieć co najmniej 8 znaków.")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	if !hasUpper {
		return errors.New("Hasło musi zawierać co najmniej jedną dużą literę.")
	}
	if !hasLower {
		return errors.New("Hasło musi zawierać co najmniej jedną małą literę.")
	}
	if !hasDigit {
		return errors.New("Hasło musi zawierać co najmniej jedną cyfrę.")
	}
	return nil
}

// ValidateUsername checks length and forbidden characters. Uniqueness is
// a separate database check in the handlers.
func ValidateUsername(value interface{}) error {
	username, _ := value.(string)
	if utf8.RuneCountInString(username) < 2 {
		return errors.New("Nazwa użytkownika musi mieć co najmniej 2 znaki.")
	}
	if utf8.RuneCountInString(username) > 50 {
		return errors.New("Nazwa użytkownika nie może przekraczać 50 znaków.")
	}
	if strings.Contains(username, " ") {
		return errors.New("Nazwa użytkownika nie może zawierać spacji.")
	}
	if strings.Contains(username, "@") {
		return errors.New("Nazwa użytkownika nie może zawierać znaku @.")
	}
	return nil
}

// ValidateEmailSyntax checks the address shape only.
func ValidateEmailSyntax(value interface{}) error {
	email, _ := value.(string)
	if !emailRe.MatchString(email) {
		return errors.New("Podaj poprawny adres email.")
	}
	return nil
}

// ValidatePhone accepts a blank phone or one matching the +999999999
// format, up to 15 digits.
func ValidatePhone(value interface{}) error {
	phone, _ := value.(string)
	if phone == "" {
		return nil
	}
	if !phoneRe.MatchString(phone) {
		return errors.New("Numer telefonu musi być w formacie: '+999999999'. Do 15 cyfr.")
	}
	return nil
}

// IsEmailIdentifier reports whether a login identifier should be matched
// against the email column rather than the username column.
func IsEmailIdentifier(identifier string) bool {
	return emailRe.MatchString(identifier)
}
