package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// EmailRegex содержит регулярное выражение для валидации email
var EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// UsernameRegex допускает буквы, цифры и символы @.+-_
var UsernameRegex = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]+$`)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 150
	MinPasswordLength = 8
	MaxPasswordLength = 72 // ограничение bcrypt
	MaxEmailLength    = 254
)

// IsValidEmail проверяет валидность email адреса
func IsValidEmail(email string) bool {
	if email == "" || len(email) > MaxEmailLength {
		return false
	}
	if !EmailRegex.MatchString(email) {
		return false
	}

	local, domain, _ := strings.Cut(email, "@")
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.Contains(domain, "..") {
		return false
	}
	return true
}

// ValidateRegistration проверяет данные регистрации и возвращает ValidationErrors
func ValidateRegistration(username, email, password string) error {
	var errs ValidationErrors

	switch n := utf8.RuneCountInString(username); {
	case n == 0:
		errs.add("username", ReasonRequired)
	case n < MinUsernameLength:
		errs.add("username", ReasonTooShort)
	case n > MaxUsernameLength:
		errs.add("username", ReasonTooLong)
	case !UsernameRegex.MatchString(username):
		errs.add("username", ReasonInvalid)
	}

	switch {
	case email == "":
		errs.add("email", ReasonRequired)
	case !IsValidEmail(email):
		errs.add("email", ReasonInvalid)
	}

	switch {
	case password == "":
		errs.add("password", ReasonRequired)
	case utf8.RuneCountInString(password) < MinPasswordLength:
		errs.add("password", ReasonTooShort)
	case len(password) > MaxPasswordLength:
		errs.add("password", ReasonTooLong)
	}

	return errs.errOrNil()
}

// ValidateLogin проверяет, что логин и пароль переданы
func ValidateLogin(username, password string) error {
	var errs ValidationErrors
	if username == "" {
		errs.add("username", ReasonRequired)
	}
	if password == "" {
		errs.add("password", ReasonRequired)
	}
	return errs.errOrNil()
}
