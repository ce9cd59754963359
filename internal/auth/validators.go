package auth

import (
	"fmt"
	"regexp"
)

var (
	emailRe = regexp.MustCompile(`^[\w.+-]+@[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)+$`)
	phoneRe = regexp.MustCompile(`^(\+7|8)\d{10}$`)

	passwordLetterRe = regexp.MustCompile(`[A-Za-zА-Яа-я]`)
	passwordDigitRe  = regexp.MustCompile(`\d`)
)

func ValidateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return fmt.Errorf("некорректный email")
	}
	return nil
}

// ValidatePassword requires at least 8 characters with a letter and a digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("пароль должен быть не короче 8 символов")
	}
	if !passwordLetterRe.MatchString(password) || !passwordDigitRe.MatchString(password) {
		return fmt.Errorf("пароль должен содержать буквы и цифры")
	}
	return nil
}

// ValidatePhone accepts +7XXXXXXXXXX and 8XXXXXXXXXX. An empty phone is
// allowed since the field is optional on registration.
func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if !phoneRe.MatchString(phone) {
		return fmt.Errorf("некорректный номер телефона")
	}
	return nil
}
