package usecase

import "regexp"

var (
	emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	phoneRe = regexp.MustCompile(`^\+?\d{1,4}[-.\s]?\(?\d{1,3}\)?[-.\s]?\d{1,4}[-.\s]?\d{1,4}[-.\s]?\d{1,9}$`)
)

func validEmail(s string) bool { return emailRe.MatchString(s) }

// validPhone accepts international numbers such as "+1 (555) 123-4567" or
// "555.123.4567". An empty phone is always valid: the field is optional.
func validPhone(s string) bool {
	if s == "" {
		return true
	}
	return phoneRe.MatchString(s)
}
