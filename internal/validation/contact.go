package validation

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ContactForm carries the raw contact form input. Validate trims the fields
// in place and returns one message per failing field.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

const maxContactLinks = 3

// Validate runs every field validator and collects the failures keyed by
// field name. An empty map means the form is valid.
func (f *ContactForm) Validate() map[string]string {
	errs := make(map[string]string)

	f.Name = strings.TrimSpace(f.Name)
	if err := validateContactName(f.Name); err != nil {
		errs["name"] = err.Error()
	}

	f.Email = strings.TrimSpace(f.Email)
	if f.Email == "" {
		errs["email"] = "email is required"
	} else if err := ValidateEmail(f.Email); err != nil {
		errs["email"] = err.Error()
	}

	f.Subject = strings.TrimSpace(f.Subject)
	if f.Subject == "" {
		errs["subject"] = "subject is required"
	} else if utf8.RuneCountInString(f.Subject) > 200 {
		errs["subject"] = "subject must not exceed 200 characters"
	}

	f.Message = strings.TrimSpace(f.Message)
	if err := validateContactMessage(f.Message); err != nil {
		errs["message"] = err.Error()
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateContactName(name string) error {
	if utf8.RuneCountInString(name) < 2 {
		return fmt.Errorf("name must contain at least 2 characters")
	}
	if utf8.RuneCountInString(name) > 100 {
		return fmt.Errorf("name must not exceed 100 characters")
	}
	if isAllDigits(name) {
		return fmt.Errorf("name cannot consist of digits only")
	}
	return nil
}

func validateContactMessage(message string) error {
	if utf8.RuneCountInString(message) < 10 {
		return fmt.Errorf("message must contain at least 10 characters")
	}
	// Crude anti-spam heuristic: too many links.
	if strings.Count(strings.ToLower(message), "http") > maxContactLinks {
		return fmt.Errorf("message contains too many links")
	}
	return nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
