package conversation

import (
	"regexp"
	"strings"

	"github.com/clavisure/clavis/internal/common"
	"github.com/clavisure/clavis/internal/model"
)

var (
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	digitRegex = regexp.MustCompile(`\d`)
)

func validateName(input string) error {
	if len(strings.TrimSpace(input)) < 2 {
		return common.NewValidationError(string(model.SlotFullName), "name must not be empty")
	}
	return nil
}

func validateEmail(input string) error {
	if !emailRegex.MatchString(strings.TrimSpace(input)) {
		return common.NewValidationError(string(model.SlotEmail), "not a valid email address")
	}
	return nil
}

func validatePhone(input string) error {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "").Replace(strings.TrimSpace(input))
	cleaned = strings.TrimPrefix(cleaned, "+")
	if len(cleaned) < 7 || len(cleaned) > 15 {
		return common.NewValidationError(string(model.SlotPhone), "phone number must have 7 to 15 digits")
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return common.NewValidationError(string(model.SlotPhone), "phone number contains invalid characters")
		}
	}
	return nil
}

func validateDate(input string) error {
	if !digitRegex.MatchString(input) {
		return common.NewValidationError(string(model.SlotPreferredDate), "date must contain a day or month")
	}
	return nil
}

func validateTime(input string) error {
	if !digitRegex.MatchString(input) {
		return common.NewValidationError(string(model.SlotPreferredTime), "time must contain an hour")
	}
	return nil
}

func validateNonEmpty(slot model.SlotName) func(string) error {
	return func(input string) error {
		if strings.TrimSpace(input) == "" {
			return common.NewValidationError(string(slot), "value must not be empty")
		}
		return nil
	}
}
