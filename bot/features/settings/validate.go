package settings

import (
	"github.com/cmertnic/EXPBOT/bot/common"
	"github.com/cmertnic/EXPBOT/locale"
)

// validateFieldValue checks a user-supplied settings value. The value must
// target a known field, be non-empty, and differ from the field's localized
// display label.
func validateFieldValue(lang, field, value string) error {
	label, known := locale.FieldLabel(lang, field)
	if !known {
		return common.NewValidationError("settings.unknown_field")
	}

	if value == "" {
		return common.NewValidationError("settings.invalid_empty")
	}

	if value == label {
		return common.NewValidationError("settings.invalid_label")
	}

	return nil
}
