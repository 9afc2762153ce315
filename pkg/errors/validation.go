package errors

import (
	"regexp"
	"unicode"
)

// maxCellNameLength is the traditional GDSII STRNAME limit honoured by most
// layout viewers and streamers.
const maxCellNameLength = 32

// cellNameRegex matches the GDSII structure-name character set.
var cellNameRegex = regexp.MustCompile(`^[A-Za-z0-9_?$]+$`)

// ValidateCellName validates a GDSII structure (cell) name.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 32 characters
//   - Only A-Z, a-z, 0-9, '_', '?' and '$'
func ValidateCellName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "cell name cannot be empty")
	}
	if len(name) > maxCellNameLength {
		return New(ErrCodeInvalidInput, "cell name too long (max %d characters)", maxCellNameLength)
	}
	if !cellNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid cell name: %q", name)
	}
	return nil
}

// ValidateMacroName validates a LEF macro name. LEF tokens are separated by
// whitespace and ';' ends a statement, so neither may appear in the name.
func ValidateMacroName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "macro name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "macro name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) || r == ';' || r == '"' || r == '#' {
			return New(ErrCodeInvalidInput, "macro name contains invalid character %q", r)
		}
	}
	return nil
}
