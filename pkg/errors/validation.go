package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateDiagramName validates a diagram or activity name before it is
// embedded in an interchange document.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No null bytes
//   - Maximum length of 256 characters
//
// Names are later XML-escaped by the serializer; this check only rejects
// values that have no sensible escaped form.
func ValidateDiagramName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "diagram name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidName, "diagram name too long (max 256 characters)")
	}

	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "diagram name contains invalid control characters")
		}
	}

	return nil
}

// ValidateSwimlaneName validates a swimlane (partition) name.
// Swimlane names become partition elements and EA lane records, so the same
// character restrictions as diagram names apply.
func ValidateSwimlaneName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "swimlane name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "swimlane name too long (max 128 characters)")
	}

	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "swimlane name contains invalid control characters")
		}
	}

	return nil
}

// ValidateLabel validates a node label. Tabs and newlines are allowed because
// labels may carry multi-line action text; other control characters are not.
func ValidateLabel(label string) error {
	const maxLabelLength = 512
	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidName, "label too long (max %d characters)", maxLabelLength)
	}

	for _, r := range label {
		if r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "label contains invalid control characters")
		}
	}

	return nil
}

// ValidateOutputPath validates a user-supplied output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid characters")
		}
	}

	return nil
}

// eaIDRegex matches Enterprise Architect element identifiers as emitted by
// the serializer: an EAID_/EAPK_ prefix followed by an uppercase UUID with
// dashes replaced by underscores.
var eaIDRegex = regexp.MustCompile(`^EA(ID|PK)_[0-9A-F]{8}(_[0-9A-F]{4}){3}_[0-9A-F]{12}$`)

// ValidateEAID validates an Enterprise Architect element identifier.
func ValidateEAID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "element id cannot be empty")
	}

	if !eaIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid element id: %q", id)
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http, https or redis).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	for _, scheme := range []string{"http://", "https://", "redis://", "rediss://"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}

	return New(ErrCodeInvalidInput, "URL must use http, https or redis scheme")
}
