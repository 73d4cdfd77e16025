package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errNameRequired = errors.New("stack name is required")
	errNameInvalid  = errors.New("stack name must be 1-50 lowercase alphanumeric characters or hyphens, starting and ending with alphanumeric")
)
