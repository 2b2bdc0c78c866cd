package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrLabelTooLong     = errors.New("label is too long")
	ErrInvalidLabel     = errors.New("label contains control characters")
	ErrInvalidPlaintext = errors.New("plaintext is not valid UTF-8")
	ErrInvalidID        = errors.New("collection id contains invalid characters")
)
