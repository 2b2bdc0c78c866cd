package validators

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MKhiriev/go-chain-vault/internal/apierrors"
	"github.com/MKhiriev/go-chain-vault/internal/crypto"
	"github.com/MKhiriev/go-chain-vault/models"
)

const (
	FieldLabel        = "label"
	FieldData         = "data"
	FieldCollectionID = "collection_id"
	FieldSecret       = "secret"
)

// MaxLabelLength is the longest accepted label, in runes.
const MaxLabelLength = 256

type RequestValidator struct {
}

func NewRequestValidator() Validator {
	return &RequestValidator{}
}

func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.SubmitRequest:
		return v.validateSubmitRequest(ctx, value, fields...)
	case *models.SubmitRequest:
		return v.validateSubmitRequest(ctx, *value, fields...)

	case models.DecryptRequest:
		return v.validateDecryptRequest(ctx, value, fields...)
	case *models.DecryptRequest:
		return v.validateDecryptRequest(ctx, *value, fields...)

	case models.LoginRequest:
		return v.validateLoginRequest(ctx, value, fields...)
	case *models.LoginRequest:
		return v.validateLoginRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateSubmitRequest checks the plaintext form of a submission, before
// encryption replaces Data.
func (v *RequestValidator) validateSubmitRequest(_ context.Context, req models.SubmitRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLabel, FieldData}
	}

	for _, field := range fields {
		switch field {
		case FieldLabel:
			if err := validateLabel(req.Label); err != nil {
				return err
			}
		case FieldData:
			if !utf8.ValidString(req.Data) {
				return apierrors.NewValidationError(FieldData, ErrInvalidPlaintext)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateDecryptRequest(_ context.Context, req models.DecryptRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldCollectionID}
	}

	for _, field := range fields {
		switch field {
		case FieldCollectionID:
			id := strings.TrimSpace(req.CollectionID)
			if id == "" {
				return apierrors.NewValidationError(FieldCollectionID, apierrors.ErrEmptyCollectionID)
			}
			if strings.ContainsAny(id, "/?#") || hasControl(id) {
				return apierrors.NewValidationError(FieldCollectionID, ErrInvalidID)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateLoginRequest(_ context.Context, req models.LoginRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSecret}
	}

	for _, field := range fields {
		switch field {
		case FieldSecret:
			if !crypto.IsValidSecretFormat(req.Secret) {
				return apierrors.NewValidationError(FieldSecret, apierrors.ErrInvalidSecret)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateLabel(label string) error {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return apierrors.NewValidationError(FieldLabel, apierrors.ErrEmptyLabel)
	}
	if utf8.RuneCountInString(trimmed) > MaxLabelLength {
		return apierrors.NewValidationError(FieldLabel, ErrLabelTooLong)
	}
	if hasControl(trimmed) {
		return apierrors.NewValidationError(FieldLabel, ErrInvalidLabel)
	}
	return nil
}

func hasControl(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}
