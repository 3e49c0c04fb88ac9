package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidRequest = errors.New("invalid request")
	ErrValidation     = errors.New("validation failed")

	ErrNoUser        = errors.New("user could not be found")
	ErrListFailed    = errors.New("could not retrieve pulls from provider")
	ErrGetFailed     = errors.New("could not retrieve pull from provider")
	ErrReviewsFailed = errors.New("one or more review list requests failed")

	ErrInvalidWatermark = errors.New("watermark could not be parsed")
)

// ProviderError carries the transport failure behind one of the provider
// error kinds (ErrListFailed, ErrGetFailed, ErrReviewsFailed).
type ProviderError struct {
	Kind  error
	Cause error
}

func NewProviderError(kind, cause error) *ProviderError {
	return &ProviderError{Kind: kind, Cause: cause}
}

func (e *ProviderError) Error() string {
	if e.Cause == nil {
		return e.Kind.Error()
	}

	return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
}

func (e *ProviderError) Is(target error) bool { return target == e.Kind }

func (e *ProviderError) Unwrap() error { return e.Cause }

type InvalidWatermarkError struct{ Value string }

func (e *InvalidWatermarkError) Error() string {
	return fmt.Sprintf("watermark '%s' could not be parsed", e.Value)
}
func (e *InvalidWatermarkError) Is(target error) bool { return target == ErrInvalidWatermark }
