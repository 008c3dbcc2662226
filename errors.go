package targa

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// DecodeError is the error type returned by the loader for every fatal
// condition. Use [errors.Is] against the exported sentinels to classify it.
type DecodeError interface {
	error
	WithMessage(message string) DecodeError
	Wrap(err error) DecodeError
}

type baseTargaError string

const rootError = baseTargaError("")

var ErrInvalidHeader = rootError.WithMessage("Invalid TGA header")
var ErrDimensionsTooLarge = rootError.WithMessage("Image dimensions too large")
var ErrUnsupportedImageType = rootError.WithMessage("Unsupported TGA file type")
var ErrUnsupportedPixelDepth = rootError.WithMessage("Unsupported TGA format")
var ErrUnsupportedColorMap = rootError.WithMessage("Unsupported TGA color map")

func (e baseTargaError) Error() string {
	return string(e)
}

func (e baseTargaError) WithMessage(message string) DecodeError {
	return customDecodeError{
		message:       message,
		originalError: e,
	}
}

func (e baseTargaError) Wrap(err error) DecodeError {
	return customDecodeError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customDecodeError struct {
	message       string
	originalError error
}

// Error implements the `error` interface.
func (e customDecodeError) Error() string {
	return e.message
}

func (e customDecodeError) WithMessage(message string) DecodeError {
	return customDecodeError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customDecodeError) Wrap(err error) DecodeError {
	return customDecodeError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customDecodeError) Unwrap() error {
	return e.originalError
}
