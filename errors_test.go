package targa_test

import (
	"errors"
	"io"
	"testing"

	"github.com/dargueta/targa"
	"github.com/stretchr/testify/assert"
)

func TestDecodeErrorWithMessage(t *testing.T) {
	newErr := targa.ErrUnsupportedPixelDepth.WithMessage("depth 7")
	assert.Equal(
		t, "Unsupported TGA format: depth 7", newErr.Error(), "error message is wrong")
	assert.ErrorIs(t, newErr, targa.ErrUnsupportedPixelDepth)
	assert.NotErrorIs(t, newErr, targa.ErrUnsupportedImageType)
}

func TestDecodeErrorWrap(t *testing.T) {
	originalErr := errors.New("original error")
	newErr := targa.ErrInvalidHeader.Wrap(originalErr)
	expectedMessage := "Invalid TGA header: original error"

	assert.EqualValues(t, expectedMessage, newErr.Error(), "error message is wrong")
	assert.ErrorIs(t, newErr, originalErr, "original error not set as parent")
	assert.ErrorIs(t, newErr, targa.ErrInvalidHeader, "sentinel not set as parent")
}

func TestDecodeErrorWrap__Chained(t *testing.T) {
	newErr := targa.ErrInvalidHeader.WithMessage("reading header").Wrap(io.ErrUnexpectedEOF)

	assert.Equal(
		t,
		"Invalid TGA header: reading header: unexpected EOF",
		newErr.Error(),
		"error message is wrong",
	)
	assert.ErrorIs(t, newErr, io.ErrUnexpectedEOF)
	assert.ErrorIs(t, newErr, targa.ErrInvalidHeader)
}
