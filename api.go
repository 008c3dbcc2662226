// Package targa decodes Truevision TGA images into RGB-24 or ARGB-32 pixel buffers.
package targa

import (
	"io"
)

// Stream is the byte source images are decoded from. The loader only reads
// and seeks; it never writes.
//
// [*os.File] satisfies this interface. For in-memory data, see
// [NewMemoryStream].
type Stream interface {
	io.ReadSeeker

	// Name identifies the stream in diagnostics, e.g. a file path.
	Name() string
}

// ImageLoader is the interface a host application's loader registry uses to
// pick a decoder and load images with it.
type ImageLoader interface {
	// IsLoadableFileExtension returns true if the file name has an extension
	// this loader handles. It doesn't look at the file contents.
	IsLoadableFileExtension(filename string) bool

	// IsLoadableFileFormat inspects the stream's contents and returns true if
	// this loader can decode it. Any I/O error is treated as "no". The stream
	// position is restored afterwards.
	IsLoadableFileFormat(file Stream) bool

	// LoadImage decodes an image starting at the current stream position.
	//
	// On failure the returned image is nil and the error describes why. A
	// damaged file whose pixel data ends early is not a failure: the image is
	// returned with the missing pixels zeroed, and a warning is logged.
	LoadImage(file Stream) (Image, error)
}

// LoaderFactory creates a new [ImageLoader]. [NewLoader] is one.
type LoaderFactory func() ImageLoader
