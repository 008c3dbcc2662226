package targa

import (
	"io"

	"github.com/xaionaro-go/bytesextra"
)

type memoryStream struct {
	io.ReadSeeker
	name string
}

// NewMemoryStream returns a [Stream] reading from `data`. The name is only
// used in diagnostics. `data` is not copied, and must not be modified while
// the stream is in use.
func NewMemoryStream(name string, data []byte) Stream {
	return &memoryStream{
		ReadSeeker: bytesextra.NewReadWriteSeeker(data),
		name:       name,
	}
}

func (stream *memoryStream) Name() string {
	return stream.name
}
