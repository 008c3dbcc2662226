package compression_test

import (
	"bytes"
	"crypto/rand"
	"io"
	"testing"

	c "github.com/dargueta/targa/utilities/compression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type RLETestCase struct {
	Name           string
	Input          []byte
	TotalPixels    int
	BytesPerPixel  int
	ExpectedOutput []byte
}

func TestDecompressTGA__Basic(t *testing.T) {
	tests := []RLETestCase{
		{
			Name:           "single raw pixel",
			Input:          []byte{0x00, 1, 2, 3},
			TotalPixels:    1,
			BytesPerPixel:  3,
			ExpectedOutput: []byte{1, 2, 3},
		},
		{
			Name:           "raw then repeat",
			Input:          []byte{0x01, 1, 2, 3, 4, 5, 6, 0x81, 7, 8, 9},
			TotalPixels:    4,
			BytesPerPixel:  3,
			ExpectedOutput: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 7, 8, 9},
		},
		{
			Name:           "repeat then raw",
			Input:          []byte{0x82, 0xaa, 0xbb, 0x00, 0xcc, 0xdd},
			TotalPixels:    4,
			BytesPerPixel:  2,
			ExpectedOutput: []byte{0xaa, 0xbb, 0xaa, 0xbb, 0xaa, 0xbb, 0xcc, 0xdd},
		},
		{
			Name:           "one-byte pixels",
			Input:          []byte{0x83, 0x7f, 0x01, 0x10, 0x20},
			TotalPixels:    6,
			BytesPerPixel:  1,
			ExpectedOutput: []byte{0x7f, 0x7f, 0x7f, 0x7f, 0x10, 0x20},
		},
		{
			Name:           "four-byte pixels",
			Input:          []byte{0x81, 1, 2, 3, 4, 0x00, 5, 6, 7, 8},
			TotalPixels:    3,
			BytesPerPixel:  4,
			ExpectedOutput: []byte{1, 2, 3, 4, 1, 2, 3, 4, 5, 6, 7, 8},
		},
		{
			Name:           "empty image reads nothing",
			Input:          []byte{},
			TotalPixels:    0,
			BytesPerPixel:  3,
			ExpectedOutput: []byte{},
		},
	}

	for _, test := range tests {
		for _, mode := range []c.OverrunMode{c.OverrunCompatible, c.OverrunStrict} {
			t.Run(
				test.Name+"/"+mode.String(),
				func(t *testing.T) {
					buffer, err := c.DecompressTGA(
						bytes.NewReader(test.Input), test.TotalPixels, test.BytesPerPixel, mode)
					require.NoError(t, err)
					assert.Equal(t, test.ExpectedOutput, buffer.Bytes())
					assert.Zero(t, buffer.MissingPixels(), "all pixels should be written")
				},
			)
		}
	}
}

// Every packet is raw, so the output must be the packets' payloads
// concatenated.
func TestDecompressTGA__AllRawPackets(t *testing.T) {
	const bytesPerPixel = 3
	const totalPixels = 300

	pixels := make([]byte, totalPixels*bytesPerPixel)
	_, err := rand.Read(pixels)
	require.NoError(t, err)

	var encoded bytes.Buffer
	for i := 0; i < totalPixels; {
		count := 1 + i%128
		if i+count > totalPixels {
			count = totalPixels - i
		}
		encoded.WriteByte(byte(count - 1))
		encoded.Write(pixels[i*bytesPerPixel : (i+count)*bytesPerPixel])
		i += count
	}

	buffer, err := c.DecompressTGA(&encoded, totalPixels, bytesPerPixel, c.OverrunCompatible)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(pixels, buffer.Bytes()), "decompressed data is wrong")
}

func TestDecompressTGA__MaximumRepeat(t *testing.T) {
	input := []byte{0xff, 0x10, 0x20, 0x30}

	buffer, err := c.DecompressTGA(bytes.NewReader(input), 128, 3, c.OverrunCompatible)
	require.NoError(t, err)

	data := buffer.Bytes()
	require.Len(t, data, 128*3)
	for i := 0; i < len(data); i += 3 {
		assert.Equalf(t, []byte{0x10, 0x20, 0x30}, data[i:i+3], "pixel %d is wrong", i/3)
	}
}

func TestDecompressTGA__RawPacketOverrun(t *testing.T) {
	// Second packet claims three pixels but there's only room for one more.
	input := []byte{0x00, 1, 1, 1, 0x02, 2, 2, 2, 3, 3, 3, 4, 4, 4}

	for _, mode := range []c.OverrunMode{c.OverrunCompatible, c.OverrunStrict} {
		t.Run(mode.String(), func(t *testing.T) {
			buffer, err := c.DecompressTGA(bytes.NewReader(input), 2, 3, mode)
			require.Error(t, err)
			assert.ErrorIs(t, err, c.ErrPacketOverrun)
			assert.Equal(t, []byte{1, 1, 1, 0, 0, 0}, buffer.Bytes(), "partial data is wrong")
			assert.Equal(t, 1, buffer.MissingPixels())
		})
	}
}

func TestDecompressTGA__RepeatOverrunCompatible(t *testing.T) {
	// The repeat packet asks for 4 pixels but only 3 fit. The excess repetition
	// is skipped and decoding finishes normally.
	input := []byte{0x83, 9, 8}

	buffer, err := c.DecompressTGA(bytes.NewReader(input), 3, 2, c.OverrunCompatible)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 8, 9, 8, 9, 8}, buffer.Bytes())
	assert.Equal(t, 8, buffer.Offset(), "skipped repetition should still advance")
	assert.Zero(t, buffer.MissingPixels())
}

func TestDecompressTGA__RepeatOverrunStrict(t *testing.T) {
	input := []byte{0x83, 9, 8}

	buffer, err := c.DecompressTGA(bytes.NewReader(input), 3, 2, c.OverrunStrict)
	require.Error(t, err)
	assert.ErrorIs(t, err, c.ErrPacketOverrun)
	assert.Equal(t, []byte{9, 8, 9, 8, 9, 8}, buffer.Bytes())
	assert.Equal(t, 6, buffer.Offset())
}

func TestDecompressTGA__RepeatOnLastPixel(t *testing.T) {
	// A repeat packet whose first pixel is the last pixel of the image.
	input := []byte{0x01, 1, 1, 2, 2, 0x80, 3, 3}

	t.Run("compatible", func(t *testing.T) {
		buffer, err := c.DecompressTGA(bytes.NewReader(input), 3, 2, c.OverrunCompatible)
		require.Error(t, err)
		assert.ErrorIs(t, err, c.ErrPacketOverrun)
		assert.Equal(t, []byte{1, 1, 2, 2, 0, 0}, buffer.Bytes())
		assert.Equal(t, 1, buffer.MissingPixels())
	})

	t.Run("strict", func(t *testing.T) {
		buffer, err := c.DecompressTGA(bytes.NewReader(input), 3, 2, c.OverrunStrict)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 1, 2, 2, 3, 3}, buffer.Bytes())
		assert.Zero(t, buffer.MissingPixels())
	})
}

func TestDecompressTGA__MissingPacketHeader(t *testing.T) {
	input := []byte{0x81, 5, 5, 5}

	buffer, err := c.DecompressTGA(bytes.NewReader(input), 4, 3, c.OverrunCompatible)
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, []byte{5, 5, 5, 5, 5, 5, 0, 0, 0, 0, 0, 0}, buffer.Bytes())
	assert.Equal(t, 2, buffer.WrittenPixels())
	assert.Equal(t, 2, buffer.MissingPixels())
}

func TestDecompressTGA__ShortRawPacket(t *testing.T) {
	// Raw packet of 2 pixels, but the stream ends after 4 of the 6 bytes.
	input := []byte{0x01, 1, 2, 3, 4}

	buffer, err := c.DecompressTGA(bytes.NewReader(input), 2, 3, c.OverrunStrict)
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, []byte{1, 2, 3, 4, 0, 0}, buffer.Bytes())
	assert.Equal(t, 1, buffer.WrittenPixels(), "partial pixel must not count as written")
}

func TestPixelBuffer__ReadPixelsOverrunReadsNothing(t *testing.T) {
	buffer := c.NewPixelBuffer(2, 4)
	source := bytes.NewReader(bytes.Repeat([]byte{0xee}, 12))

	err := buffer.ReadPixels(source, 3)
	assert.ErrorIs(t, err, c.ErrPacketOverrun)
	assert.EqualValues(t, 12, source.Len(), "nothing should have been consumed")
	assert.Zero(t, buffer.Offset())
	assert.False(t, buffer.Full())
}
