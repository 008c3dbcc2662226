package compression_test

import (
	"bytes"
	"io"
	"testing"

	c "github.com/dargueta/targa/utilities/compression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type BasicTestCase struct {
	Data           []byte
	BytesPerPixel  int
	ExpectedResult c.PixelRun
	Name           string
}

var basicTestCases = []BasicTestCase{
	{[]byte{}, 3, c.InvalidPixelRun, "empty"},
	{
		[]byte{0, 0, 1, 0, 0, 1, 2, 2, 2},
		3,
		c.PixelRun{Pixel: []byte{0, 0, 1}, RunLength: 2},
		"two initial",
	},
	{
		[]byte{6, 1, 5, 20, 31, 6},
		3,
		c.PixelRun{Pixel: []byte{6, 1, 5}, RunLength: 1},
		"one pixel",
	},
	{
		[]byte{9, 9, 9, 9, 9, 9},
		2,
		c.PixelRun{Pixel: []byte{9, 9}, RunLength: 3},
		"entire run",
	},
	{
		[]byte{9, 9, 9, 9, 9, 9},
		1,
		c.PixelRun{Pixel: []byte{9}, RunLength: 6},
		"single-byte pixels",
	},
}

func runBasicTestCase(t *testing.T, test BasicTestCase) {
	grouper := c.NewPixelRunGrouper(bytes.NewBuffer(test.Data), test.BytesPerPixel)
	result, _ := grouper.GetNextRun()
	assert.Equal(t, test.ExpectedResult, result)
}

func TestPixelRunGrouper__Basic(t *testing.T) {
	for _, test := range basicTestCases {
		t.Run(
			test.Name,
			func(t *testing.T) {
				runBasicTestCase(t, test)
			},
		)
	}
}

func TestPixelRunGrouper__Sequence(t *testing.T) {
	data := []byte{
		1, 1, 9, 9, 4, 4, 4, 4, 4, 4, 4, 4, 6, 6, 6, 6, 0, 1, 0, 0, 0, 0, 0, 0,
	}
	expected := []c.PixelRun{
		{[]byte{1, 1}, 1}, {[]byte{9, 9}, 1}, {[]byte{4, 4}, 4}, {[]byte{6, 6}, 2},
		{[]byte{0, 1}, 1}, {[]byte{0, 0}, 3}, c.InvalidPixelRun,
	}

	grouper := c.NewPixelRunGrouper(bytes.NewBuffer(data), 2)
	for i, expectedRun := range expected {
		result, err := grouper.GetNextRun()
		assert.Equalf(t, expectedRun, result, "run %d is wrong", i)
		if expectedRun.RunLength == 0 {
			assert.ErrorIs(t, err, io.EOF)
		} else {
			assert.NoError(t, err)
		}
	}
}

func TestPixelRunGrouper__TrailingPartialPixel(t *testing.T) {
	grouper := c.NewPixelRunGrouper(bytes.NewBuffer([]byte{5, 5, 5, 5, 5}), 3)

	run, err := grouper.GetNextRun()
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, c.InvalidPixelRun, run)
}
