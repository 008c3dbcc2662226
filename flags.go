package targa

import "fmt"

// ImageType is the data type code stored in the third byte of the header.
type ImageType uint8

const (
	ImageTypeNoData          ImageType = 0
	ImageTypeColorMapped     ImageType = 1
	ImageTypeTrueColor       ImageType = 2
	ImageTypeGrayscale       ImageType = 3
	ImageTypeRLEColorMapped  ImageType = 9
	ImageTypeRLETrueColor    ImageType = 10
	ImageTypeRLEGrayscale    ImageType = 11
	ImageTypeHuffmanDelta    ImageType = 32
	ImageTypeHuffmanQuadtree ImageType = 33
)

var imageTypeNames = map[ImageType]string{
	ImageTypeNoData:          "no image data",
	ImageTypeColorMapped:     "uncompressed color-mapped",
	ImageTypeTrueColor:       "uncompressed true-color",
	ImageTypeGrayscale:       "uncompressed grayscale",
	ImageTypeRLEColorMapped:  "run-length encoded color-mapped",
	ImageTypeRLETrueColor:    "run-length encoded true-color",
	ImageTypeRLEGrayscale:    "run-length encoded grayscale",
	ImageTypeHuffmanDelta:    "Huffman/delta/RLE color-mapped",
	ImageTypeHuffmanQuadtree: "Huffman/delta/RLE color-mapped, quadtree",
}

func (t ImageType) String() string {
	name, ok := imageTypeNames[t]
	if ok {
		return name
	}
	return fmt.Sprintf("unknown image type %d", uint8(t))
}

// IsUncompressed returns true for the image types whose pixel data is stored
// verbatim and that this package can read.
func (t ImageType) IsUncompressed() bool {
	return t == ImageTypeColorMapped || t == ImageTypeTrueColor || t == ImageTypeGrayscale
}

// IsRunLengthEncoded returns true for the run-length encoded image types this
// package can read. Only true-color RLE is supported.
func (t ImageType) IsRunLengthEncoded() bool {
	return t == ImageTypeRLETrueColor
}

// Image descriptor bits (header byte 17).
const (
	DescriptorAlphaBits   = 0x0f
	DescriptorRightToLeft = 0x10
	DescriptorTopToBottom = 0x20
)

// Color map types (header byte 1).
const (
	ColorMapAbsent  = 0
	ColorMapPresent = 1
)
