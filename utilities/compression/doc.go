// Package compression implements the run-length decoding used by TGA images.
//
// TGA run-length encoding works on whole pixels, not bytes. The pixel data is
// a sequence of packets, each beginning with a one-byte header:
//
//   - If the high bit is clear, the packet is a raw packet of `header + 1`
//     pixels stored verbatim after the header.
//   - If the high bit is set, the packet is a repeat packet. Exactly one pixel
//     follows the header, and it occurs `header - 127` times in the output.
//
// For example, with 3-byte pixels:
//
//	02 A A A B B B C C C 81 D D D
//	A B C D D
//
// Packets may cross scanline boundaries. Decoding stops once the expected
// number of pixels has been produced.
//
// A packet that would write past the end of the image is a sign of a damaged
// or truncated file. Historically, decoders handled the two packet kinds
// differently: a raw packet that doesn't fit was refused outright, while a
// repeat packet had its first pixel checked and then skipped (without writing)
// any repetition that didn't fit. [OverrunCompatible] reproduces that behavior
// so that existing damaged assets decode the same way they always have.
// [OverrunStrict] stops at the first repetition that doesn't fit.
package compression
