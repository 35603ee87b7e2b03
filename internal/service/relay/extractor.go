package relay

import (
	"bytes"
	"errors"
	"fmt"
)

// DefaultMaxFrameBytes bounds the extractor accumulator when no limit is set.
const DefaultMaxFrameBytes = 8 << 20

var (
	jpegHeader = []byte{0xFF, 0xD8}
	jpegFooter = []byte{0xFF, 0xD9}
)

// ErrFrameOverflow is returned when the accumulator grows past its limit
// without completing a frame.
var ErrFrameOverflow = errors.New("frame exceeds maximum size")

// Extractor reassembles JPEG frames from an arbitrarily chunked byte stream.
// A frame is everything from a start-of-image marker through the first
// end-of-image marker after it. Not safe for concurrent use; each stream owns one.
type Extractor struct {
	buf []byte
	max int
	// footerFrom is where the next end-marker search starts, so a large frame
	// arriving in small chunks is scanned once.
	footerFrom int
}

func NewExtractor(maxFrameBytes int) *Extractor {
	if maxFrameBytes <= 0 {
		maxFrameBytes = DefaultMaxFrameBytes
	}
	return &Extractor{max: maxFrameBytes}
}

// Push appends chunk and returns every frame it completes, in stream order.
// Returned frames do not alias the chunk or the internal buffer. On overflow
// the accumulated bytes are discarded and ErrFrameOverflow is returned along
// with any frames completed before the overflow.
func (e *Extractor) Push(chunk []byte) ([][]byte, error) {
	e.buf = append(e.buf, chunk...)

	var frames [][]byte
	for {
		start := bytes.Index(e.buf, jpegHeader)
		if start < 0 {
			e.discardGarbage()
			break
		}
		if start > 0 {
			// Nothing before a start marker can belong to a frame.
			e.shift(start)
			e.footerFrom = 0
		}

		from := len(jpegHeader)
		if e.footerFrom > from {
			from = e.footerFrom
		}
		end := bytes.Index(e.buf[from:], jpegFooter)
		if end < 0 {
			// Resume one byte early in case the footer straddles chunks.
			e.footerFrom = len(e.buf) - 1
			break
		}
		end += from + len(jpegFooter)

		frame := make([]byte, end)
		copy(frame, e.buf[:end])
		frames = append(frames, frame)

		e.shift(end)
		e.footerFrom = 0
	}

	if len(e.buf) > e.max {
		size := len(e.buf)
		e.Reset()
		return frames, fmt.Errorf("%w: %d bytes buffered, limit %d", ErrFrameOverflow, size, e.max)
	}
	return frames, nil
}

// Buffered returns the number of bytes waiting for a frame to complete.
func (e *Extractor) Buffered() int {
	return len(e.buf)
}

// Reset drops any partial frame.
func (e *Extractor) Reset() {
	e.buf = e.buf[:0]
	e.footerFrom = 0
}

// discardGarbage drops bytes that precede any start marker, keeping a trailing
// 0xFF that may be the first half of one.
func (e *Extractor) discardGarbage() {
	n := len(e.buf)
	if n > 0 && e.buf[n-1] == jpegHeader[0] {
		e.buf[0] = jpegHeader[0]
		e.buf = e.buf[:1]
	} else {
		e.buf = e.buf[:0]
	}
	e.footerFrom = 0
}

func (e *Extractor) shift(n int) {
	remaining := copy(e.buf, e.buf[n:])
	e.buf = e.buf[:remaining]
}
