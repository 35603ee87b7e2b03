package relay

import (
	"fmt"
	"io"
	"net/http"
)

// Boundary separates frames in the relayed multipart body.
const Boundary = "frame"

// ContentType is the response content type of a relayed stream.
const ContentType = "multipart/x-mixed-replace; boundary=" + Boundary

var partHeader = []byte("--" + Boundary + "\r\nContent-Type: image/jpeg\r\n\r\n")

// MultipartWriter writes frames as multipart/x-mixed-replace parts, flushing
// each one so viewers render it immediately. Each part is the boundary line,
// a Content-Type header, the raw JPEG bytes and a trailing CRLF, which makes
// the CRLF the start of the next delimiter and leaves the body byte-exact.
type MultipartWriter struct {
	w io.Writer
}

func NewMultipartWriter(w io.Writer) *MultipartWriter {
	return &MultipartWriter{w: w}
}

// WriteFrame writes one image/jpeg part and flushes it.
func (m *MultipartWriter) WriteFrame(jpeg []byte) error {
	if _, err := m.w.Write(partHeader); err != nil {
		return fmt.Errorf("failed to write part header: %w", err)
	}
	if _, err := m.w.Write(jpeg); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	if _, err := io.WriteString(m.w, "\r\n"); err != nil {
		return fmt.Errorf("failed to terminate frame: %w", err)
	}
	if f, ok := m.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
