package relay

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/http/httptest"
	"testing"
)

func TestMultipartWriter_RoundTrip(t *testing.T) {
	frames := jpegFrames(t, 3)
	rec := httptest.NewRecorder()
	mw := NewMultipartWriter(rec)

	for _, f := range frames {
		if err := mw.WriteFrame(f); err != nil {
			t.Fatalf("WriteFrame failed: %v", err)
		}
	}
	if !rec.Flushed {
		t.Error("Expected frames to be flushed")
	}

	mediaType, params, err := mime.ParseMediaType(ContentType)
	if err != nil {
		t.Fatalf("Invalid content type: %v", err)
	}
	if mediaType != "multipart/x-mixed-replace" || params["boundary"] != Boundary {
		t.Errorf("Unexpected content type %q %v", mediaType, params)
	}

	body := append(rec.Body.Bytes(), "--"+Boundary+"--\r\n"...)
	reader := multipart.NewReader(bytes.NewReader(body), Boundary)
	for i, want := range frames {
		part, err := reader.NextPart()
		if err != nil {
			t.Fatalf("Part %d: %v", i, err)
		}
		if ct := part.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("Part %d: expected image/jpeg, got %q", i, ct)
		}
		got, err := io.ReadAll(part)
		if err != nil {
			t.Fatalf("Part %d: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("Part %d payload differs from the frame written", i)
		}
	}
}

func TestMultipartWriter_Layout(t *testing.T) {
	var buf bytes.Buffer
	if err := NewMultipartWriter(&buf).WriteFrame([]byte{0xFF, 0xD8, 0xFF, 0xD9}); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	want := "--frame\r\nContent-Type: image/jpeg\r\n\r\n\xFF\xD8\xFF\xD9\r\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}
}
