package server

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// multipartBuilder assembles multipart request bodies for upload tests.
type multipartBuilder struct {
	buf    bytes.Buffer
	writer *multipart.Writer
}

func newMultipartBuilder() *multipartBuilder {
	b := &multipartBuilder{}
	b.writer = multipart.NewWriter(&b.buf)
	return b
}

func (b *multipartBuilder) file(t *testing.T, field, filename string, content []byte) *multipartBuilder {
	t.Helper()
	part, err := b.writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("failed to create file part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write file part: %v", err)
	}
	return b
}

func (b *multipartBuilder) field(t *testing.T, name, value string) *multipartBuilder {
	t.Helper()
	if err := b.writer.WriteField(name, value); err != nil {
		t.Fatalf("failed to write field: %v", err)
	}
	return b
}

func (b *multipartBuilder) request(t *testing.T) *http.Request {
	t.Helper()
	if err := b.writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/audio/upload", &b.buf)
	req.Header.Set("Content-Type", b.writer.FormDataContentType())
	return req
}

func TestParseUploadForm(t *testing.T) {
	t.Run("accepts a complete form", func(t *testing.T) {
		req := newMultipartBuilder().
			file(t, "audio", "track.mp3", []byte("mp3-bytes")).
			file(t, "license_txt", "license.txt", []byte("license text")).
			field(t, "title", "Morning Raga").
			field(t, "category", "Classical").
			field(t, "duration", "245").
			request(t)

		form, err := parseUploadForm(req)
		if err != nil {
			t.Fatalf("parseUploadForm failed: %v", err)
		}
		if form.files["audio"].Filename != "track.mp3" {
			t.Errorf("audio filename = %q", form.files["audio"].Filename)
		}
		if string(form.files["license_txt"].Data) != "license text" {
			t.Errorf("license content = %q", form.files["license_txt"].Data)
		}
		if form.value("title", "Untitled") != "Morning Raga" {
			t.Errorf("title = %q", form.value("title", "Untitled"))
		}
		if form.value("artist_name", "fallback") != "fallback" {
			t.Error("absent field should fall back")
		}
	})

	t.Run("rejects an oversized file", func(t *testing.T) {
		big := bytes.Repeat([]byte("a"), maxUploadFileSize+1)
		req := newMultipartBuilder().
			file(t, "audio", "huge.mp3", big).
			request(t)

		_, err := parseUploadForm(req)
		if !errors.Is(err, errFileTooLarge) {
			t.Errorf("err = %v, want %v", err, errFileTooLarge)
		}
	})

	t.Run("rejects an unexpected file field", func(t *testing.T) {
		req := newMultipartBuilder().
			file(t, "cover_art", "cover.jpg", []byte("jpg")).
			request(t)

		_, err := parseUploadForm(req)
		if !errors.Is(err, errUnexpectedFile) {
			t.Errorf("err = %v, want %v", err, errUnexpectedFile)
		}
	})

	t.Run("rejects an unexpected scalar field", func(t *testing.T) {
		req := newMultipartBuilder().
			field(t, "is_admin", "true").
			request(t)

		_, err := parseUploadForm(req)
		if !errors.Is(err, errUnexpectedField) {
			t.Errorf("err = %v, want %v", err, errUnexpectedField)
		}
	})

	t.Run("rejects a duplicated file field", func(t *testing.T) {
		req := newMultipartBuilder().
			file(t, "audio", "a.mp3", []byte("one")).
			file(t, "audio", "b.mp3", []byte("two")).
			request(t)

		_, err := parseUploadForm(req)
		if !errors.Is(err, errTooManyFiles) {
			t.Errorf("err = %v, want %v", err, errTooManyFiles)
		}
	})

	t.Run("rejects an oversized field value", func(t *testing.T) {
		req := newMultipartBuilder().
			field(t, "title", strings.Repeat("x", maxUploadFieldSize+1)).
			request(t)

		_, err := parseUploadForm(req)
		if !errors.Is(err, errFieldValueTooLong) {
			t.Errorf("err = %v, want %v", err, errFieldValueTooLong)
		}
	})

	t.Run("rejects a duplicated scalar field", func(t *testing.T) {
		req := newMultipartBuilder().
			field(t, "title", "first").
			field(t, "title", "second").
			request(t)

		_, err := parseUploadForm(req)
		if !errors.Is(err, errTooManyFields) {
			t.Errorf("err = %v, want %v", err, errTooManyFields)
		}
	})

	t.Run("rejects a non-multipart body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/audio/upload", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")

		_, err := parseUploadForm(req)
		if !errors.Is(err, errMalformedForm) {
			t.Errorf("err = %v, want %v", err, errMalformedForm)
		}
	})
}
