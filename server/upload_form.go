package server

import (
	"io"
	"net/http"
)

// Multipart limits for the audio upload endpoint.
const (
	maxUploadFileSize  = 10 << 20 // per file part
	maxUploadFieldSize = 1 << 20  // per scalar field value
	maxUploadParts     = 20
)

// UploadError is a multipart constraint violation. Each limit has its own
// user-facing message so clients can tell what to fix.
type UploadError struct {
	msg string
}

func (e *UploadError) Error() string {
	return e.msg
}

var (
	errMalformedForm     = &UploadError{"Invalid multipart form"}
	errTooManyParts      = &UploadError{"Too many parts"}
	errFileTooLarge      = &UploadError{"File too large"}
	errTooManyFiles      = &UploadError{"Too many files"}
	errTooManyFields     = &UploadError{"Too many fields"}
	errFieldValueTooLong = &UploadError{"Field value too long"}
	errUnexpectedFile    = &UploadError{"Unexpected file field"}
	errUnexpectedField   = &UploadError{"Unexpected field"}
)

// formFile is one uploaded file, fully read into memory. The per-file cap
// keeps that safe.
type formFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// uploadForm is the parsed multipart request of the upload endpoint.
type uploadForm struct {
	files  map[string]*formFile
	values map[string]string
}

func (f *uploadForm) value(name, fallback string) string {
	if v, ok := f.values[name]; ok && v != "" {
		return v
	}
	return fallback
}

var allowedUploadFiles = map[string]bool{
	"audio":       true,
	"license_txt": true,
}

var allowedUploadFields = map[string]bool{
	"title":              true,
	"category":           true,
	"duration":           true,
	"artist_name":        true,
	"original_audio_url": true,
}

// readLimited reads at most limit bytes; one byte more returns limitErr.
func readLimited(r io.Reader, limit int64, limitErr *UploadError) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, errMalformedForm
	}
	if int64(len(data)) > limit {
		return nil, limitErr
	}
	return data, nil
}

// parseUploadForm walks the multipart body part by part, enforcing the
// upload constraints as it goes. It never buffers more than the per-part
// limits allow. Any violation aborts parsing with a typed UploadError.
func parseUploadForm(r *http.Request) (*uploadForm, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, errMalformedForm
	}

	form := &uploadForm{
		files:  make(map[string]*formFile),
		values: make(map[string]string),
	}

	parts := 0
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errMalformedForm
		}

		parts++
		if parts > maxUploadParts {
			part.Close()
			return nil, errTooManyParts
		}

		name := part.FormName()
		if part.FileName() != "" {
			if !allowedUploadFiles[name] {
				part.Close()
				return nil, errUnexpectedFile
			}
			if _, dup := form.files[name]; dup {
				part.Close()
				return nil, errTooManyFiles
			}
			data, err := readLimited(part, maxUploadFileSize, errFileTooLarge)
			part.Close()
			if err != nil {
				return nil, err
			}
			contentType := part.Header.Get("Content-Type")
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			form.files[name] = &formFile{
				Filename:    part.FileName(),
				ContentType: contentType,
				Data:        data,
			}
		} else {
			if !allowedUploadFields[name] {
				part.Close()
				return nil, errUnexpectedField
			}
			if _, dup := form.values[name]; dup {
				part.Close()
				return nil, errTooManyFields
			}
			data, err := readLimited(part, maxUploadFieldSize, errFieldValueTooLong)
			part.Close()
			if err != nil {
				return nil, err
			}
			form.values[name] = string(data)
		}
	}

	return form, nil
}
