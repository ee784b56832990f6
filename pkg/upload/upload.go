package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
)

// PDFMime is the detected type of a valid PDF document.
const PDFMime = "application/pdf"

// File is an in-memory upload relayed to the training backend as a multipart part.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the payload length.
func (f *File) Size() int64 {
	if f == nil {
		return 0
	}
	return int64(len(f.Data))
}

// New wraps raw bytes, detecting the content type from the payload.
func New(name string, data []byte) *File {
	return &File{Name: filepath.Base(name), ContentType: mimetype.Detect(data).String(), Data: data}
}

// FromHeader reads a multipart file header into memory, enforcing maxBytes.
func FromHeader(fh *multipart.FileHeader, maxBytes int64) (*File, error) {
	if fh == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds %d bytes", maxBytes))
	}
	src, err := fh.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unable to read uploaded file")
	}
	defer src.Close() //nolint:errcheck

	reader := io.Reader(src)
	if maxBytes > 0 {
		reader = io.LimitReader(src, maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unable to read uploaded file")
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds %d bytes", maxBytes))
	}
	if len(data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is empty")
	}
	return New(fh.Filename, data), nil
}

// RequirePDF rejects anything whose content is not a PDF document.
func RequirePDF(f *File) error {
	return RequireOneOf(f, []string{PDFMime})
}

// RequireOneOf checks the sniffed content type against an allow list. An empty
// list accepts any type.
func RequireOneOf(f *File, allowed []string) error {
	if f == nil || len(f.Data) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if len(allowed) == 0 {
		return nil
	}
	detected := mimetype.Detect(f.Data)
	for _, candidate := range allowed {
		if detected.Is(strings.TrimSpace(candidate)) {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported file type %s", detected.String()))
}
