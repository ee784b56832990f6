package upstream

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/upload"
)

// Form is an ordered multipart body. Fields keep insertion order so the
// backend sees them the way the portal forms sent them.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	field string
	file  *upload.File
}

// NewForm returns an empty form.
func NewForm() *Form {
	return &Form{}
}

// Field appends a text field.
func (f *Form) Field(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// OptionalField appends a text field only when value is not blank.
func (f *Form) OptionalField(name, value string) *Form {
	if strings.TrimSpace(value) == "" {
		return f
	}
	return f.Field(name, value)
}

// File attaches a file part. Nil files are skipped.
func (f *Form) File(field string, file *upload.File) *Form {
	if file != nil {
		f.files = append(f.files, formFile{field: field, file: file})
	}
	return f
}

func (f *Form) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", err
		}
	}
	for _, part := range f.files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(part.field), escapeQuotes(part.file.Name)))
		header.Set("Content-Type", part.file.ContentType)
		pw, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := pw.Write(part.file.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
