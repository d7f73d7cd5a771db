// Package resume extracts text and skill evidence from uploaded resume
// files. Parsing is regex and lexicon based on purpose: no NLP model.
package resume

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ErrUnsupportedFormat marks a file extension no decoder claims.
var ErrUnsupportedFormat = errors.New("unsupported resume format")

// ErrMissingDependency marks a format whose decoder is not available.
// Surfaced only when that specific format is actually requested.
var ErrMissingDependency = errors.New("decoder not available")

// Decoder extracts plain text from one resume file format.
type Decoder func(path string) (string, error)

// decoders maps a lowercase file extension to its decoder. A nil entry
// means the format is known but its decoder was not built in.
var decoders = map[string]Decoder{
	".pdf":  decodePDF,
	".docx": decodeDocx,
	".doc":  decodeDocx,
	".txt":  decodeTxt,
}

// SupportedExtension reports whether the extension is a known resume format.
func SupportedExtension(ext string) bool {
	_, ok := decoders[strings.ToLower(ext)]
	return ok
}

// ExtractText pulls plain text out of a resume file, dispatching on the
// file extension.
func ExtractText(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	decoder, ok := decoders[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if decoder == nil {
		return "", fmt.Errorf("%w: no decoder for %s", ErrMissingDependency, ext)
	}

	return decoder(path)
}

func decodePDF(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	defer file.Close()

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

func decodeDocx(path string) (string, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}

func decodeTxt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
