package extract

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
)

// Supported file extensions, without the leading dot.
const (
	FormatPDF = "pdf"
	FormatTXT = "txt"
)

var (
	// ErrUnsupportedFormat is returned for any extension other than pdf or txt.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrExtractionFailed is returned when no usable text could be read.
	ErrExtractionFailed = errors.New("text extraction failed")
)

// SupportedFormats lists the accepted extensions in display order.
func SupportedFormats() []string {
	return []string{FormatPDF, FormatTXT}
}

// ExtensionOf returns the lower-cased extension of filename without the dot.
func ExtensionOf(filename string) string {
	return normalizeExt(filepath.Ext(filename))
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// Extract converts raw file bytes into trimmed plain text according to the
// declared extension. The input slice is not retained.
func Extract(data []byte, ext string) (string, error) {
	switch normalizeExt(ext) {
	case FormatPDF:
		return extractPDF(data)
	case FormatTXT:
		return extractTXT(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// extractPDF concatenates the text of every page in order, one newline
// after each page. The pdf package panics on malformed objects, so a
// panic is reported as ErrExtractionFailed.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: malformed pdf: %v", ErrExtractionFailed, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %v", ErrExtractionFailed, err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if !page.V.IsNull() {
			if content, err := page.GetPlainText(nil); err == nil {
				b.WriteString(content)
			}
		}
		b.WriteString("\n")
	}

	text = strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("%w: no text could be extracted from the PDF", ErrExtractionFailed)
	}
	return text, nil
}

// extractTXT decodes UTF-8, falling back to Latin-1 which maps every byte.
func extractTXT(data []byte) (string, error) {
	var text string
	if utf8.Valid(data) {
		text = string(data)
	} else {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("%w: decode latin-1: %v", ErrExtractionFailed, err)
		}
		text = string(decoded)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: the text file appears to be empty", ErrExtractionFailed)
	}
	return text, nil
}

// Fingerprint returns the hex MD5 of text, used as the document dedup key.
func Fingerprint(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
