// Package validation checks user-supplied paths, verse text and corpus
// source files before they reach the corpus store.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/FocuswithJustin/versefinder/core/corpus"
)

// Limits on user input.
const (
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
	// MaxVerseLength is the maximum length of corrected verse text in bytes.
	MaxVerseLength = 8 << 10
	// sniffLength is how much of a source file is read to detect its format.
	sniffLength = 512
)

// Common validation errors.
var (
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character")
	ErrEmptyText        = errors.New("verse text cannot be empty")
	ErrTextTooLong      = errors.New("verse text too long")
	ErrInvalidUTF8      = errors.New("verse text is not valid UTF-8")
	ErrFormatMismatch   = errors.New("file content does not match its format")
)

// xzMagic starts every xz stream.
var xzMagic = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}

// ValidatePath checks for an empty path, excessive length, null bytes and
// control characters.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}

	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}

	return nil
}

// ValidateVerseText checks replacement text for a verse. Verses are single
// lines, so line breaks and other control characters are rejected.
func ValidateVerseText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	if len(text) > MaxVerseLength {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrTextTooLong, len(text), MaxVerseLength)
	}
	if !utf8.ValidString(text) {
		return ErrInvalidUTF8
	}
	for _, r := range text {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character %U not allowed", ErrInvalidCharacter, r)
		}
	}
	return nil
}

// SniffFormat reads the start of a source file and returns its format.
// A file without a recognised extension takes the format its content
// shows; otherwise the extension and the content must agree.
func SniffFormat(r io.Reader, filename string) (corpus.Format, error) {
	buf := make([]byte, sniffLength)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("failed to read file header: %w", err)
	}
	buf = buf[:n]

	expected := corpus.DetectFormat(filename)
	detected := detectFormatFromContent(buf)

	switch {
	case detected == "" || detected == expected:
		return expected, nil
	case expected == corpus.FormatLines:
		// No recognised extension; trust the content.
		return detected, nil
	}
	return "", fmt.Errorf("%w: %s looks like %s, not %s", ErrFormatMismatch, filename, detected, expected)
}

// detectFormatFromContent returns "" when the header is inconclusive.
func detectFormatFromContent(buf []byte) corpus.Format {
	if bytes.HasPrefix(buf, xzMagic) {
		return corpus.FormatSnapshot
	}
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(buf, []byte("\xef\xbb\xbf")), " \t\r\n")
	switch {
	case len(trimmed) == 0:
		return ""
	case trimmed[0] == '{':
		return corpus.FormatJSON
	case trimmed[0] == '<':
		return corpus.FormatZefania
	}
	if isLikelyText(buf) {
		return corpus.FormatLines
	}
	return ""
}

// isLikelyText checks if the buffer contains likely text content.
func isLikelyText(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}

	// Null bytes are a strong indicator of binary content.
	if bytes.IndexByte(buf, 0) != -1 {
		return false
	}

	control := 0
	for _, b := range buf {
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
			control++
		}
	}
	return control*20 < len(buf)
}
