package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	ErrFileTooLarge  = errors.New("file too large")
	ErrFileFormat    = errors.New("file format not allowed")
	ErrUnreadableDoc = errors.New("document cannot be read")
)

// CheckUpload validates the size and extension of an uploaded resume.
func CheckUpload(filename string, size, maxSize int64, allowed []string) error {
	if maxSize > 0 && size > maxSize {
		return fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, size, maxSize)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(a), ext) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrFileFormat, ext)
}

// CheckResume opens a stored PDF and requires at least one page. Other
// formats pass unchanged.
func CheckResume(path string) (err error) {
	if strings.ToLower(filepath.Ext(path)) != ".pdf" {
		return nil
	}
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnreadableDoc, r)
		}
	}()
	file, reader, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreadableDoc, err)
	}
	defer file.Close()
	if reader.NumPage() < 1 {
		return fmt.Errorf("%w: no pages", ErrUnreadableDoc)
	}
	return nil
}
