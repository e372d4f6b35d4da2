package util

import (
	"errors"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxFileNameBytes bounds the stored part of an uploaded resume's name.
const MaxFileNameBytes = 120

var ErrInvalidFileName = errors.New("invalid file name")

// CleanResumeFileName makes an uploaded file name safe to embed in a storage
// key: separators become '_', control characters are dropped and long names
// are cut on a rune boundary, keeping the extension. Traversal patterns are
// rejected outright.
func CleanResumeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, name)
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidFileName
	}
	if len(s) <= MaxFileNameBytes {
		return s, nil
	}
	ext := path.Ext(s)
	if len(ext) > 8 {
		ext = ""
	}
	base := strings.TrimSuffix(s, ext)
	limit := MaxFileNameBytes - len(ext)
	for len(base) > limit {
		_, size := utf8.DecodeLastRuneInString(base)
		base = base[:len(base)-size]
	}
	return base + ext, nil
}
