// Package validation checks and cleans user-supplied names before they reach a store.
//
// Object keys arriving on the stream route are validated as-is. Upload
// filenames and folders are sanitised into safe key segments instead.
package validation

import (
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/Cameron831/CloudStreamer/errors"
)

// MaxKeyLength is the longest object key S3 accepts, in bytes.
const MaxKeyLength = 1024

var mimePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-+.]*/[a-zA-Z0-9][a-zA-Z0-9\-+.]*(\s*;.*)?$`)

// ValidateBucketName validates that a bucket name is DNS-compliant according to S3 rules.
func ValidateBucketName(bucket string) error {
	fail := func(msg string) error {
		return errors.NewError("validateBucketName", errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage(msg)
	}

	if len(bucket) < 3 || len(bucket) > 63 {
		return fail("bucket name must be between 3 and 63 characters long")
	}
	for _, c := range bucket {
		if !(c >= '0' && c <= '9') && !(c >= 'a' && c <= 'z') && c != '.' && c != '-' {
			return fail("bucket name can only contain lowercase letters, numbers, dots, and hyphens")
		}
	}
	first, last := bucket[0], bucket[len(bucket)-1]
	if first == '-' || first == '.' || last == '-' || last == '.' {
		return fail("bucket name cannot start or end with a hyphen or dot")
	}
	if strings.Contains(bucket, "..") {
		return fail("bucket name cannot contain two adjacent periods")
	}
	return nil
}

// ValidateObjectKey rejects keys that are empty, too long, contain control
// characters or try to escape the bucket through path traversal.
func ValidateObjectKey(key string) error {
	fail := func(msg string) error {
		return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
			WithKey(key).
			WithMessage(msg)
	}

	switch {
	case key == "":
		return fail("object key cannot be empty")
	case len(key) > MaxKeyLength:
		return fail("object key cannot exceed 1024 characters")
	case hasControlCharacters(key):
		return fail("object key cannot contain control characters")
	case hasPathTraversal(key):
		return fail("object key cannot contain path traversal sequences")
	}
	return nil
}

// ValidateContentType checks that contentType looks like a MIME type.
func ValidateContentType(contentType string) error {
	if !mimePattern.MatchString(contentType) {
		return errors.NewError("validateContentType", errors.ErrInvalidInput).
			WithMessage("content type must be a valid MIME type")
	}
	return nil
}

// SecureFilename reduces a client-supplied filename to a safe single key segment.
//
// Only the base name is kept. Whitespace becomes "_", anything outside ASCII
// letters, digits, '.', '_' and '-' is dropped, and leading or trailing dots
// and underscores are trimmed. An empty result is rejected.
func SecureFilename(name string) (string, error) {
	// Clients on Windows send backslash separated paths.
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('_')
		case r < unicode.MaxASCII && (isAlnum(r) || r == '.' || r == '_' || r == '-'):
			b.WriteRune(r)
		}
	}

	safe := strings.Trim(b.String(), "._")
	if safe == "" {
		return "", errors.NewError("secureFilename", errors.ErrInvalidInput).
			WithMessage("filename " + strconv.Quote(name) + " has no usable characters")
	}
	return safe, nil
}

// SanitizeFolder cleans every segment of a folder prefix with SecureFilename
// rules. Empty and unusable segments are dropped, so "" and "/" yield "".
func SanitizeFolder(folder string) string {
	folder = strings.ReplaceAll(folder, `\`, "/")

	var segments []string
	for _, seg := range strings.Split(folder, "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		if safe, err := SecureFilename(seg); err == nil {
			segments = append(segments, safe)
		}
	}
	return strings.Join(segments, "/")
}

// ObjectKey joins a sanitised folder and filename into an object key.
func ObjectKey(folder, filename string) string {
	if folder == "" {
		return filename
	}
	return folder + "/" + filename
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// hasPathTraversal checks for path traversal attempts in object keys
func hasPathTraversal(key string) bool {
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return true
		}
	}

	cleaned := filepath.ToSlash(filepath.Clean(key))
	if strings.HasPrefix(cleaned, "..") || strings.HasPrefix(key, "/") {
		return true
	}

	// Windows-style absolute paths
	if len(key) >= 3 && key[1] == ':' && (key[2] == '\\' || key[2] == '/') {
		return true
	}
	return false
}

// hasControlCharacters checks for control characters in the key
func hasControlCharacters(key string) bool {
	for _, char := range key {
		if unicode.IsControl(char) {
			return true
		}
	}
	return false
}
