package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTooLarge       = errors.New("file exceeds the upload size limit")
	ErrUnsupportedExt = errors.New("only jpeg, jpg, png and gif images are accepted")
)

var imageTypes = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// Admit checks an uploaded image against the size limit and the extension
// allow-list, and returns its content type.
func Admit(filename string, size, max int64) (string, error) {
	if max > 0 && size > max {
		return "", fmt.Errorf("%w (%d bytes, limit %d)", ErrTooLarge, size, max)
	}
	ct, ok := imageTypes[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return "", ErrUnsupportedExt
	}
	return ct, nil
}

// ObjectName returns a collision-free path for an upload under dir,
// keeping the original extension.
func ObjectName(dir, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	name := fmt.Sprintf("%d-%s%s", now.UnixMilli(), uuid.NewString()[:8], ext)
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
