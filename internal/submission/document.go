package submission

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const KeyPrefix = "submissions/"

var ErrInvalidDocument = errors.New("document is not valid base64")

// DecodeDocument decodes the uploaded statement. A data URL prefix
// ("data:application/pdf;base64,") is dropped when present.
func DecodeDocument(data string) ([]byte, error) {
	if i := strings.IndexByte(data, ','); i >= 0 {
		data = data[i+1:]
	}
	data = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, data)
	if data == "" {
		return nil, ErrInvalidDocument
	}
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		b, err = base64.RawStdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	}
	return b, nil
}

// FileExtension is the text after the last dot, or the whole name when it has no dot.
func FileExtension(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		return filename[i+1:]
	}
	return filename
}

// RandomSuffix returns six lowercase alphanumeric characters.
func RandomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

// DocumentKey builds "submissions/<unix-ms>-<suffix>.<ext>".
func DocumentKey(now time.Time, suffix, filename string) string {
	return fmt.Sprintf("%s%d-%s.%s", KeyPrefix, now.UnixMilli(), suffix, FileExtension(filename))
}
