package storage

import (
	"encoding/base64"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/istmoglobal/storefront/internal/platform/httpx"
)

// KeyPrefix is the folder holding uploaded files.
const KeyPrefix = "uploads/"

var (
	// ErrTooLarge rejects payloads above the configured limit.
	ErrTooLarge = fmt.Errorf("storage: file too large: %w", httpx.ErrValidation)
	// ErrBadPayload rejects data that is neither a data URL nor base64.
	ErrBadPayload = fmt.Errorf("storage: file data is not valid base64: %w", httpx.ErrValidation)
)

// DecodePayload accepts a data URL ("data:image/png;base64,...") or raw
// base64 and returns the bytes, enforcing maxBytes on the decoded size.
func DecodePayload(data string, maxBytes int64) ([]byte, error) {
	data = strings.TrimSpace(data)
	if strings.HasPrefix(data, "data:") {
		comma := strings.IndexByte(data, ',')
		if comma < 0 {
			return nil, ErrBadPayload
		}
		data = data[comma+1:]
	}
	if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(data))) > maxBytes+2 {
		return nil, ErrTooLarge
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, ErrBadPayload
	}
	if maxBytes > 0 && int64(len(raw)) > maxBytes {
		return nil, ErrTooLarge
	}
	return raw, nil
}

// ObjectKey builds "uploads/<unix-millis>-<slug>.<ext>" for fileName.
func ObjectKey(now time.Time, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	base := slug.Make(strings.TrimSuffix(fileName, path.Ext(fileName)))
	if base == "" {
		base = "file"
	}
	return KeyPrefix + strconv.FormatInt(now.UnixMilli(), 10) + "-" + base + ext
}
