package utils

import (
	"errors"
	"net/url"
	"strings"
)

var ErrNotStorageURL = errors.New("not a storage URL")

// ExtractObjectPath returns the object name inside the bucket for a public
// storage URL. Both the plain GCS form
// (https://storage.googleapis.com/<bucket>/<object>) and the Firebase download
// form (https://firebasestorage.googleapis.com/v0/b/<bucket>/o/<escaped>) are
// understood.
func ExtractObjectPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "https" {
		return "", ErrNotStorageURL
	}

	var object string
	switch u.Host {
	case "storage.googleapis.com":
		_, rest, ok := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if !ok {
			return "", ErrNotStorageURL
		}
		object = rest
	case "firebasestorage.googleapis.com":
		parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 5)
		if len(parts) != 5 || parts[0] != "v0" || parts[1] != "b" || parts[3] != "o" {
			return "", ErrNotStorageURL
		}
		object = parts[4]
	default:
		return "", ErrNotStorageURL
	}

	if object == "" {
		return "", ErrNotStorageURL
	}
	return object, nil
}
