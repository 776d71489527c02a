package gcs

import (
	"errors"
	"fmt"
	"strings"
)

const scheme = "gs://"

// ErrInvalidURI is returned for strings that are not gs://bucket/object.
var ErrInvalidURI = errors.New("invalid GCS URI")

// IsURI reports whether s uses the gs:// scheme.
func IsURI(s string) bool {
	return strings.HasPrefix(s, scheme)
}

// ParseURI splits gs://bucket/path/to/object into bucket and object path.
func ParseURI(uri string) (bucket, object string, err error) {
	if !IsURI(uri) {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	parts := strings.SplitN(strings.TrimPrefix(uri, scheme), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w (no object path): %s", ErrInvalidURI, uri)
	}
	return parts[0], parts[1], nil
}

// URI builds gs://bucket/object.
func URI(bucket, object string) string {
	return scheme + bucket + "/" + strings.TrimPrefix(object, "/")
}
