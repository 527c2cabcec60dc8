package config

import (
	"fmt"
	"os"
)

// load reads path and hands its contents to parse, prefixing errors with
// the document kind.
func load[T any](what, path string, parse func([]byte) (T, error)) (T, error) {
	var zero T

	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("%s: read %q: %w", what, path, err)
	}

	doc, err := parse(data)
	if err != nil {
		return zero, fmt.Errorf("%s %q: %w", what, path, err)
	}

	return doc, nil
}
