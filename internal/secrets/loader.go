// Package secrets resolves credentials given inline or through a file.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret may come from.
type Source struct {
	// Name is used in error messages.
	Name string
	// Value is an inline secret from configuration or the environment.
	Value string
	// File holds the secret. It takes precedence over Value.
	File string
	// Optional secrets resolve to an empty string when neither Value nor File is set.
	Optional bool
}

// Load returns the trimmed secret. An empty file is always an error; a missing secret is an
// error unless the source is optional.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" && !src.Optional {
		return "", fmt.Errorf("%s is not configured", name)
	}
	return secret, nil
}
