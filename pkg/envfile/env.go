// Package envfile merges environment override files and resolves ${NAME}
// placeholders inside content trees.
package envfile

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
)

// Environ converts os.Environ-style "KEY=VALUE" pairs into a map.
// Later duplicates win; entries without "=" are ignored.
func Environ(pairs []string) map[string]string {
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

// Merge returns a new environment with the entries of the override file layered
// over base. base is not modified. A nil or empty override yields a copy of base.
func Merge(base map[string]string, override []byte) (map[string]string, error) {
	merged := make(map[string]string, len(base))
	for k, v := range base {
		merged[k] = v
	}
	if len(override) == 0 {
		return merged, nil
	}

	parsed, err := godotenv.Unmarshal(string(override))
	if err != nil {
		return nil, fmt.Errorf("failed to parse env override file: %w", err)
	}
	for k, v := range parsed {
		merged[k] = v
	}
	return merged, nil
}
