// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file holds one secret: the filename is the key name and the trimmed
// contents are the value.
//
// Recognized key files: openrouter-api-key, gemini-api-key, news-api-key,
// gnews-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/post-engine/internal/logging"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets/"

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty map. Unreadable files are logged and skipped.
func Load(dir string, logger *zap.Logger) (map[string]string, error) {
	logger = logging.OrNop(logger)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// Names returns the loaded key names, sorted. Values are never exposed.
func Names(secrets map[string]string) []string {
	names := make([]string, 0, len(secrets))
	for k := range secrets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
