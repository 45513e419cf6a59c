// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/post-engine/pkg/types"
)

// LoadRequest reads a generation request from a YAML (or JSON) file.
func LoadRequest(path string) (types.GenerationRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.GenerationRequest{}, fmt.Errorf("reading request: %w", err)
	}
	var req types.GenerationRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return types.GenerationRequest{}, fmt.Errorf("parsing request %s: %w", path, err)
	}
	return req, nil
}
