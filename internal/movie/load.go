package movie

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads and parses a movie plan from a JSON file. The movie name
// defaults to the file basename when the plan carries none.
func Load(path string) (*Movie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading movie plan: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// Parse decodes a movie plan from raw JSON.
func Parse(data []byte) (*Movie, error) {
	var m Movie
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding movie plan: %w", err)
	}
	return &m, nil
}
