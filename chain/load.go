package chain

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Load decodes a JSON stage list and validates every stage, so a
// malformed chain fails before any analysis runs.
func Load(r io.Reader) ([]Stage, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var stages []Stage
	if err := dec.Decode(&stages); err != nil {
		return nil, fmt.Errorf("chain: decode stages: %w", err)
	}

	if len(stages) == 0 {
		return nil, ErrEmptyChain
	}

	for i, st := range stages {
		if err := st.Validate(); err != nil {
			return nil, fmt.Errorf("chain: stage %d (%s): %w", i, st.Name, err)
		}
	}

	return stages, nil
}

// LoadFile reads a JSON stage list from a file.
func LoadFile(path string) ([]Stage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("chain: open %s: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}
