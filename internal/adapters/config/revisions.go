package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/tidwall/jsonc"
	"go.trai.ch/wasmship/internal/core/domain"
	"go.trai.ch/zerr"
)

// RevisionLoader implements ports.RevisionIndexLoader.
// The index is JSON; comments and trailing commas are tolerated.
type RevisionLoader struct{}

// NewRevisionLoader creates a RevisionLoader.
func NewRevisionLoader() *RevisionLoader {
	return &RevisionLoader{}
}

// Load reads the revision index at path.
func (r *RevisionLoader) Load(path string) (domain.RevisionIndex, error) {
	//nolint:gosec // path comes from the resolved layout
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, zerr.With(domain.Tag(domain.ErrRevisionIndexMissing), "path", path)
	}
	if err != nil {
		return nil, zerr.With(domain.WrapKind(domain.ErrConfigReadFailed, err), "path", path)
	}

	var index domain.RevisionIndex
	if err := json.Unmarshal(jsonc.ToJSON(data), &index); err != nil {
		return nil, zerr.With(domain.WrapKind(domain.ErrConfigParseFailed, err), "path", path)
	}
	if index == nil {
		index = domain.RevisionIndex{}
	}
	return index, nil
}
