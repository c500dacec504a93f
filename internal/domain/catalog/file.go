package catalog

import (
	"encoding/json"
	"os"

	"github.com/go-faster/errors"
)

// NewFileRepository loads a catalog JSON file (as produced by the
// catalog-ingest tool) and serves it through a StaticRepository. The file is
// read once at construction; the catalog is immutable afterwards.
func NewFileRepository(path string) (*StaticRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog file")
	}

	var pressings []Pressing
	if err := json.Unmarshal(data, &pressings); err != nil {
		return nil, errors.Wrap(err, "decode catalog file")
	}

	for i := range pressings {
		if pressings[i].ID == "" || pressings[i].Name == "" {
			return nil, errors.Errorf("catalog entry %d: id and name required", i)
		}
		if !pressings[i].PricingMode.Valid() {
			return nil, errors.Errorf("catalog entry %q: invalid pricing mode %q",
				pressings[i].ID, pressings[i].PricingMode)
		}
	}

	return NewStaticRepositoryWith(pressings), nil
}
