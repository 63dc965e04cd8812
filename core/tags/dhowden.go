package tags

import (
	"fmt"
	"os"
	"strings"

	"github.com/dhowden/tag"
)

// readWithDhowden reads tag values through the dhowden/tag library. This is
// the read path for OGG Vorbis comments and Apple MP4 atoms, both of which
// are read-only in this tool. Vorbis comment keys are uppercased to match
// the field table; Apple atom names are used as-is.
func readWithDhowden(path string, upperKeys bool) (map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}

	values := make(map[string][]string)
	for key, raw := range t.Raw() {
		vals := normalizeValues(raw)
		if len(vals) == 0 {
			continue
		}
		if upperKeys {
			key = strings.ToUpper(key)
		}
		values[key] = append(values[key], vals...)
	}
	return values, nil
}
