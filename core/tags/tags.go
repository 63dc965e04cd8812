// Package tags maps audio container formats to their tag vocabularies and
// reads/rewrites tag values as plain strings. Field tables live in an
// embedded TOML document and can be overridden from a user file.
package tags

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Container identifies a tag schema. It is decided by the adapter layer and
// passed explicitly; nothing downstream inspects runtime types.
type Container int

const (
	ContainerUnknown Container = iota
	ContainerID3
	ContainerVorbis
	ContainerApple
)

func (c Container) String() string {
	switch c {
	case ContainerID3:
		return "ID3"
	case ContainerVorbis:
		return "Vorbis"
	case ContainerApple:
		return "Apple"
	default:
		return "unknown"
	}
}

// ErrUnsupportedFormat marks files whose tags cannot be read at all.
var ErrUnsupportedFormat = errors.New("unsupported tag format")

// ErrUnsupportedSave marks containers that are read-only in this tool.
var ErrUnsupportedSave = errors.New("tag container does not support saving")

// ContainerForExt maps a lowercase file extension to its tag container.
// WAV and WMA carry tags this tool cannot rewrite safely, so they map to
// ContainerUnknown; filename operations still apply to them.
func ContainerForExt(ext string) Container {
	switch ext {
	case ".mp3":
		return ContainerID3
	case ".flac", ".ogg":
		return ContainerVorbis
	case ".m4a":
		return ContainerApple
	default:
		return ContainerUnknown
	}
}

// DetectContainer sniffs magic bytes and falls back to the extension.
func DetectContainer(path, ext string) Container {
	f, err := os.Open(path)
	if err != nil {
		return ContainerForExt(ext)
	}
	defer f.Close()

	buf := make([]byte, 12)
	n, _ := f.Read(buf)
	buf = buf[:n]

	switch {
	case bytes.HasPrefix(buf, []byte("ID3")):
		return ContainerID3
	case len(buf) >= 2 && buf[0] == 0xFF && buf[1]&0xE0 == 0xE0:
		return ContainerID3
	case bytes.HasPrefix(buf, []byte("fLaC")):
		return ContainerVorbis
	case bytes.HasPrefix(buf, []byte("OggS")):
		return ContainerVorbis
	case len(buf) >= 12 && bytes.Equal(buf[4:8], []byte("ftyp")):
		return ContainerApple
	}
	return ContainerForExt(ext)
}

// Category is one group of tag names processed together.
type Category struct {
	Name string
	Tags []string
}

// FieldTable lists the tag names examined per category for one container.
type FieldTable struct {
	Basic    []string `toml:"basic"`
	Comments []string `toml:"comments"`
	Lyrics   []string `toml:"lyrics"`
}

// Categories returns the table's groups in processing order.
func (t FieldTable) Categories() []Category {
	return []Category{
		{Name: "basic", Tags: t.Basic},
		{Name: "comments", Tags: t.Comments},
		{Name: "lyrics", Tags: t.Lyrics},
	}
}

// Mappings holds the field tables for every container format.
type Mappings struct {
	ID3    FieldTable `toml:"id3"`
	Vorbis FieldTable `toml:"vorbis"`
	Apple  FieldTable `toml:"apple"`
}

// For returns the field table for a container.
func (m Mappings) For(c Container) FieldTable {
	switch c {
	case ContainerID3:
		return m.ID3
	case ContainerVorbis:
		return m.Vorbis
	case ContainerApple:
		return m.Apple
	default:
		return FieldTable{}
	}
}

//go:embed mappings.toml
var defaultMappings []byte

// LoadMappings parses the field tables from path, or the embedded defaults
// when path is empty.
func LoadMappings(path string) (Mappings, error) {
	data := defaultMappings
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return Mappings{}, fmt.Errorf("read tag config: %w", err)
		}
	}
	var m Mappings
	if err := toml.Unmarshal(data, &m); err != nil {
		return Mappings{}, fmt.Errorf("parse tag config: %w", err)
	}
	return m, nil
}

// Read returns all readable tag values for the file, keyed by the names the
// container's field table uses. Values are always normalized to a string
// slice before the caller sees them.
func Read(path string, c Container) (map[string][]string, error) {
	switch c {
	case ContainerID3:
		return readID3(path)
	case ContainerVorbis:
		if isFLAC(path) {
			return readFLAC(path)
		}
		return readWithDhowden(path, true)
	case ContainerApple:
		return readWithDhowden(path, false)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// Write rewrites the changed tag values in place. Only MP3 (ID3v2) and FLAC
// have write paths; everything else reports ErrUnsupportedSave.
func Write(path string, c Container, changed map[string][]string) error {
	switch c {
	case ContainerID3:
		return writeID3(path, changed)
	case ContainerVorbis:
		if isFLAC(path) {
			return writeFLACTags(path, changed)
		}
		return fmt.Errorf("%s: %w", path, ErrUnsupportedSave)
	default:
		return fmt.Errorf("%s: %w", path, ErrUnsupportedSave)
	}
}

func isFLAC(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	buf := make([]byte, 4)
	n, _ := f.Read(buf)
	return n == 4 && bytes.Equal(buf, []byte("fLaC"))
}

// normalizeValues flattens the list-or-scalar shapes raw tag readers produce
// into a plain string slice. Non-text values are dropped.
func normalizeValues(v interface{}) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []string:
		return val
	case []interface{}:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
