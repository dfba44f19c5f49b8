package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrNotFound = errors.New("training file not found")
	ErrDecode   = errors.New("could not decode training file")
	ErrNoIntent = errors.New("no intents found in training file")
)

// Intent is one named category of user request with example patterns and
// canned responses.
type Intent struct {
	Tag       string   `json:"tag" yaml:"tag"`
	Patterns  []string `json:"patterns" yaml:"patterns"`
	Responses []string `json:"responses" yaml:"responses"`
}

type File struct {
	Intents []Intent `json:"intents" yaml:"intents"`
}

// Dataset is the loaded training file plus the hash of its raw bytes.
type Dataset struct {
	Intents []Intent
	Hash    string
}

// Load reads a JSON training file, or YAML when the extension is .yaml/.yml.
// Intents without a tag are dropped.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read training file: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes raw training data; ext selects the format.
func Parse(data []byte, ext string) (*Dataset, error) {
	var file File
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
	default:
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
	}

	intents := make([]Intent, 0, len(file.Intents))
	for _, intent := range file.Intents {
		intent.Tag = strings.TrimSpace(intent.Tag)
		if intent.Tag == "" {
			continue
		}
		intents = append(intents, intent)
	}
	if len(intents) == 0 {
		return nil, ErrNoIntent
	}

	sum := sha256.Sum256(data)
	return &Dataset{Intents: intents, Hash: hex.EncodeToString(sum[:])}, nil
}

// Tags returns the intent tags in file order.
func (d *Dataset) Tags() []string {
	tags := make([]string, len(d.Intents))
	for i, intent := range d.Intents {
		tags[i] = intent.Tag
	}
	return tags
}

// Responses returns the responses of tag, or nil when the tag is unknown.
func (d *Dataset) Responses(tag string) []string {
	for _, intent := range d.Intents {
		if intent.Tag == tag {
			return intent.Responses
		}
	}
	return nil
}
