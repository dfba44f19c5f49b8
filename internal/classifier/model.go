package classifier

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
)

// ModelFile is the on-disk form of a trained network and its metadata.
type ModelFile struct {
	Embedder   string   `json:"embedder"`
	EmbSize    int      `json:"emb_size"`
	HiddenSize int      `json:"hidden_size"`
	NumClasses int      `json:"num_classes"`
	Tags       []string `json:"tags"`

	State map[string][]float64 `json:"model_state"`
}

var paramNames = []string{"l1.weight", "l1.bias", "l2.weight", "l2.bias", "l3.weight", "l3.bias"}

func Save(path string, n *Network, tags []string, embedder string) error {
	if len(tags) != n.NumClasses {
		return fmt.Errorf("%d tags for %d classes", len(tags), n.NumClasses)
	}
	file := ModelFile{
		Embedder:   embedder,
		EmbSize:    n.InputSize,
		HiddenSize: n.HiddenSize,
		NumClasses: n.NumClasses,
		Tags:       tags,
		State:      make(map[string][]float64, len(paramNames)),
	}
	for i, p := range n.params() {
		file.State[paramNames[i]] = mat.DenseCopyOf(p).RawMatrix().Data
	}

	data, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model file: %w", err)
	}
	return nil
}

func Load(path string) (*Network, *ModelFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read model file: %w", err)
	}
	var file ModelFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to decode model file: %w", err)
	}
	if len(file.Tags) != file.NumClasses {
		return nil, nil, fmt.Errorf("model has %d tags for %d classes", len(file.Tags), file.NumClasses)
	}

	n, err := NewNetwork(file.EmbSize, file.HiddenSize, file.NumClasses, 0)
	if err != nil {
		return nil, nil, err
	}
	for i, p := range n.params() {
		values, ok := file.State[paramNames[i]]
		r, c := p.Dims()
		if !ok || len(values) != r*c {
			return nil, nil, fmt.Errorf("model parameter %s missing or has wrong size", paramNames[i])
		}
		for row := 0; row < r; row++ {
			copy(p.RawRowView(row), values[row*c:(row+1)*c])
		}
	}
	return n, &file, nil
}
