// Package chain describes model pipelines declaratively and turns them into executable stages.
package chain

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-model-chain/pkg/pipeline"
)

var (
	ErrNoStages          = errors.New("definition has no stages")
	ErrStageNameRequired = errors.New("stage name is required")
	ErrModelRequired     = errors.New("stage model is required")
	ErrDuplicateStage    = errors.New("stage name must be unique")
	ErrUnknownPipeline   = errors.New("unknown pipeline")
)

// Definition is an ordered list of stages and the request fed to the first one.
type Definition struct {
	Name    string       `yaml:"name"`
	Request string       `yaml:"request"`
	Stages  []Descriptor `yaml:"stages"`
}

// Descriptor describes one stage.
//
// Prompt is a text/template rendered with the output of the previous stage as {{.Previous}} and
// the pipeline request as {{.Request}}. An empty Prompt forwards the previous output unchanged.
type Descriptor struct {
	Name         string `yaml:"name"`
	Model        string `yaml:"model"`
	SystemPrompt string `yaml:"system_prompt"`
	Prompt       string `yaml:"prompt"`
}

// Load decodes a YAML definition from r and validates it.
func Load(r io.Reader) (*Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	def := &Definition{}
	err := dec.Decode(def)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "unable to decode definition")
	}

	err = def.Validate()
	if err != nil {
		return nil, err
	}

	return def, nil
}

// LoadFile reads a YAML definition from path.
func LoadFile(path string) (*Definition, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}

	def, err := Load(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid definition %s", path)
	}

	return def, nil
}

// Validate checks that every stage is named uniquely and has a model.
func (d *Definition) Validate() error {
	if len(d.Stages) == 0 {
		return ErrNoStages
	}

	seen := make(map[string]struct{}, len(d.Stages))
	for idx, stage := range d.Stages {
		if stage.Name == "" {
			return errors.Wrapf(ErrStageNameRequired, "stage %d", idx+1)
		}
		if pipeline.IsReservedName(stage.Name) {
			return errors.Wrapf(pipeline.ErrReservedStageName, "stage %s", stage.Name)
		}
		if stage.Model == "" {
			return errors.Wrapf(ErrModelRequired, "stage %s", stage.Name)
		}
		if _, ok := seen[stage.Name]; ok {
			return errors.Wrapf(ErrDuplicateStage, "stage %s", stage.Name)
		}
		seen[stage.Name] = struct{}{}
	}

	return nil
}
