package fairbench

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario bundles the parameters of one audit run. It mirrors the CLI
// flags one to one, so a run can be pinned down in a reviewable YAML file
// instead of a shell history line:
//
//	input_file: in_race.csv
//	split_field: race_source_value
//	demo_attributes:
//	  - White
//	  - Black or African American
//	sample_count: 3
//	random_seed: 10678
//
// The first demo attribute is the privileged cohort.
type Scenario struct {
	InputFile      string   `yaml:"input_file"`
	SplitField     string   `yaml:"split_field"`
	DemoAttributes []string `yaml:"demo_attributes"`
	SampleCount    int      `yaml:"sample_count"`
	RandomSeed     int      `yaml:"random_seed"`
}

// LoadScenario reads an audit scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: scenario %s: %v", ErrInvalidConfiguration, path, err)
	}
	return &s, nil
}

// Validate checks the scenario against the audit contract.
func (s *Scenario) Validate() error {
	if s.InputFile == "" {
		return fmt.Errorf("%w: input file is required", ErrInvalidConfiguration)
	}
	if s.SplitField == "" {
		return fmt.Errorf("%w: split field is required", ErrInvalidConfiguration)
	}
	if len(s.DemoAttributes) != 2 {
		return fmt.Errorf("%w: exactly two demographic attributes are required (privileged first), got %d",
			ErrInvalidConfiguration, len(s.DemoAttributes))
	}
	if s.DemoAttributes[0] == s.DemoAttributes[1] {
		return fmt.Errorf("%w: demographic attributes must be distinct, got %q twice",
			ErrInvalidConfiguration, s.DemoAttributes[0])
	}
	if s.SampleCount < 1 {
		return fmt.Errorf("%w: sample count must be at least 1, got %d",
			ErrInvalidConfiguration, s.SampleCount)
	}
	if s.RandomSeed <= DrawPoolFloor+s.SampleCount {
		return fmt.Errorf(
			"%w: random seed %d too small for %d samples\n"+
				"  the seed bounds the draw-index pool [%d, seed)\n"+
				"  required: seed > %d + sample count",
			ErrInvalidConfiguration, s.RandomSeed, s.SampleCount,
			DrawPoolFloor, DrawPoolFloor)
	}
	return nil
}

// Run executes the scenario end to end: load the dataset, build the
// balanced samples, aggregate the BER ratio, classify it.
func (s *Scenario) Run() (float64, Verdict, error) {
	if err := s.Validate(); err != nil {
		return 0, VerdictNone, err
	}

	ds, err := LoadDataset(s.InputFile, s.SplitField)
	if err != nil {
		return 0, VerdictNone, err
	}

	sampler := NewSampler(s.DemoAttributes[0], s.DemoAttributes[1], s.SampleCount, s.RandomSeed)
	collection, err := sampler.BuildSamples(ds)
	if err != nil {
		return 0, VerdictNone, err
	}

	ratio, err := RatioFromSamples(collection)
	if err != nil {
		return 0, VerdictNone, err
	}
	return ratio, ClassifyRatio(ratio), nil
}
