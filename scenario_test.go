package fairbench

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validScenario(inputFile string) *Scenario {
	return &Scenario{
		InputFile:      inputFile,
		SplitField:     "race_source_value",
		DemoAttributes: []string{"White", "Black or African American"},
		SampleCount:    3,
		RandomSeed:     10678,
	}
}

// TestLoadScenario verifies YAML scenario parsing.
func TestLoadScenario(t *testing.T) {
	content := `input_file: in_race.csv
split_field: race_source_value
demo_attributes:
  - White
  - Black or African American
sample_count: 3
random_seed: 10678
`
	path := filepath.Join(t.TempDir(), "audit.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario failed: %v", err)
	}

	want := validScenario("in_race.csv")
	if s.InputFile != want.InputFile || s.SplitField != want.SplitField ||
		s.SampleCount != want.SampleCount || s.RandomSeed != want.RandomSeed {
		t.Errorf("scenario mismatch: got %+v, expected %+v", s, want)
	}
	if len(s.DemoAttributes) != 2 || s.DemoAttributes[0] != "White" {
		t.Errorf("demo attributes mismatch (privileged must come first): %v", s.DemoAttributes)
	}

	t.Logf("✓ Scenario loaded: %s split on %s", s.InputFile, s.SplitField)
}

// TestLoadScenario_Missing verifies the input-not-found error kind.
func TestLoadScenario_Missing(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("missing scenario accepted")
	}
	if !errors.Is(err, ErrInputNotFound) {
		t.Errorf("wrong error kind: %v", err)
	}
}

// TestLoadScenario_Malformed verifies broken YAML is a configuration error.
func TestLoadScenario_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.yaml")
	if err := os.WriteFile(path, []byte("input_file: [unclosed"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	_, err := LoadScenario(path)
	if err == nil {
		t.Fatal("malformed scenario accepted")
	}
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("wrong error kind: %v", err)
	}
}

// TestScenario_Validate verifies the audit contract checks.
func TestScenario_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scenario)
	}{
		{"missing input file", func(s *Scenario) { s.InputFile = "" }},
		{"missing split field", func(s *Scenario) { s.SplitField = "" }},
		{"one attribute", func(s *Scenario) { s.DemoAttributes = s.DemoAttributes[:1] }},
		{"three attributes", func(s *Scenario) { s.DemoAttributes = append(s.DemoAttributes, "Other") }},
		{"identical attributes", func(s *Scenario) { s.DemoAttributes = []string{"Male", "Male"} }},
		{"zero sample count", func(s *Scenario) { s.SampleCount = 0 }},
		{"seed at lower bound", func(s *Scenario) { s.SampleCount = 5; s.RandomSeed = 15 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validScenario("in.csv")
			tt.mutate(s)

			err := s.Validate()
			if err == nil {
				t.Fatal("invalid scenario accepted")
			}
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("wrong error kind: %v", err)
			}
			t.Logf("✓ Correctly rejected: %v", err)
		})
	}

	if err := validScenario("in.csv").Validate(); err != nil {
		t.Errorf("valid scenario rejected: %v", err)
	}
}

// TestScenario_Run exercises the whole pipeline from CSV to verdict.
func TestScenario_Run(t *testing.T) {
	var b strings.Builder
	b.WriteString("labels,prediction,gender_source_value\n")
	writeGroup := func(group string, cases, controls, missed, falseAlarms int) {
		for _, row := range groupRows(group, cases, controls, missed, falseAlarms) {
			b.WriteString(strings.Join([]string{
				itoa(row.Label), itoa(row.Prediction), row.Group,
			}, ","))
			b.WriteString("\n")
		}
	}
	// Male: BER 0.1. Female: BER 0.4. Ratio 4.0.
	writeGroup("Male", 10, 10, 1, 1)
	writeGroup("Female", 10, 10, 4, 4)

	path := writeTempCSV(t, b.String())
	s := &Scenario{
		InputFile:      path,
		SplitField:     "gender_source_value",
		DemoAttributes: []string{"Male", "Female"},
		SampleCount:    3,
		RandomSeed:     50,
	}

	ratio, verdict, err := s.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if math.Abs(ratio-4.0) > 1e-9 {
		t.Errorf("ratio incorrect: got %.12f, expected 4.0", ratio)
	}
	if verdict != VerdictPrivileged {
		t.Errorf("verdict incorrect: got %v, expected %v", verdict, VerdictPrivileged)
	}

	t.Logf("✓ End to end: ratio=%.4f, verdict=%v", ratio, verdict)
}

// TestScenario_Run_MissingInput verifies the fatal input error surfaces.
func TestScenario_Run_MissingInput(t *testing.T) {
	s := validScenario(filepath.Join(t.TempDir(), "absent.csv"))

	_, _, err := s.Run()
	if err == nil {
		t.Fatal("missing input accepted")
	}
	if !errors.Is(err, ErrInputNotFound) {
		t.Errorf("wrong error kind: %v", err)
	}
}

func itoa(v int) string {
	if v == 1 {
		return "1"
	}
	return "0"
}
