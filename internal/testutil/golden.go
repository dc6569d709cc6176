// Package testutil provides shared test helpers for lispir tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// ScenariosDir is the relative path from the module root to the scenarios.
const ScenariosDir = "testdata/scenarios"

// ScenarioFile is the file name that marks a scenario directory.
const ScenarioFile = "scenario.yaml"

// Scenario represents a test scenario loaded from a scenario.yaml file.
type Scenario struct {
	Cmd      []string       `yaml:"cmd"`
	Program  string         `yaml:"program,omitempty"`
	MaxDepth int            `yaml:"maxDepth,omitempty"`
	Meta     *ScenarioMeta  `yaml:"meta,omitempty"`
	Expect   ExpectedResult `yaml:"expect"`
}

// ScenarioMeta holds optional scenario metadata.
type ScenarioMeta struct {
	Description string   `yaml:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
}

// ExpectedResult describes the expected outcome of running a scenario.
type ExpectedResult struct {
	ExitCode       int      `yaml:"exitCode"`
	Stdout         []string `yaml:"stdout,omitempty"`
	StdoutText     string   `yaml:"stdoutText,omitempty"`
	ErrorCode      string   `yaml:"errorCode,omitempty"`
	StderrContains string   `yaml:"stderrContains,omitempty"`
}

// LoadScenario loads a scenario from a directory containing scenario.yaml.
func LoadScenario(dir string) (*Scenario, error) {
	f, err := os.Open(filepath.Join(dir, ScenarioFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	if len(s.Cmd) == 0 {
		return nil, fmt.Errorf("%s: cmd is required", dir)
	}
	return &s, nil
}

// ListScenarios returns all scenario directories under the given root,
// sorted by name.
func ListScenarios(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			scenarioPath := filepath.Join(root, e.Name(), ScenarioFile)
			if _, err := os.Stat(scenarioPath); err == nil {
				dirs = append(dirs, filepath.Join(root, e.Name()))
			}
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// ReadProgram returns the scenario's source. An inline program wins;
// otherwise the file named by cmd[1] is read from the scenario directory.
func ReadProgram(scenarioDir string, s *Scenario) (string, error) {
	if s.Program != "" {
		return s.Program, nil
	}
	if len(s.Cmd) < 2 {
		return "", nil
	}
	source, err := os.ReadFile(filepath.Join(scenarioDir, s.Cmd[1]))
	if err != nil {
		return "", err
	}
	return string(source), nil
}
