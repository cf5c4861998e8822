// Package planfile reads and writes plan documents: the work types, an
// optional budget, the latest result and saved scenarios. Documents are JSON
// or YAML depending on the file extension.
package planfile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/workplan/core/model"
	"github.com/kilianp07/workplan/core/scenario"
)

// Document is the persisted form of a plan.
type Document struct {
	WorkTypes []model.WorkItem          `json:"work_types" yaml:"work_types"`
	Budget    *float64                  `json:"budget,omitempty" yaml:"budget,omitempty"`
	Results   *model.OptimizationResult `json:"results,omitempty" yaml:"results,omitempty"`
	Scenarios map[string]ScenarioRecord `json:"scenarios,omitempty" yaml:"scenarios,omitempty"`
}

// ScenarioRecord is a scenario as stored in a document, keyed by name.
type ScenarioRecord struct {
	TotalCost      float64        `json:"total_cost" yaml:"total_cost"`
	ObjectiveValue float64        `json:"objective_value" yaml:"objective_value"`
	Data           []scenario.Row `json:"data" yaml:"data"`
}

// FromScenario converts a scenario to its document form.
func FromScenario(s scenario.Scenario) ScenarioRecord {
	return ScenarioRecord{TotalCost: s.TotalCost, ObjectiveValue: s.ObjectiveValue, Data: s.Rows}
}

// ToScenario converts a document record back to a scenario named name.
func ToScenario(name string, r ScenarioRecord) scenario.Scenario {
	return scenario.Scenario{Name: name, Rows: r.Data, TotalCost: r.TotalCost, ObjectiveValue: r.ObjectiveValue}
}

// Format is the encoding of a document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the format from the file extension; anything that is not
// .yaml or .yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode reads a document in the given format.
func Decode(r io.Reader, f Format) (Document, error) {
	var doc Document
	var err error
	if f == FormatYAML {
		err = yaml.NewDecoder(r).Decode(&doc)
	} else {
		err = json.NewDecoder(r).Decode(&doc)
	}
	if err != nil && err != io.EOF {
		return Document{}, fmt.Errorf("decode plan: %w", err)
	}
	return doc, nil
}

// Encode writes doc in the given format.
func Encode(w io.Writer, doc Document, f Format) error {
	if f == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Read loads the document at path.
func Read(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer func() { _ = f.Close() }()
	return Decode(f, FormatFor(path))
}

// Write stores doc at path, replacing any existing file atomically.
func Write(path string, doc Document) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".plan-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if err := Encode(tmp, doc, FormatFor(path)); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
