package config

import (
	_ "embed"
)

//go:embed example_plan.yaml
var examplePlan []byte

// ExamplePlanYAML returns the example input file, ready to be written to disk
func ExamplePlanYAML() []byte {
	out := make([]byte, len(examplePlan))
	copy(out, examplePlan)
	return out
}

// CreateExampleConfiguration parses the bundled example plan
func (ip *InputParser) CreateExampleConfiguration() (*Plan, error) {
	return ip.Parse(examplePlan, FormatYAML)
}
