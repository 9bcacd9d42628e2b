// Package pipelinetest provides a scripted Disambiguator for tests.
package pipelinetest

import (
	"context"
	"fmt"

	"github.com/SPI-Birds/metadata/pkg/pipeline"
)

// Compile-time contract assertion.
var _ pipeline.Disambiguator = (*Script)(nil)

// Script answers prompts from pre-recorded lists, in order, and records
// the prompts it received so tests can assert on them.
type Script struct {
	// Choices are consumed by ChooseOne in order.
	Choices []int
	// Values are consumed by ProvideValue in order.
	Values []string
	// Prompts collects every prompt text seen.
	Prompts []string
}

func (s *Script) ChooseOne(
	_ context.Context, prompt string, options []string,
) (int, error) {
	s.Prompts = append(s.Prompts, prompt)
	if len(s.Choices) == 0 {
		return 0, fmt.Errorf("scripted disambiguator: no choice left for %q", prompt)
	}
	res := s.Choices[0]
	s.Choices = s.Choices[1:]
	if res < 0 || res >= len(options) {
		return 0, fmt.Errorf(
			"scripted disambiguator: choice %d out of range for %q", res, prompt,
		)
	}
	return res, nil
}

func (s *Script) ProvideValue(
	_ context.Context, prompt string,
) (string, error) {
	s.Prompts = append(s.Prompts, prompt)
	if len(s.Values) == 0 {
		return "", fmt.Errorf("scripted disambiguator: no value left for %q", prompt)
	}
	res := s.Values[0]
	s.Values = s.Values[1:]
	return res, nil
}
