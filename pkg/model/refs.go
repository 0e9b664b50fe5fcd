/*
 * Copyright © 2018 One Concern
 *
 */

package model

import (
	"fmt"
	"os"
)

const (
	// DefaultTag is assumed whenever a reference block omits its tag
	DefaultTag = "default"

	// ReferencesDirEnv overrides the configured references directory when set in the environment
	ReferencesDirEnv = "REFERENCES_DIR"
)

// RefsConfig is the top level references configuration document.
type RefsConfig struct {
	ReferencesDir string           `json:"references_dir" yaml:"references_dir"` // Root directory for all materialized artifacts
	References    []ReferenceBlock `json:"references" yaml:"references"`         // Declared reference artifacts
	_             struct{}
}

// ReferenceBlock declares one reference artifact to be materialized.
type ReferenceBlock struct {
	Assembly    string           `json:"assembly" yaml:"assembly"`                           // Genome assembly identifier (e.g. dm6)
	Tag         string           `json:"tag,omitempty" yaml:"tag,omitempty"`                 // Release variant within the assembly
	Type        string           `json:"type" yaml:"type"`                                   // Artifact kind (fasta, gtf, ...)
	URL         URLList          `json:"url" yaml:"url"`                                     // One or several source URLs
	Indexes     []string         `json:"indexes,omitempty" yaml:"indexes,omitempty"`         // Aligner indexes to derive (fasta only)
	Conversions []string         `json:"conversions,omitempty" yaml:"conversions,omitempty"` // Derived formats (gtf only)
	Postprocess *PostprocessSpec `json:"postprocess,omitempty" yaml:"postprocess,omitempty"` // Transformation from downloads to the artifact
	_           struct{}
}

// URLList holds one or several source URLs. A bare YAML string decodes the
// same as a one element sequence.
type URLList []string

// UnmarshalYAML accepts either a single string or a sequence of strings
func (u *URLList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var one string
	if err := unmarshal(&one); err == nil {
		*u = URLList{one}
		return nil
	}
	var many []string
	if err := unmarshal(&many); err != nil {
		return err
	}
	*u = URLList(many)
	return nil
}

// MarshalYAML renders a single URL as a bare string, so round-tripped
// configurations stay close to their hand written form
func (u URLList) MarshalYAML() (interface{}, error) {
	if len(u) == 1 {
		return u[0], nil
	}
	return []string(u), nil
}

// PostprocessSpec names the transformation producing the final artifact from
// the downloaded inputs, with optional extra arguments.
//
// Three YAML forms are accepted:
//
//	postprocess: some.func                          # bare function name
//	postprocess: {function: some.func}              # explicit mapping
//	postprocess: {function: some.func, args: FOO}   # args as string or sequence
//
// A nil *PostprocessSpec means no postprocessing was declared.
type PostprocessSpec struct {
	Name string  `json:"function" yaml:"function"`
	Args ArgList `json:"args,omitempty" yaml:"args,omitempty"`
	_    struct{}
}

// UnmarshalYAML accepts either a bare function name or a function/args mapping
func (p *PostprocessSpec) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err == nil {
		p.Name = name
		p.Args = nil
		return nil
	}
	var mapping struct {
		Function string  `yaml:"function"`
		Args     ArgList `yaml:"args"`
	}
	if err := unmarshal(&mapping); err != nil {
		return err
	}
	if mapping.Function == "" {
		return fmt.Errorf("postprocess mapping requires a function entry")
	}
	p.Name = mapping.Function
	p.Args = mapping.Args
	return nil
}

// MarshalYAML renders an argument-less spec as a bare function name
func (p PostprocessSpec) MarshalYAML() (interface{}, error) {
	if len(p.Args) == 0 {
		return p.Name, nil
	}
	return map[string]interface{}{
		"function": p.Name,
		"args":     p.Args,
	}, nil
}

// ArgList holds extra positional arguments for a postprocess function.
// A bare YAML string decodes the same as a one element sequence.
type ArgList []string

// UnmarshalYAML accepts either a single string or a sequence of strings
func (a *ArgList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var one string
	if err := unmarshal(&one); err == nil {
		*a = ArgList{one}
		return nil
	}
	var many []string
	if err := unmarshal(&many); err != nil {
		return err
	}
	*a = ArgList(many)
	return nil
}

// FillTag yields the block tag, or DefaultTag when the block declares none
func (r *ReferenceBlock) FillTag() string {
	if r.Tag == "" {
		return DefaultTag
	}
	return r.Tag
}

// Validate checks fields required on every reference block
func (r *ReferenceBlock) Validate() error {
	if r.Assembly == "" {
		return fmt.Errorf("reference block requires an assembly")
	}
	if r.Type == "" {
		return fmt.Errorf("reference block for assembly %q requires a type", r.Assembly)
	}
	return nil
}

// Validate checks all blocks in the configuration
func (c *RefsConfig) Validate() error {
	for i := range c.References {
		if err := c.References[i].Validate(); err != nil {
			return fmt.Errorf("references[%d]: %v", i, err)
		}
	}
	return nil
}

// Dir yields the effective references directory. The ReferencesDirEnv
// environment override takes precedence over the configured value.
func (c *RefsConfig) Dir() (string, bool) {
	if dir := os.Getenv(ReferencesDirEnv); dir != "" {
		return dir, true
	}
	if c.ReferencesDir != "" {
		return c.ReferencesDir, true
	}
	return "", false
}
