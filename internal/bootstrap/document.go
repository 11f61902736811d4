// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package bootstrap

// Document is a catalog file.
//
//	types:            # optional, the built-in taxonomy when absent
//	  id: -1
//	  name: Root
//	  children:
//	    - id: 1
//	      name: Creature
//	modifiers:
//	  - id: 1
//	    name: Burning
//	    duration: 10
//	    type: 84
//	    impact: {health: -2}
//	    criteria: ['tags != "fireproof"']
//	    falloff: linear
type Document struct {
	Types     *TypeDoc      `yaml:"types,omitempty" jsonschema:"description=Taxonomy root; the built-in taxonomy is used when absent"`
	Modifiers []ModifierDoc `yaml:"modifiers" jsonschema:"description=Modifier templates"`
}

// TypeDoc is one taxonomy node and its subtree.
type TypeDoc struct {
	ID       int       `yaml:"id"`
	Name     string    `yaml:"name" jsonschema:"minLength=1,pattern=^[A-Za-z_][A-Za-z0-9_]*$"`
	Children []TypeDoc `yaml:"children,omitempty"`
}

// ModifierDoc is one modifier template.
type ModifierDoc struct {
	ID          int                `yaml:"id"`
	Name        string             `yaml:"name" jsonschema:"minLength=1"`
	Description string             `yaml:"description,omitempty"`
	Duration    float64            `yaml:"duration" jsonschema:"description=Length in degrees; -1 never expires"`
	Type        *int               `yaml:"type,omitempty" jsonschema:"description=Taxonomy id of the modifier itself; the root when absent"`
	Impact      map[string]float64 `yaml:"impact,omitempty"`
	Targets     []string           `yaml:"targets,omitempty" jsonschema:"description=Type paths the modifier may target"`
	Criteria    []string           `yaml:"criteria,omitempty" jsonschema:"description=Criteria expressions; any may match"`
	Falloff     string             `yaml:"falloff,omitempty" jsonschema:"enum=none,enum=linear,enum=slowest,enum=slow,enum=fast"`
	Tags        []string           `yaml:"tags,omitempty"`
	MaxStacks   int                `yaml:"maxStacks,omitempty" jsonschema:"minimum=1"`
	RangeMin    float64            `yaml:"rangeMin,omitempty" jsonschema:"minimum=0"`
	RangeMax    float64            `yaml:"rangeMax,omitempty" jsonschema:"minimum=0"`
}
