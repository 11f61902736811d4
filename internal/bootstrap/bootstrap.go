// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package bootstrap builds the taxonomy and modifier catalog the engine
// runs against, either from built-in data or from a YAML catalog file.
// Every call builds fresh state, so loading is idempotent and callers may
// hold several independent catalogs at once.
package bootstrap

import (
	"log/slog"
	"os"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/holomush/modcore/internal/entity"
	"github.com/holomush/modcore/internal/hierarchy"
	"github.com/holomush/modcore/internal/modifier"
)

// ExampleModifierID is the id of the built-in example modifier.
const ExampleModifierID = -1

// Catalogs is the static data an engine runs against.
type Catalogs struct {
	Types     *hierarchy.Registry
	Modifiers *modifier.Catalog
}

// Engine returns a new engine over the catalogs.
func (c *Catalogs) Engine() *entity.Engine {
	return entity.NewEngine(c.Types, c.Modifiers)
}

// ExampleModifier returns the built-in example: a mild illness that wears
// off linearly over 20 degrees.
func ExampleModifier() *modifier.Modifier {
	return modifier.MustNew(modifier.Definition{
		ID:          ExampleModifierID,
		Name:        "Example",
		Description: "Makes the target slightly ill",
		Duration:    20,
		Type:        hierarchy.TypeModifier,
		Impact:      map[string]float64{"health": 1},
		Criteria:    []string{"*"},
		FalloffType: modifier.FalloffLinear,
		MaxStacks:   1,
	})
}

// Default returns the built-in taxonomy and the example modifier.
func Default() *Catalogs {
	mods, err := modifier.NewCatalog(ExampleModifier())
	if err != nil {
		panic(err)
	}
	return &Catalogs{
		Types:     hierarchy.MustNewRegistry(hierarchy.DefaultTree()),
		Modifiers: mods,
	}
}

// LoadFile reads and loads a YAML catalog file.
func LoadFile(path string) (*Catalogs, error) {
	//nolint:gosec // catalog path comes from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Code("CATALOG_READ_FAILED").With("path", path).Wrap(err)
	}
	c, err := Load(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return c, nil
}

// Load validates YAML catalog data against the schema and builds catalogs
// from it. Criteria texts are not compiled here; see Verify.
func Load(data []byte) (*Catalogs, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, oops.Code("CATALOG_INVALID").Wrapf(err, "invalid YAML")
	}
	return Build(&doc)
}

// Build turns a decoded document into catalogs.
func Build(doc *Document) (*Catalogs, error) {
	root := hierarchy.DefaultTree()
	if doc.Types != nil {
		root = buildTree(*doc.Types)
	}
	types, err := hierarchy.NewRegistry(root)
	if err != nil {
		return nil, oops.With("section", "types").Wrap(err)
	}

	mods := make([]*modifier.Modifier, 0, len(doc.Modifiers))
	for _, md := range doc.Modifiers {
		m, err := buildModifier(types, md)
		if err != nil {
			return nil, oops.With("modifier_id", md.ID).Wrap(err)
		}
		mods = append(mods, m)
	}

	catalog, err := modifier.NewCatalog(mods...)
	if err != nil {
		return nil, err
	}

	slog.Debug("catalog loaded", "types", types.Len(), "modifiers", catalog.Len())
	return &Catalogs{Types: types, Modifiers: catalog}, nil
}

func buildTree(td TypeDoc) *hierarchy.Node {
	n := hierarchy.NewNode(td.ID, td.Name)
	for _, child := range td.Children {
		n.AddChild(buildTree(child))
	}
	return n
}

func buildModifier(types *hierarchy.Registry, md ModifierDoc) (*modifier.Modifier, error) {
	falloff := modifier.FalloffNone
	if md.Falloff != "" {
		f, err := modifier.ParseFalloffType(md.Falloff)
		if err != nil {
			return nil, err
		}
		falloff = f
	}

	typeID := types.Root().ID()
	if md.Type != nil {
		typeID = *md.Type
	}
	if _, err := types.TypeByID(typeID); err != nil {
		return nil, err
	}

	return modifier.New(modifier.Definition{
		ID:          md.ID,
		Name:        md.Name,
		Description: md.Description,
		Duration:    md.Duration,
		Type:        typeID,
		Impact:      md.Impact,
		Targets:     md.Targets,
		Criteria:    md.Criteria,
		FalloffType: falloff,
		Tags:        md.Tags,
		MaxStacks:   md.MaxStacks,
		RangeMin:    md.RangeMin,
		RangeMax:    md.RangeMax,
	})
}
