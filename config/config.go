// Package config loads strutmesh settings from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mjkkirschner/strutmesh"
	"github.com/mjkkirschner/strutmesh/build"
	"github.com/mjkkirschner/strutmesh/obj"
	"github.com/mjkkirschner/strutmesh/strut"
	"github.com/mjkkirschner/strutmesh/tessellate"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the full set of pipeline settings.
type Config struct {
	Strut   Strut   `toml:"strut" yaml:"strut"`
	Sphere  Sphere  `toml:"sphere" yaml:"sphere"`
	Build   Build   `toml:"build" yaml:"build"`
	Output  Output  `toml:"output" yaml:"output"`
	Library Library `toml:"library" yaml:"library"`
}

type Strut struct {
	Radius float64 `toml:"radius" yaml:"radius"`
	Edges  int     `toml:"edges" yaml:"edges"`

	// Batch is the number of input lines meshed and built together.
	Batch int `toml:"batch" yaml:"batch"`
}

type Sphere struct {
	DivsU int `toml:"divs_u" yaml:"divs_u"`
	DivsV int `toml:"divs_v" yaml:"divs_v"`
}

func (s Sphere) Grid() tessellate.GridParameters {
	return tessellate.GridParameters{DivsU: s.DivsU, DivsV: s.DivsV}
}

type Build struct {
	Target   build.Target   `toml:"target" yaml:"target"`
	Fallback build.Fallback `toml:"fallback" yaml:"fallback"`
}

type Output struct {
	Name string `toml:"name" yaml:"name"`

	// Color is the material of every face, as rrggbb or #rrggbb.
	Color string `toml:"color" yaml:"color"`
}

type Library struct {
	// Precision is the number of decimals struts are grouped by.
	Precision int `toml:"precision" yaml:"precision"`
}

// Format is a config file syntax.
type Format int

const (
	TOML Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "toml"
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return 0, fmt.Errorf("%w: unknown config format for %q", strutmesh.ErrInvalidArgument, path)
}

func Default() *Config {
	return &Config{
		Strut:   Strut{Radius: 0.05, Edges: 8, Batch: 1000},
		Sphere:  Sphere{DivsU: 16, DivsV: 8},
		Build:   Build{Target: build.AnyGeometry, Fallback: build.DegradeToMesh},
		Output:  Output{Name: "strutmesh", Color: "c0c0c0"},
		Library: Library{Precision: 2},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Decode reads r over the defaults and validates the result. Unknown keys
// are errors.
func Decode(r io.Reader, format Format) (*Config, error) {
	c := Default()

	switch format {
	case TOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(c); err != nil {
			return nil, fmt.Errorf("%w: %v", strutmesh.ErrInvalidArgument, err)
		}
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %v", strutmesh.ErrInvalidArgument, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown config format %d", strutmesh.ErrInvalidArgument, int(format))
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Encode writes c in format.
func (c *Config) Encode(w io.Writer, format Format) error {
	switch format {
	case TOML:
		return toml.NewEncoder(w).Encode(c)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: unknown config format %d", strutmesh.ErrInvalidArgument, int(format))
}

// Validate checks every setting the pipeline would otherwise reject later.
func (c *Config) Validate() error {
	var errs []error

	if _, err := strut.NewGenerator(c.Strut.Radius, c.Strut.Edges); err != nil {
		errs = append(errs, fmt.Errorf("strut: %w", err))
	}
	if c.Strut.Batch <= 0 {
		errs = append(errs, fmt.Errorf("strut: %w: batch must be positive, got %d",
			strutmesh.ErrInvalidArgument, c.Strut.Batch))
	}
	if err := c.Sphere.Grid().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("sphere: %w", err))
	}
	if c.Output.Name == "" {
		errs = append(errs, fmt.Errorf("output: %w: name is empty", strutmesh.ErrInvalidArgument))
	}
	if _, err := obj.ParseColor(c.Output.Color); err != nil {
		errs = append(errs, fmt.Errorf("output: %w", err))
	}
	if c.Library.Precision < 0 {
		errs = append(errs, fmt.Errorf("library: %w: precision must not be negative, got %d",
			strutmesh.ErrInvalidArgument, c.Library.Precision))
	}

	return errors.Join(errs...)
}
