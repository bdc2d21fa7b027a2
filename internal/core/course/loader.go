package course

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed surfaces.yaml
var builtinSurfacesData []byte

func builtinSurfaces() (map[string]SurfaceParams, error) {
	out := make(map[string]SurfaceParams)
	if err := yaml.Unmarshal(builtinSurfacesData, &out); err != nil {
		return nil, fmt.Errorf("parse built-in surfaces: %w", err)
	}
	return out, nil
}

// Load reads a course definition from a YAML file, merging its surface
// overrides over the built-in kinds.
func Load(path string) (*Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read course: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML course definition.
func Parse(data []byte) (*Course, error) {
	var c Course
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse course: %w", err)
	}

	base, err := builtinSurfaces()
	if err != nil {
		return nil, err
	}
	for name, params := range c.Surfaces {
		base[name] = params
	}
	c.Surfaces = base

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("course %q: %w", c.Name, err)
	}
	return &c, nil
}

func (c *Course) validate() error {
	if c.Name == "" {
		return fmt.Errorf("missing name")
	}
	if len(c.Pieces) == 0 {
		return fmt.Errorf("no track pieces")
	}
	for _, p := range c.Pieces {
		if p.MinX >= p.MaxX || p.MinZ >= p.MaxZ {
			return fmt.Errorf("piece %q has inverted bounds", p.Name)
		}
	}
	if c.DefaultSurface == "" {
		c.DefaultSurface = "asphalt"
	}
	if _, ok := c.Surfaces[c.DefaultSurface]; !ok {
		return fmt.Errorf("unknown default surface %q", c.DefaultSurface)
	}
	for _, z := range c.Zones {
		if _, ok := c.Surfaces[z.Surface]; !ok {
			return fmt.Errorf("zone %q references unknown surface %q", z.Name, z.Surface)
		}
	}
	if !c.OnTrack(c.Spawn.Position()) {
		return fmt.Errorf("spawn point is off the track")
	}
	return nil
}
