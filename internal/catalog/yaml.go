package catalog

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/LeonardoBeccarini/drip_planner/internal/model/entities"
)

// File is the on-disk catalog layout.
type File struct {
	Pipes    []entities.PipeSpec    `yaml:"pipes"`
	Fittings []entities.FittingSpec `yaml:"fittings,omitempty"`
	Drippers []entities.DripperSpec `yaml:"drippers,omitempty"`
}

// Validate rejects rows the hydraulics cannot use.
func (f File) Validate() error {
	if len(f.Pipes) == 0 {
		return errors.New("catalog.pipes must be non-empty")
	}
	for i, p := range f.Pipes {
		if !(p.NominalMM > 0) || math.IsInf(p.NominalMM, 1) {
			return fmt.Errorf("catalog.pipes[%d].nominal_diameter_mm must be > 0", i)
		}
		if !(p.InternalMM > 0 && p.InternalMM < p.NominalMM) {
			return fmt.Errorf("catalog.pipes[%d].internal_diameter_mm must be in (0, %v)", i, p.NominalMM)
		}
	}
	return nil
}

// LoadYAML decodes and validates a catalog document.
func LoadYAML(r io.Reader) (*Catalog, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	fittings := f.Fittings
	if fittings == nil {
		fittings = DefaultFittings()
	}
	c := New(f.Pipes, fittings)
	if f.Drippers != nil {
		c.SetDrippers(f.Drippers)
	}
	return c, nil
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer fh.Close()
	return LoadYAML(fh)
}

// WriteYAML dumps the catalog in the layout LoadYAML reads.
func WriteYAML(w io.Writer, c *Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(File{Pipes: c.Pipes(), Fittings: c.Fittings(), Drippers: c.Drippers()}); err != nil {
		return err
	}
	return enc.Close()
}
