package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/duncanmmacleod/gwpy-laac/segments"
)

// FlagDocument lists segment flags:
//
//	flags:
//	  - name: L1:DMT-DC_READOUT_LOCKED:1
//	    known: [[1109462416, 1109548816]]
//	    active: [[1109462500, 1109470000], [1109480000, 1109548816]]
type FlagDocument struct {
	Flags []FlagSpec `yaml:"flags"`
}

// FlagSpec is one flag with its segments as [start, end] pairs. Omitted
// known segments default to the active ones.
type FlagSpec struct {
	Name   string      `yaml:"name"`
	Known  [][]float64 `yaml:"known,omitempty"`
	Active [][]float64 `yaml:"active"`
}

// ToFlag converts the entry to a Flag, coalescing overlapping segments.
func (fs FlagSpec) ToFlag() (segments.Flag, error) {
	active, err := intervalSet(fs.Active)
	if err != nil {
		return segments.Flag{}, fmt.Errorf("flag %q: active: %w", fs.Name, err)
	}

	known := active

	if fs.Known != nil {
		known, err = intervalSet(fs.Known)
		if err != nil {
			return segments.Flag{}, fmt.Errorf("flag %q: known: %w", fs.Name, err)
		}
	}

	return segments.NewFlag(fs.Name, known, active)
}

// FromFlag is the inverse of ToFlag.
func FromFlag(f segments.Flag) FlagSpec {
	return FlagSpec{
		Name:   f.Name,
		Known:  pairs(f.Known()),
		Active: pairs(f.Active()),
	}
}

// ToFlags converts every entry in document order.
func (d FlagDocument) ToFlags() ([]segments.Flag, error) {
	out := make([]segments.Flag, len(d.Flags))

	for i, fs := range d.Flags {
		f, err := fs.ToFlag()
		if err != nil {
			return nil, err
		}

		out[i] = f
	}

	return out, nil
}

// Lookup converts the flag called name.
func (d FlagDocument) Lookup(name string) (segments.Flag, error) {
	for _, fs := range d.Flags {
		if fs.Name == name {
			return fs.ToFlag()
		}
	}

	return segments.Flag{}, fmt.Errorf("%w: no flag %q", ErrInvalidDocument, name)
}

// ParseFlags decodes a flag document and checks every flag converts.
func ParseFlags(data []byte) (FlagDocument, error) {
	var d FlagDocument
	if err := yaml.Unmarshal(data, &d); err != nil {
		return FlagDocument{}, fmt.Errorf("parse yaml: %w", err)
	}

	if _, err := d.ToFlags(); err != nil {
		return FlagDocument{}, err
	}

	return d, nil
}

// LoadFlags reads and parses the flag document at path.
func LoadFlags(path string) (FlagDocument, error) {
	return load("flag document", path, ParseFlags)
}

func intervalSet(raw [][]float64) (segments.IntervalSet, error) {
	ivs := make([]segments.Interval, len(raw))

	for i, p := range raw {
		if len(p) != 2 {
			return segments.IntervalSet{}, fmt.Errorf("%w: segment %d has %d bounds, want 2", ErrInvalidDocument, i, len(p))
		}

		ivs[i] = segments.Interval{Start: p[0], End: p[1]}
	}

	return segments.Coalesce(ivs)
}

func pairs(s segments.IntervalSet) [][]float64 {
	out := make([][]float64, 0, s.Len())
	for _, iv := range s.Intervals() {
		out = append(out, []float64{iv.Start, iv.End})
	}

	return out
}
