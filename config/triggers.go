package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/duncanmmacleod/gwpy-laac/trigger"
)

// TriggerDocument lists event triggers.
type TriggerDocument struct {
	Triggers []TriggerSpec `yaml:"triggers"`
}

// TriggerSpec is one trigger row. Frequency is the peak frequency in Hz.
type TriggerSpec struct {
	Time      float64 `yaml:"time"`
	Frequency float64 `yaml:"frequency"`
	SNR       float64 `yaml:"snr"`
}

// ToTriggers converts the rows in document order.
func (d TriggerDocument) ToTriggers() []trigger.Trigger {
	out := make([]trigger.Trigger, len(d.Triggers))
	for i, ts := range d.Triggers {
		out[i] = trigger.Trigger(ts)
	}

	return out
}

// FromTriggers is the inverse of ToTriggers.
func FromTriggers(triggers []trigger.Trigger) TriggerDocument {
	d := TriggerDocument{Triggers: make([]TriggerSpec, len(triggers))}
	for i, tr := range triggers {
		d.Triggers[i] = TriggerSpec(tr)
	}

	return d
}

// ParseTriggers decodes a trigger document.
func ParseTriggers(data []byte) (TriggerDocument, error) {
	var d TriggerDocument
	if err := yaml.Unmarshal(data, &d); err != nil {
		return TriggerDocument{}, fmt.Errorf("parse yaml: %w", err)
	}

	return d, nil
}

// LoadTriggers reads the trigger document at path.
func LoadTriggers(path string) ([]trigger.Trigger, error) {
	d, err := load("trigger document", path, ParseTriggers)
	if err != nil {
		return nil, err
	}

	return d.ToTriggers(), nil
}
