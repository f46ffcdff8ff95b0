package pet

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy decides what happens when decay drives hunger to zero.
type Policy string

const (
	// PolicyIdle leaves a starving pet at hunger 0 until it is fed.
	PolicyIdle Policy = "idle"

	// PolicyReset turns a starving pet back into an egg with a new species.
	PolicyReset Policy = "reset"
)

// Thresholds are the feed counts at which a pet advances or resets.
type Thresholds struct {
	// Child is the feed count at which a baby becomes a child.
	Child int `yaml:"child"`

	// Adult is the feed count at which a child becomes an adult.
	Adult int `yaml:"adult"`

	// Reset is the feed count at which the pet returns to an egg.
	Reset int `yaml:"reset"`
}

// Rules is the evolution table for a deployment.
type Rules struct {
	Thresholds Thresholds `yaml:"thresholds"`
	Species    []string   `yaml:"species"`
	Colors     []string   `yaml:"colors"`
	HungerZero Policy     `yaml:"hunger_zero"`
}

// DefaultRules returns the canonical evolution table.
func DefaultRules() Rules {
	return Rules{
		Thresholds: Thresholds{Child: 10, Adult: 20, Reset: 30},
		Species:    []string{"blob", "cat", "bunny", "dragon", "ghost", "frog"},
		Colors:     []string{"#f4a261", "#2a9d8f", "#e76f51", "#8ab17d", "#b5838d", "#6d6875"},
		HungerZero: PolicyIdle,
	}
}

// Validate checks that thresholds ascend and the palette is usable.
func (r Rules) Validate() error {
	t := r.Thresholds
	if t.Child <= 0 || t.Adult <= t.Child || t.Reset <= t.Adult {
		return fmt.Errorf("thresholds must satisfy 0 < child < adult < reset, got %d/%d/%d",
			t.Child, t.Adult, t.Reset)
	}
	if len(r.Species) == 0 {
		return errors.New("species palette is empty")
	}
	if len(r.Colors) == 0 {
		return errors.New("color palette is empty")
	}
	switch r.HungerZero {
	case PolicyIdle, PolicyReset:
	default:
		return fmt.Errorf("unknown hunger_zero policy %q", r.HungerZero)
	}
	return nil
}

// LoadRules reads a YAML rules file. Fields missing from the file keep their
// default values.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes a YAML rules document over the defaults and validates it.
func ParseRules(data []byte) (Rules, error) {
	rules := DefaultRules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("invalid rules: %w", err)
	}
	return rules, nil
}
