package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/edgeabyss/ridersim/internal/core/rider"
)

//go:embed tuning/profiles.yaml
var defaultProfilesYAML []byte

// TuningProfiles maps a rider kind to its tuning knobs.
type TuningProfiles map[rider.Kind]rider.Tuning

// LoadTuningProfiles loads rider profiles from path, or the embedded
// defaults when path is empty.
func LoadTuningProfiles(path string) (TuningProfiles, error) {
	data := defaultProfilesYAML
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read tuning profiles: %w", err)
		}
	}
	return ParseTuningProfiles(data)
}

func ParseTuningProfiles(data []byte) (TuningProfiles, error) {
	var raw map[string]rider.Tuning
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse tuning profiles: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("tuning profiles: no rider kinds defined")
	}

	profiles := make(TuningProfiles, len(raw))
	for name, t := range raw {
		t = t.WithDefaults()
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("tuning profile %q: %w", name, err)
		}
		profiles[rider.Kind(name)] = t
	}
	return profiles, nil
}

// For returns the profile for a kind.
func (p TuningProfiles) For(kind rider.Kind) (rider.Tuning, bool) {
	t, ok := p[kind]
	return t, ok
}
