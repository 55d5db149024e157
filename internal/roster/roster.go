// Package roster loads boxer rosters and fight cards from YAML and imports
// rosters through a boxer creator.
package roster

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/boxing/internal/game/boxer"
)

// Entry is one boxer in a roster file.
type Entry struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
	Height float64 `yaml:"height"`
	Reach  float64 `yaml:"reach"`
	Age    int     `yaml:"age"`
}

// Roster is the top-level roster document:
//
//	boxers:
//	  - name: Ali
//	    weight: 150
//	    height: 70
//	    reach: 72.5
//	    age: 30
type Roster struct {
	Boxers []Entry `yaml:"boxers"`
}

// LoadFromBytes parses and validates a roster document.
//
// Postcondition: Returns a Roster whose every entry passes boxer validation
// and whose names are unique (case-insensitive), or an error naming every
// offending entry.
func LoadFromBytes(data []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}
	if len(r.Boxers) == 0 {
		return nil, errors.New("roster has no boxers")
	}

	var errs []error
	seen := make(map[string]int, len(r.Boxers))
	for i, e := range r.Boxers {
		if _, err := e.Boxer(); err != nil {
			errs = append(errs, fmt.Errorf("entry %d (%q): %w", i+1, e.Name, err))
			continue
		}
		key := strings.ToLower(strings.TrimSpace(e.Name))
		if first, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("entry %d (%q): duplicates entry %d", i+1, e.Name, first))
			continue
		}
		seen[key] = i + 1
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid roster: %w", errors.Join(errs...))
	}
	return &r, nil
}

// LoadFile reads and validates the roster at path.
func LoadFile(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster %s: %w", path, err)
	}
	r, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Boxer converts the entry into an unpersisted, validated boxer.
func (e Entry) Boxer() (*boxer.Boxer, error) {
	return boxer.New(e.Name, e.Weight, e.Height, e.Reach, e.Age)
}
