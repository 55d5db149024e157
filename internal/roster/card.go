package roster

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pairing is one scheduled bout between two boxers, named as stored.
// First is admitted to the ring first.
type Pairing struct {
	First  string `yaml:"first"`
	Second string `yaml:"second"`
}

func (p Pairing) String() string {
	return p.First + " vs " + p.Second
}

// Card is a fight-card document, fought top to bottom:
//
//	bouts:
//	  - first: Samantha
//	    second: Ali
type Card struct {
	Bouts []Pairing `yaml:"bouts"`
}

// LoadCardFromBytes parses and validates a fight card.
//
// Postcondition: Returns a Card whose every pairing names two different
// boxers, or an error naming every offending bout.
func LoadCardFromBytes(data []byte) (*Card, error) {
	var c Card
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing card: %w", err)
	}
	if len(c.Bouts) == 0 {
		return nil, errors.New("card has no bouts")
	}

	var errs []error
	for i, p := range c.Bouts {
		first, second := strings.TrimSpace(p.First), strings.TrimSpace(p.Second)
		switch {
		case first == "" || second == "":
			errs = append(errs, fmt.Errorf("bout %d: both corners must name a boxer", i+1))
		case strings.EqualFold(first, second):
			errs = append(errs, fmt.Errorf("bout %d: %q cannot fight themselves", i+1, first))
		default:
			c.Bouts[i] = Pairing{First: first, Second: second}
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid card: %w", errors.Join(errs...))
	}
	return &c, nil
}

// LoadCardFile reads and validates the fight card at path.
func LoadCardFile(path string) (*Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading card %s: %w", path, err)
	}
	c, err := LoadCardFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
