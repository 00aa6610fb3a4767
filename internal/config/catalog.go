package config

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog lists the fixed choices of the recruitment form and the channel
// topic text.
type Catalog struct {
	Topic      string   `yaml:"topic"`
	FirstHour  int      `yaml:"first_hour"`
	MinuteStep int      `yaml:"minute_step"`
	Capacities []int    `yaml:"capacities"`
	Industries []string `yaml:"industries"`
}

// LoadCatalog parses the embedded catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if c.MinuteStep < 1 || c.MinuteStep > 60 || 60%c.MinuteStep != 0 {
		return fmt.Errorf("catalog: minute_step must divide 60, got %d", c.MinuteStep)
	}
	if c.FirstHour < 0 || c.FirstHour > 23 {
		return fmt.Errorf("catalog: first_hour out of range: %d", c.FirstHour)
	}
	if len(c.Capacities) == 0 {
		return errors.New("catalog: capacities must not be empty")
	}
	for _, n := range c.Capacities {
		if n < 1 {
			return fmt.Errorf("catalog: capacity must be positive, got %d", n)
		}
	}
	// Discord select menus hold at most 25 options.
	if len(c.Capacities) > 25 || len(c.Industries) > 25 {
		return errors.New("catalog: at most 25 capacities and industries")
	}
	return nil
}

// Hours lists the 24 hours as two-digit strings, starting at FirstHour.
func (c *Catalog) Hours() []string {
	out := make([]string, 24)
	for i := range out {
		out[i] = fmt.Sprintf("%02d", (c.FirstHour+i)%24)
	}
	return out
}

// Minutes lists the selectable minutes as two-digit strings.
func (c *Catalog) Minutes() []string {
	out := make([]string, 0, 60/c.MinuteStep)
	for m := 0; m < 60; m += c.MinuteStep {
		out = append(out, fmt.Sprintf("%02d", m))
	}
	return out
}
