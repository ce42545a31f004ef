package thumbnails

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds configuration for the thumbnail pipeline.
type Config struct {
	// Enabled turns the image engine on. When false every Generate call is skipped.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Sizes lists the renditions as comma separated name=WIDTHxHEIGHT pairs.
	Sizes string `mapstructure:"sizes" default:"small=200x200,medium=800x800"`
	// SmallVariant names the rendition whose URL Generate returns.
	SmallVariant string `mapstructure:"small_variant" default:"small"`
	// Retries is the number of retries per size after the first attempt.
	Retries int `mapstructure:"retries" default:"2"`
	// RetryDelayMillis is the fixed pause between attempts.
	RetryDelayMillis int `mapstructure:"retry_delay_ms" default:"1000"`
	// Quality is the JPEG quality of generated renditions.
	Quality int `mapstructure:"quality" default:"80"`
}

// Spec is one target rendition.
type Spec struct {
	Name   string
	Width  int
	Height int
}

func (s Spec) String() string {
	return fmt.Sprintf("%s=%dx%d", s.Name, s.Width, s.Height)
}

// ParseSpecs parses "small=200x200,medium=800x800".
func ParseSpecs(raw string) ([]Spec, error) {
	var specs []Spec
	seen := make(map[string]bool)

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, dims, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("thumbnail size %q: expected name=WIDTHxHEIGHT", entry)
		}
		name = strings.TrimSpace(name)
		ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(dims)), "x")
		if name == "" || !ok {
			return nil, fmt.Errorf("thumbnail size %q: expected name=WIDTHxHEIGHT", entry)
		}

		w, err := strconv.Atoi(ws)
		if err != nil || w <= 0 {
			return nil, fmt.Errorf("thumbnail size %q: invalid width", entry)
		}
		h, err := strconv.Atoi(hs)
		if err != nil || h <= 0 {
			return nil, fmt.Errorf("thumbnail size %q: invalid height", entry)
		}
		if seen[name] {
			return nil, fmt.Errorf("thumbnail size %q: duplicate name", name)
		}
		seen[name] = true

		specs = append(specs, Spec{Name: name, Width: w, Height: h})
	}

	if len(specs) == 0 {
		return nil, fmt.Errorf("no thumbnail sizes configured")
	}
	return specs, nil
}
