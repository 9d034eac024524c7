package theme

import (
	"encoding/json"
	"math"

	"loreal-chat/internal/colormath"
)

const (
	overridesKey = "loreal_color_adjusts"
	themeKey     = "loreal_theme"

	// DefaultTargetRatio is the WCAG AA contrast ratio for normal text.
	DefaultTargetRatio = 4.5

	maxAttempts = 24
	black       = "#000000"
)

// Pair names a foreground variable checked against a background variable.
type Pair struct {
	Foreground string
	Background string
}

// contrastPairs is the fixed list the corrector sweeps, in order.
var contrastPairs = []Pair{
	{VarText, VarSurface},
	{VarUserText, VarUserSurface},
	{VarBotText, VarBotSurface},
}

// Storage is the durable key-value store the corrector persists into.
type Storage interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
}

// Corrector darkens foreground colors toward black until each contrast pair
// meets the target ratio or the attempt budget runs out. It only ever
// darkens: against a dark background the best-effort result is accepted
// silently even when the target was never reached.
type Corrector struct {
	storage Storage
	target  float64
}

// Option configures a Corrector.
type Option func(*Corrector)

// WithTargetRatio overrides the contrast ratio the corrector aims for.
func WithTargetRatio(target float64) Option {
	return func(c *Corrector) {
		if target > 0 {
			c.target = target
		}
	}
}

// NewCorrector returns a Corrector persisting overrides into storage.
// A nil storage is allowed; adjustments then apply to the palette only.
func NewCorrector(storage Storage, opts ...Option) *Corrector {
	c := &Corrector{storage: storage, target: DefaultTargetRatio}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run sweeps the contrast pairs on the palette. Each adjusted foreground is
// applied immediately so later pairs and reads observe it. When at least one
// variable changed, the current values of the whole variable set are
// persisted as overrides. Returns whether anything changed.
func (c *Corrector) Run(p *Palette) bool {
	changed := false
	for _, pair := range contrastPairs {
		fg := p.Get(pair.Foreground)
		bg := p.Get(pair.Background)

		ratio, err := colormath.ContrastRatio(fg, bg)
		if err != nil {
			// Unreadable pair values: leave them alone.
			continue
		}
		attempts := 0
		for ratio < c.target && attempts < maxAttempts {
			step := math.Min(1, 0.06+float64(attempts)*0.02)
			next, err := colormath.LerpColor(fg, black, step)
			if err != nil {
				break
			}
			fg = next
			p.Set(pair.Foreground, fg)
			changed = true

			ratio, err = colormath.ContrastRatio(fg, bg)
			if err != nil {
				break
			}
			attempts++
		}
	}
	if changed {
		c.persist(p)
	}
	return changed
}

// persist writes the full variable snapshot as the overrides record. Losing
// the write costs durability only, so failures are swallowed.
func (c *Corrector) persist(p *Palette) {
	if c.storage == nil {
		return
	}
	raw, err := json.Marshal(p.Snapshot())
	if err != nil {
		return
	}
	_ = c.storage.Put(overridesKey, raw)
}

// LoadOverrides applies the persisted overrides record to the palette
// verbatim. Absent or unreadable records are ignored; unknown variable names
// in the record are dropped.
func LoadOverrides(storage Storage, p *Palette) {
	if storage == nil {
		return
	}
	raw, ok, err := storage.Get(overridesKey)
	if err != nil || !ok {
		return
	}
	var overrides map[string]string
	if err := json.Unmarshal(raw, &overrides); err != nil {
		return
	}
	for name, hex := range overrides {
		p.Set(name, hex)
	}
}

// SetTheme persists the selected theme identifier.
func SetTheme(storage Storage, name string) {
	if storage == nil || name == "" {
		return
	}
	_ = storage.Put(themeKey, []byte(name))
}

// CurrentTheme returns the persisted theme identifier, if any.
func CurrentTheme(storage Storage) (string, bool) {
	if storage == nil {
		return "", false
	}
	raw, ok, err := storage.Get(themeKey)
	if err != nil || !ok || len(raw) == 0 {
		return "", false
	}
	return string(raw), true
}
