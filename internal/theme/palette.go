// Package theme holds the themable color variables of the chat widget and
// the contrast auto-correction that keeps them readable.
package theme

// Variable names of the themable colors. The set is fixed; overrides are
// persisted per name.
const (
	VarText        = "--chat-text"
	VarSurface     = "--chat-surface"
	VarUserText    = "--bubble-user-text"
	VarUserSurface = "--bubble-user-surface"
	VarBotText     = "--bubble-bot-text"
	VarBotSurface  = "--bubble-bot-surface"
)

// defaults are the shipped theme colors, used whenever a variable is unset.
var defaults = map[string]string{
	VarText:        "#3a3a3a",
	VarSurface:     "#fdfbf7",
	VarUserText:    "#ffffff",
	VarUserSurface: "#b08d57",
	VarBotText:     "#2d2d2d",
	VarBotSurface:  "#f3ead9",
}

// variableNames lists the fixed variable set in a stable order.
var variableNames = []string{
	VarText, VarSurface,
	VarUserText, VarUserSurface,
	VarBotText, VarBotSurface,
}

// Palette holds the current values of the themable variables. Reads fall back
// to the built-in defaults when a variable is unset.
type Palette struct {
	values map[string]string
}

// NewPalette returns a palette with every variable at its default.
func NewPalette() *Palette {
	return &Palette{values: make(map[string]string)}
}

// Get returns the current value of a variable, or its default when unset.
func (p *Palette) Get(name string) string {
	if v, ok := p.values[name]; ok {
		return v
	}
	return defaults[name]
}

// Set overrides the value of a variable. Names outside the fixed set are
// ignored.
func (p *Palette) Set(name, hex string) {
	if _, ok := defaults[name]; !ok {
		return
	}
	p.values[name] = hex
}

// Snapshot returns the current value of every variable in the fixed set,
// defaults included.
func (p *Palette) Snapshot() map[string]string {
	out := make(map[string]string, len(variableNames))
	for _, name := range variableNames {
		out[name] = p.Get(name)
	}
	return out
}
