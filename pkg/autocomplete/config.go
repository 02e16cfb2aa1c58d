package autocomplete

// DefaultMinTriggerLength is the input length (in runes) that must be exceeded
// before OnInput resolves automatically.
const DefaultMinTriggerLength = 3

// Config holds the per-widget options. It is fixed for the lifetime of a State.
type Config struct {
	// AutoResolve resolves on every qualifying keystroke. When false the
	// caller triggers resolution with State.Resolve.
	AutoResolve bool `toml:"auto_resolve"`
	// MultiSelect accumulates distinct selections instead of replacing them.
	MultiSelect bool `toml:"multi_select"`
	// ShowSelected is a rendering hint; the state machine ignores it.
	ShowSelected bool `toml:"show_selected"`
	// MinTriggerLength only applies when AutoResolve is on.
	MinTriggerLength int `toml:"min_trigger_length"`
}

// DefaultConfig returns the immediate, single-select configuration.
func DefaultConfig() Config {
	return Config{
		AutoResolve:      true,
		MultiSelect:      false,
		ShowSelected:     false,
		MinTriggerLength: DefaultMinTriggerLength,
	}
}

func (c Config) normalized() Config {
	if c.MinTriggerLength < 0 {
		c.MinTriggerLength = 0
	}
	return c
}
