package config

// LookupFunc reads an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(name string) (string, bool)

// envMapping assigns environment variables to settings.
var envMapping = map[string]func(c *Config, v string){
	"PANES_LOG_LEVEL":    func(c *Config, v string) { c.Log.Level = v },
	"PANES_LOG_FILE":     func(c *Config, v string) { c.Log.File = v },
	"PANES_KEY_SCHEME":   func(c *Config, v string) { c.Keys.Scheme = v },
	"PANES_LUA_SCRIPT":   func(c *Config, v string) { c.Keys.LuaScript = v },
	"PANES_LAYOUT":       func(c *Config, v string) { c.UI.Layout = v },
	"PANES_CURSOR_STYLE": func(c *Config, v string) { c.UI.CursorStyle = v },
}

// EnvVars returns the recognised variable names.
func EnvVars() []string {
	names := make([]string, 0, len(envMapping))
	for name := range envMapping {
		names = append(names, name)
	}
	return names
}

// ApplyEnv overrides c with the variables lookup reports as set. Empty
// values are ignored.
func ApplyEnv(c *Config, lookup LookupFunc) {
	for name, set := range envMapping {
		if v, ok := lookup(name); ok && v != "" {
			set(c, v)
		}
	}
}
