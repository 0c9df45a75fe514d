package preset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Well-known wildcard tokens recognized in preset paths and values.
const (
	WildcardContentDir       = "CONTENT-DIR"
	WildcardCore             = "CORE"
	WildcardGame             = "GAME"
	WildcardPreset           = "PRESET"
	WildcardPresetDir        = "PRESET_DIR"
	WildcardVideoDriver      = "VID-DRV"
	WildcardCoreRequestedRot = "CORE-REQ-ROT"
	WildcardUserRotation     = "VID-USER-ROT"
	WildcardFinalRotation    = "VID-FINAL-ROT"
	WildcardScreenOrient     = "SCREEN-ORIENT"
	WildcardViewAspectOrient = "VIEW-ASPECT-ORIENT"
	WildcardCoreAspectOrient = "CORE-ASPECT-ORIENT"
	WildcardShaderExtension  = "VID-DRV-SHADER-EXT"
	WildcardPresetExtension  = "VID-DRV-PRESET-EXT"
)

// Context is an ordered wildcard substitution map: later insertions override
// earlier ones with the same key, an "append" priority model.
type Context struct {
	order []string
	vals  map[string]string
}

// NewContext returns an empty wildcard context.
func NewContext() *Context {
	return &Context{vals: make(map[string]string)}
}

// Set inserts or overrides a wildcard token. The most recent Set for a given
// key wins.
func (c *Context) Set(key, value string) {
	key = strings.ToUpper(key)
	if _, ok := c.vals[key]; !ok {
		c.order = append(c.order, key)
	}
	c.vals[key] = value
}

// Get returns the replacement text for a wildcard token.
func (c *Context) Get(key string) (string, bool) {
	v, ok := c.vals[strings.ToUpper(key)]
	return v, ok
}

// WithPresetDefaults populates PRESET_DIR and PRESET from a preset's own
// path, without overriding values already present. CONTENT-DIR, CORE,
// GAME and the other wildcards are not set here.
func (c *Context) WithPresetDefaults(presetPath string) *Context {
	abs, err := filepath.Abs(presetPath)
	if err != nil {
		abs = presetPath
	}
	dir := filepath.Dir(abs)
	base := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))

	c.setDefault(WildcardPresetDir, dir)
	c.setDefault(WildcardPreset, base)
	return c
}

// ResolveFinalRotation derives VID-FINAL-ROT:
// FINAL = (CORE-REQ + USER) mod 4 when both are present, else whichever
// exists.
func (c *Context) ResolveFinalRotation() (int, bool) {
	req, reqOK := c.rotationValue(WildcardCoreRequestedRot)
	user, userOK := c.rotationValue(WildcardUserRotation)
	switch {
	case reqOK && userOK:
		return (req + user) % 4, true
	case reqOK:
		return req % 4, true
	case userOK:
		return user % 4, true
	default:
		return 0, false
	}
}

func (c *Context) rotationValue(key string) (int, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return 0, false
	}
	return n, true
}

func (c *Context) setDefault(key, value string) {
	key = strings.ToUpper(key)
	if _, ok := c.vals[key]; ok {
		return
	}
	// defaults are lowest priority: insert at the front of the order.
	c.order = append([]string{key}, c.order...)
	c.vals[key] = value
}

// resolvePath substitutes every $TOKEN$ in value: replacement happens
// per path-component, never across separators, and
// the substituted path is adopted only if it exists on disk; otherwise the
// original text is kept untouched.
func resolvePath(value string, ctx *Context) string {
	if ctx == nil || !strings.Contains(value, "$") {
		return value
	}

	substituted := substituteWildcards(value, ctx)
	if substituted == value {
		return value
	}
	if _, err := os.Stat(substituted); err == nil {
		return substituted
	}
	Logger().Warn("wildcard-substituted path does not exist, falling back to literal", "value", value, "substituted", substituted)
	return value
}

// substituteWildcards replaces $TOKEN$ substrings component-by-component so
// that a token spanning a path separator is never matched.
func substituteWildcards(value string, ctx *Context) string {
	parts := strings.Split(value, string(filepath.Separator))
	for i, part := range parts {
		parts[i] = substituteInComponent(part, ctx)
	}
	return strings.Join(parts, string(filepath.Separator))
}

func substituteInComponent(component string, ctx *Context) string {
	var b strings.Builder
	i := 0
	for i < len(component) {
		if component[i] != '$' {
			b.WriteByte(component[i])
			i++
			continue
		}
		end := strings.IndexByte(component[i+1:], '$')
		if end < 0 {
			b.WriteString(component[i:])
			break
		}
		token := component[i+1 : i+1+end]
		if v, ok := ctx.Get(token); ok {
			b.WriteString(v)
		} else {
			b.WriteString(component[i : i+1+end+1])
		}
		i += end + 2
	}
	return b.String()
}
