package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaSource string

// profile mirrors #Settings. Nil fields were not set by the profile.
type profile struct {
	EnableDate32Results *bool   `json:"enable_date32_results"`
	SessionTimezone     *string `json:"session_timezone"`
	LogLevel            *string `json:"log_level"`
	LogFormat           *string `json:"log_format"`
}

// LoadProfile reads a CUE profile file and overlays it on base.
func LoadProfile(path string, base Settings) (Settings, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read profile: %w", err)
	}
	return ApplyProfile(src, path, base)
}

// ApplyProfile validates CUE source against #Settings and overlays every
// field it sets on base. Unknown fields are rejected.
func ApplyProfile(src []byte, filename string, base Settings) (Settings, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Settings{}, fmt.Errorf("compile settings schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Settings"))

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return Settings{}, fmt.Errorf("compile profile %s: %w", filename, err)
	}

	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Settings{}, fmt.Errorf("invalid profile %s: %w", filename, err)
	}

	var p profile
	if err := unified.Decode(&p); err != nil {
		return Settings{}, fmt.Errorf("decode profile %s: %w", filename, err)
	}

	out := base
	if p.EnableDate32Results != nil {
		out.EnableDate32Results = *p.EnableDate32Results
	}
	if p.SessionTimezone != nil {
		out.SessionTimezone = *p.SessionTimezone
	}
	if p.LogLevel != nil {
		out.LogLevel = *p.LogLevel
	}
	if p.LogFormat != nil {
		out.LogFormat = *p.LogFormat
	}
	return out, nil
}
