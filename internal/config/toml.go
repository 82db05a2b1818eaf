package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jsemit/chunkgen/internal/helpers"
)

type optionsFile struct {
	Output struct {
		Format    string            `toml:"format"`
		Exports   string            `toml:"exports"`
		Name      string            `toml:"name"`
		Extend    bool              `toml:"extend"`
		EsModule  any               `toml:"es_module"`
		Interop   string            `toml:"interop"`
		SourceMap any               `toml:"sourcemap"`
		Cwd       string            `toml:"cwd"`
		Dir       string            `toml:"dir"`
		Banner    string            `toml:"banner"`
		Intro     string            `toml:"intro"`
		Outro     string            `toml:"outro"`
		Footer    string            `toml:"footer"`
		Globals   map[string]string `toml:"globals"`

		Amd struct {
			ID                         string `toml:"id"`
			Define                     string `toml:"define"`
			AutoID                     bool   `toml:"auto_id"`
			BasePath                   string `toml:"base_path"`
			ForceJsExtensionForImports bool   `toml:"force_js_extension_for_imports"`
		} `toml:"amd"`

		GeneratedCode struct {
			Preset               string `toml:"preset"`
			Symbols              bool   `toml:"symbols"`
			ReservedNamesAsProps *bool  `toml:"reserved_names_as_props"`
		} `toml:"generated_code"`
	} `toml:"output"`
}

var optionKeyTypos = helpers.MakeTypoDetector([]string{
	"output.format", "output.exports", "output.name", "output.extend", "output.es_module",
	"output.interop", "output.sourcemap", "output.cwd", "output.dir", "output.banner",
	"output.intro", "output.outro", "output.footer", "output.globals",
	"output.amd.id", "output.amd.define", "output.amd.auto_id", "output.amd.base_path",
	"output.amd.force_js_extension_for_imports", "output.generated_code.preset",
	"output.generated_code.symbols", "output.generated_code.reserved_names_as_props",
})

// Reads output options from the "[output]" table of a TOML file. Relative
// "cwd" values are resolved against the directory containing the file.
func LoadOptionsFile(path string) (Options, error) {
	var file optionsFile
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return Options{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
			if corrected, ok := optionKeyTypos.MaybeCorrectTypo(keys[i]); ok {
				keys[i] += fmt.Sprintf(" (did you mean %q?)", corrected)
			}
		}
		return Options{}, fmt.Errorf("%s: unknown option(s): %s", path, strings.Join(keys, ", "))
	}

	options, err := file.toOptions()
	if err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	if !meta.IsDefined("output", "cwd") {
		options.Cwd = filepath.Dir(path)
	} else if !filepath.IsAbs(options.Cwd) {
		options.Cwd = filepath.Join(filepath.Dir(path), options.Cwd)
	}
	return options, nil
}

// Decodes options from TOML text. Relative paths are left as they are.
func ParseOptions(text string) (Options, error) {
	var file optionsFile
	if _, err := toml.Decode(text, &file); err != nil {
		return Options{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return file.toOptions()
}

func (file *optionsFile) toOptions() (Options, error) {
	out := &file.Output
	options := Options{
		Name:    out.Name,
		Extend:  out.Extend,
		Cwd:     out.Cwd,
		Dir:     out.Dir,
		Globals: out.Globals,
		Interop: ParseInteropMode(out.Interop),
		Amd: AmdOptions{
			ID:                         out.Amd.ID,
			Define:                     out.Amd.Define,
			AutoID:                     out.Amd.AutoID,
			BasePath:                   out.Amd.BasePath,
			ForceJsExtensionForImports: out.Amd.ForceJsExtensionForImports,
		},
		GeneratedCode: GeneratedCodeOptions{
			Symbols: out.GeneratedCode.Symbols,
		},
	}
	var err error

	if out.Format != "" {
		if options.Format, err = ParseFormat(out.Format); err != nil {
			return Options{}, err
		}
	}
	if options.Exports, err = ParseOutputExports(out.Exports); err != nil {
		return Options{}, err
	}
	if options.EsModule, err = ParseEsModuleFlag(boolOrString(out.EsModule)); err != nil {
		return Options{}, err
	}
	if options.SourceMap, err = ParseSourceMap(boolOrString(out.SourceMap)); err != nil {
		return Options{}, err
	}
	if options.GeneratedCode.Preset, err = ParseGeneratedCodePreset(out.GeneratedCode.Preset); err != nil {
		return Options{}, err
	}
	if props := out.GeneratedCode.ReservedNamesAsProps; props != nil {
		options.GeneratedCode.QuoteReservedNames = !*props
	}

	if out.Amd.AutoID && out.Amd.ID != "" {
		return Options{}, fmt.Errorf("\"output.amd.id\" cannot be used together with \"output.amd.auto_id\"")
	}
	if out.Amd.BasePath != "" && !out.Amd.AutoID {
		return Options{}, fmt.Errorf("\"output.amd.base_path\" only works with \"output.amd.auto_id\"")
	}

	options.Banner = staticAddonOrNil(out.Banner)
	options.Intro = staticAddonOrNil(out.Intro)
	options.Outro = staticAddonOrNil(out.Outro)
	options.Footer = staticAddonOrNil(out.Footer)
	return options, nil
}

// Some options accept either a boolean or a keyword
func boolOrString(value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "true"
		}
		return "false"
	case string:
		return v
	}
	return ""
}

func staticAddonOrNil(text string) AddonHook {
	if text == "" {
		return nil
	}
	return StaticAddon(text)
}
