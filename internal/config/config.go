// Package config loads the front end's project-level tunables: the VF2500
// parser error threshold (§9 open question) and the lexer's block-comment
// nesting cap and project-reserved-word overrides. Values come from an
// optional YAML file, matching the teacher's gopkg.in/yaml.v3 usage for
// its own manifest/spec loading (internal/eval_harness.LoadSpec), with
// hard-coded defaults filled in for anything the file omits or when no file
// is given at all.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables this front end's phases accept as overrides of
// their built-in defaults.
type Config struct {
	// MaxParseErrors is the VF2500 threshold: how many recoverable parse
	// errors accumulate before the parser gives up on the file. 0 (the
	// zero value, also the YAML default when the key is absent) means
	// "use the parser's own built-in default".
	MaxParseErrors int `yaml:"max_parse_errors"`

	// MaxCommentDepth caps how deeply `/* */` block comments may nest
	// before the lexer reports VF1300 rather than looping forever on a
	// runaway or adversarial input. 0 means "use the lexer's default".
	MaxCommentDepth int `yaml:"max_comment_depth"`

	// ReservedWords lists additional identifiers this project wants
	// rejected with VF1500, on top of the language's own
	// lexer.ReservedForFuture list — a forward-compatibility escape
	// hatch for a project migrating toward a future language revision
	// before the front end itself reserves the word.
	ReservedWords []string `yaml:"reserved_words"`
}

// Default returns the zero-tunable Config: every phase falls back to its
// own built-in default.
func Default() Config {
	return Config{}
}

// Load reads cfg from path (a YAML file, conventionally named veil.yaml),
// applying Default() for anything the file doesn't set. A missing file is
// not an error: it is treated the same as an empty one, so a project with
// no veil.yaml still compiles with the built-in defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// ReservedWordSet turns ReservedWords into the map shape
// lexer.TokenizeWithLimits expects, or nil when there are none (so callers
// can pass it straight through without an extra nil-check).
func (c Config) ReservedWordSet() map[string]bool {
	if len(c.ReservedWords) == 0 {
		return nil
	}
	set := make(map[string]bool, len(c.ReservedWords))
	for _, w := range c.ReservedWords {
		set[w] = true
	}
	return set
}
