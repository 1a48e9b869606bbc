package verify

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

// Check names accepted by Config.Disable.
const (
	CheckEntryBlock     = "entry-block"
	CheckBlockSealed    = "block-sealed"
	CheckTerminatorLast = "terminator-last"
	CheckParentLinks    = "parent-links"
	CheckSuccessorOwner = "successor-owner"
	CheckOperandDefined = "operand-defined"
	CheckOperandOrder   = "operand-order"
	CheckReturnValue    = "return-value"
)

// Checks lists every check in the order the verifier runs them.
var Checks = []string{
	CheckEntryBlock,
	CheckBlockSealed,
	CheckTerminatorLast,
	CheckParentLinks,
	CheckSuccessorOwner,
	CheckOperandDefined,
	CheckOperandOrder,
	CheckReturnValue,
}

// Config selects what the verifier reports.
type Config struct {
	// MaxErrors stops verification after that many findings. Zero means
	// no limit.
	MaxErrors int `yaml:"max_errors"`
	// Disable names checks to skip.
	Disable []string `yaml:"disable"`
	// AllowOpenBlocks accepts blocks without a terminator, for functions
	// that are still being lowered.
	AllowOpenBlocks bool `yaml:"allow_open_blocks"`
}

// DefaultConfig runs every check without a finding limit.
func DefaultConfig() Config {
	return Config{}
}

// ParseConfig decodes a YAML configuration. Empty input yields the
// default configuration.
func ParseConfig(data []byte) (Config, error) {
	return LoadConfig(bytes.NewReader(data))
}

// LoadConfig decodes a YAML configuration from r. Unknown keys and
// unknown check names are errors.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode verifier config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration values the verifier cannot honour.
func (c Config) Validate() error {
	if c.MaxErrors < 0 {
		return fmt.Errorf("max_errors must not be negative, got %d", c.MaxErrors)
	}
	for _, name := range c.Disable {
		if !slices.Contains(Checks, name) {
			return fmt.Errorf("unknown check %q", name)
		}
	}
	return nil
}

func (c Config) enabled(check string) bool {
	if check == CheckBlockSealed && c.AllowOpenBlocks {
		return false
	}
	return !slices.Contains(c.Disable, check)
}
