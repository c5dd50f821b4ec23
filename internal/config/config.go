// Package config collects the run settings shared by the commands from flags
// and an optional YAML file.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"hiekkapeli/internal/kernel"
	"hiekkapeli/internal/scenes"
)

// Sink kinds understood by the terminal runner.
const (
	SinkText = "text"
	SinkTerm = "term"
	SinkNone = "none"
)

var (
	ErrInvalid     = errors.New("invalid config")
	ErrUnknownSink = errors.New("unknown sink")
)

// Config represents the settings of one simulation run.
type Config struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Workers int    `yaml:"workers"`
	TPS     int    `yaml:"tps"`
	Scale   int    `yaml:"scale"`
	Seed    int64  `yaml:"seed"`
	Ticks   uint64 `yaml:"ticks"`

	Scene        string            `yaml:"scene"`
	SceneOptions map[string]string `yaml:"scene_options"`

	Sink   string `yaml:"sink"`
	Digest bool   `yaml:"digest"`

	Rules kernel.Params `yaml:"rules"`

	// File is the YAML file the config was loaded from, if any.
	File string `yaml:"-"`
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Width:        211,
		Height:       57,
		TPS:          60,
		Scale:        3,
		Seed:         42,
		Scene:        scenes.Default,
		SceneOptions: map[string]string{},
		Sink:         SinkText,
		Digest:       true,
		Rules:        kernel.DefaultParams(),
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.File, "config", c.File, "YAML file with settings; explicit flags override it")
	fs.IntVar(&c.Width, "width", c.Width, "grid width including walls")
	fs.IntVar(&c.Height, "height", c.Height, "grid height including walls")
	fs.IntVar(&c.Workers, "workers", c.Workers, "column workers (0 = GOMAXPROCS)")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second (0 = unpaced)")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for scene reset")
	fs.Uint64Var(&c.Ticks, "ticks", c.Ticks, "stop after this many ticks (0 = run until interrupted)")
	fs.StringVar(&c.Scene, "scene", c.Scene, "initial scene: "+strings.Join(sceneNames(), ", "))
	fs.StringVar(&c.Sink, "sink", c.Sink, "terminal output: text, term or none")
	fs.BoolVar(&c.Digest, "digest", c.Digest, "print the digest of the final frame")
	fs.Var(&kvList{apply: c.setSceneOption}, "set", "scene option in key=value form (repeatable)")
	fs.Var(&kvList{apply: c.Rules.Set}, "rule", "rule parameter in key=value form (repeatable)")
}

func sceneNames() []string {
	names := scenes.Names()
	if len(names) == 0 {
		return []string{scenes.Default}
	}
	return names
}

func (c *Config) setSceneOption(key, value string) error {
	if c.SceneOptions == nil {
		c.SceneOptions = map[string]string{}
	}
	c.SceneOptions[key] = value
	return nil
}

// Validate reports the first setting that cannot be run.
func (c *Config) Validate() error {
	switch {
	case c.Width < 1 || c.Height < 1:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalid, c.Width, c.Height)
	case c.Scale < 1:
		return fmt.Errorf("%w: scale %d", ErrInvalid, c.Scale)
	case c.TPS < 0:
		return fmt.Errorf("%w: tps %d", ErrInvalid, c.TPS)
	}
	if !slices.Contains([]string{SinkText, SinkTerm, SinkNone}, c.Sink) {
		return fmt.Errorf("%w: %q", ErrUnknownSink, c.Sink)
	}
	return nil
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	c := NewConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	c.File = path
	return c, nil
}

// Parse binds a fresh Config to fs and parses args. When -config names a
// file the file is loaded first and every flag given explicitly on the
// command line is applied on top of it.
func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	c := NewConfig()
	c.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.File == "" {
		return c, c.Validate()
	}

	loaded, err := Load(c.File)
	if err != nil {
		return nil, err
	}
	replay := flag.NewFlagSet(fs.Name(), flag.ContinueOnError)
	replay.SetOutput(io.Discard)
	loaded.Bind(replay)
	fs.Visit(func(f *flag.Flag) {
		if err != nil || f.Name == "config" {
			return
		}
		for _, v := range values(f) {
			if err = replay.Set(f.Name, v); err != nil {
				err = fmt.Errorf("flag -%s: %w", f.Name, err)
				return
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return loaded, loaded.Validate()
}

// values recovers what was passed for f. Repeatable flags report every pair.
func values(f *flag.Flag) []string {
	if kv, ok := f.Value.(*kvList); ok {
		return kv.pairs
	}
	return []string{f.Value.String()}
}

// kvList is a repeatable key=value flag. Each value may also hold several
// comma separated pairs.
type kvList struct {
	pairs []string
	apply func(key, value string) error
}

func (l *kvList) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(l.pairs, ",")
}

func (l *kvList) Set(value string) error {
	for _, pair := range strings.Split(value, ",") {
		key, val, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return fmt.Errorf("%q is not key=value", pair)
		}
		if err := l.apply(strings.TrimSpace(key), val); err != nil {
			return err
		}
		l.pairs = append(l.pairs, pair)
	}
	return nil
}
