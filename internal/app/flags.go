package app

import "flag"

// Config represents the command-line parameters for the viewer.
type Config struct {
	Biomorph   string
	ConfigPath string
	Scale      int
	TPS        int
	Seed       int64
	Width      int
	Height     int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Biomorph: "mold", Scale: 3, TPS: 60, Seed: 1337, Width: 256, Height: 256}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Biomorph, "biomorph", c.Biomorph, "growth archetype (mold|bone|coral|mycelium|custom|colonize)")
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "optional YAML engine config")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.Width, "width", c.Width, "viewport width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "viewport height in pixels")
}
