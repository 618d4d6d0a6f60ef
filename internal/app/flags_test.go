package app

import (
	"flag"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	c := NewConfig()
	if c.Biomorph != "mold" {
		t.Fatalf("default biomorph = %q", c.Biomorph)
	}
	if c.Scale != 3 || c.TPS != 60 || c.Seed != 1337 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.Width != 256 || c.Height != 256 {
		t.Fatalf("unexpected viewport defaults: %dx%d", c.Width, c.Height)
	}
}

func TestBindParsesFlags(t *testing.T) {
	c := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.Bind(fs)

	err := fs.Parse([]string{
		"-biomorph", "coral",
		"-seed", "99",
		"-scale", "2",
		"-width", "128",
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Biomorph != "coral" || c.Seed != 99 || c.Scale != 2 || c.Width != 128 {
		t.Fatalf("parsed config = %+v", c)
	}
	if c.Height != 256 {
		t.Fatalf("unset flag lost its default: %d", c.Height)
	}
}
