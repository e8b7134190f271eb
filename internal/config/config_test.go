package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c != Default() {
		t.Fatalf("got %+v want %+v", c, Default())
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	c, err := Load([]byte("defaultcodec: dag-cbor\ndepthlimit: 10\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DefaultCodec != "dag-cbor" || c.DepthLimit != 10 {
		t.Fatalf("unexpected config: %+v", c)
	}
	if c.LogLevel != Default().LogLevel {
		t.Fatalf("expected untouched field to keep its default, got %q", c.LogLevel)
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	os.Setenv("IPLDCAT_DEPTHLIMIT", "5")
	defer os.Unsetenv("IPLDCAT_DEPTHLIMIT")

	c, err := Load([]byte("depthlimit: 10\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DepthLimit != 5 {
		t.Fatalf("expected env override to win, got %d", c.DepthLimit)
	}
}
