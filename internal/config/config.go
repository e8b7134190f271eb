// Package config loads cmd/ipldcat's configuration from a YAML file with
// environment variable overrides, the same two-step "parse YAML, then
// overlay PREFIX_FIELD env vars" shape as
// distribution/configuration.Parser.Parse — trimmed to a flat,
// unversioned struct since this module has no configuration schema
// history to migrate between.
package config

import (
	"os"
	"reflect"
	"strings"

	"gopkg.in/yaml.v2"
)

// EnvPrefix is prepended (with an underscore) to each field name to form
// the environment variable that overrides it, e.g. IPLDCAT_DEPTHLIMIT.
const EnvPrefix = "IPLDCAT"

// Config holds the settings cmd/ipldcat binds its global flags to.
type Config struct {
	DefaultCodec string `yaml:"defaultcodec"`
	DepthLimit   int    `yaml:"depthlimit"`
	LogLevel     string `yaml:"loglevel"`
}

// Default returns the configuration used when no file is given and no
// environment overrides are set.
func Default() Config {
	return Config{
		DefaultCodec: "dag-json",
		DepthLimit:   64,
		LogLevel:     "info",
	}
}

// Load parses data as YAML over a copy of Default, then applies any
// IPLDCAT_* environment overrides.
func Load(data []byte) (Config, error) {
	c := Default()
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, err
		}
	}
	if err := overlayEnv(&c, EnvPrefix); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadFile is Load, reading data from path first. A missing path is not
// an error: it simply means "use Default plus env overrides".
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Load(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Load(nil)
		}
		return Config{}, err
	}
	return Load(data)
}

// overlayEnv walks v's fields and, for each one named FIELD whose
// environment variable PREFIX_FIELD (uppercased) is set, unmarshals that
// value over the field via YAML — reusing YAML's scalar parsing so an
// override for an int field like DepthLimit doesn't need its own
// strconv path.
func overlayEnv(v interface{}, prefix string) error {
	rv := reflect.ValueOf(v).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		envName := strings.ToUpper(prefix + "_" + sf.Name)
		raw, ok := os.LookupEnv(envName)
		if !ok {
			continue
		}
		fieldPtr := reflect.New(sf.Type)
		if err := yaml.Unmarshal([]byte(raw), fieldPtr.Interface()); err != nil {
			return err
		}
		rv.Field(i).Set(fieldPtr.Elem())
	}
	return nil
}
