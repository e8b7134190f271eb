// Package log is the ambient logging setup shared by cmd/ipldcat. It
// wraps a single package-level logrus.Logger the way
// distribution/registry configures the global logrus logger from its
// configuration's Log.Level field, trimmed to the one knob this module
// needs (a level string, no formatter/hook selection).
package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

// L is the shared logger every command in cmd/ipldcat writes through.
var L = logrus.New()

func init() {
	L.Out = os.Stderr
	L.Formatter = &logrus.TextFormatter{FullTimestamp: true}
}

// SetLevel parses level (one of logrus's level names, case-insensitive)
// and applies it to L. An empty string leaves the default level
// (logrus.InfoLevel) in place.
func SetLevel(level string) error {
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	L.SetLevel(lvl)
	return nil
}
