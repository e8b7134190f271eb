// Command ipldcat encodes, decodes, converts, and enumerates links in
// IPLD blocks from the command line, exercising every codec in this
// module plus the bytes-walk link enumerator. Grounded on
// distribution/registry's cobra.Command tree (registry/root.go), trimmed
// from a server-process command to a pipe-oriented conversion tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-ipld/ipld-core/datamodel"
	"github.com/go-ipld/ipld-core/internal/config"
	"github.com/go-ipld/ipld-core/internal/log"
)

// kindOf reports the taxonomy name of err for diagnostic output, or ""
// if err isn't one of datamodel's decode errors.
func kindOf(err error) string {
	return datamodel.ErrorKind(err)
}

var (
	configPath string
	logLevel   string
	depthLimit int

	cfg config.Config
)

// RootCmd is the base command for the ipldcat binary.
var RootCmd = &cobra.Command{
	Use:   "ipldcat",
	Short: "`ipldcat` encodes, decodes, and inspects IPLD blocks",
	Long:  "`ipldcat` encodes, decodes, converts, and enumerates links in IPLD blocks",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadFile(configPath)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if depthLimit != 0 {
			cfg.DepthLimit = depthLimit
		}
		return log.SetLevel(cfg.LogLevel)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML configuration file")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (panic, fatal, error, warn, info, debug, trace)")
	RootCmd.PersistentFlags().IntVar(&depthLimit, "depth-limit", 0, "maximum decode recursion depth (0 uses the configured default)")

	RootCmd.AddCommand(encodeCmd)
	RootCmd.AddCommand(decodeCmd)
	RootCmd.AddCommand(convertCmd)
	RootCmd.AddCommand(linksCmd)
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		if kind := kindOf(err); kind != "" {
			fmt.Fprintf(os.Stderr, "%s: %v\n", kind, err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
