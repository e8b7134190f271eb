package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	convertFrom string
	convertTo   string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "decode --from and re-encode --to, exercising kind preservation across codecs",
	RunE: func(cmd *cobra.Command, args []string) error {
		dec, err := decoderFor(convertFrom, cfg.DepthLimit)
		if err != nil {
			return err
		}
		enc, err := encoderFor(convertTo)
		if err != nil {
			return err
		}

		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		n, err := dec(data)
		if err != nil {
			return err
		}
		return enc(n, os.Stdout)
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertFrom, "from", "", "source wire codec")
	convertCmd.Flags().StringVar(&convertTo, "to", "", "target wire codec")
	_ = convertCmd.MarkFlagRequired("from")
	_ = convertCmd.MarkFlagRequired("to")
}
