package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-ipld/ipld-core/codec/dagjson"
	"github.com/go-ipld/ipld-core/internal/log"
)

var encodeCodec string

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "read a DAG-JSON value from stdin, write wire bytes in --codec to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		codecName := encodeCodec
		if codecName == "" {
			codecName = cfg.DefaultCodec
		}
		enc, err := encoderFor(codecName)
		if err != nil {
			return err
		}

		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		n, err := dagjson.DecodeBytesWithDepth(data, cfg.DepthLimit)
		if err != nil {
			return err
		}
		log.L.Debugf("encode: parsed input value of kind %s", n.Kind())

		return enc(n, os.Stdout)
	},
}

func init() {
	encodeCmd.Flags().StringVar(&encodeCodec, "codec", "", "target wire codec: dag-cbor, dag-json, or dag-pb (default from configuration)")
}
