package main

import (
	"bytes"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-ipld/ipld-core/codec/dagjson"
)

var decodeCodec string

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "read wire bytes in --codec from stdin, write a DAG-JSON rendering to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		codecName := decodeCodec
		if codecName == "" {
			codecName = cfg.DefaultCodec
		}
		dec, err := decoderFor(codecName, cfg.DepthLimit)
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

		var buf bytes.Buffer
		if err := dagjson.Encode(n, &buf); err != nil {
			return err
		}
		buf.WriteByte('\n')
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	},
}

func init() {
	decodeCmd.Flags().StringVar(&decodeCodec, "codec", "", "source wire codec: dag-cbor, dag-json, or dag-pb (default from configuration)")
}
