package main

import (
	"fmt"
	"os"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multibase"
	"github.com/spf13/cobra"

	"github.com/go-ipld/ipld-core/linking"
)

var (
	linksCodec string
	linksBase  string
)

var baseNames = map[string]multibase.Encoding{
	"base16":    multibase.Base16,
	"base32":    multibase.Base32,
	"base58btc": multibase.Base58BTC,
	"base64":    multibase.Base64,
}

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "print every CID referenced by a block, one per line, without decoding it fully",
	RunE: func(cmd *cobra.Command, args []string) error {
		codecName := linksCodec
		if codecName == "" {
			codecName = cfg.DefaultCodec
		}
		walk, err := linksWalkerFor(codecName)
		if err != nil {
			return err
		}

		var base multibase.Encoding
		haveBase := false
		if linksBase != "" {
			b, ok := baseNames[linksBase]
			if !ok {
				return fmt.Errorf("unknown --base %q (want one of base16, base32, base58btc, base64)", linksBase)
			}
			base, haveBase = b, true
		}

		var walkErr error
		err = walk(os.Stdin, func(r interface{ String() string }) {
			if !haveBase {
				fmt.Println(r.String())
				return
			}
			c, ok := r.(cid.Cid)
			if !ok {
				fmt.Println(r.String())
				return
			}
			s, ferr := linking.FormatString(c, base)
			if ferr != nil {
				walkErr = ferr
				return
			}
			fmt.Println(s)
		})
		if err != nil {
			return err
		}
		return walkErr
	},
}

func init() {
	linksCmd.Flags().StringVar(&linksCodec, "codec", "", "wire codec to walk: dag-cbor, dag-json, or dag-pb (default from configuration)")
	linksCmd.Flags().StringVar(&linksBase, "base", "", "multibase encoding for printed CIDs: base16, base32, base58btc, base64 (default: the CID's own preferred base)")
}
