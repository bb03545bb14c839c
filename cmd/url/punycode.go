package main

import (
	"fmt"

	"github.com/shiroyk/url/idna"
	"github.com/spf13/cobra"
)

var unicodeFlag bool

func init() {
	cmd := &cobra.Command{
		Use:   "punycode <domain>...",
		Short: "Convert domains between Unicode and punycode ASCII form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, domain := range args {
				if unicodeFlag {
					fmt.Fprintln(out, idna.ToUnicode(domain))
					continue
				}
				ascii, err := idna.ToASCII(domain)
				if err != nil {
					return fmt.Errorf("to ascii %q: %w", domain, err)
				}
				fmt.Fprintln(out, ascii)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&unicodeFlag, "unicode", "u", false, "convert to Unicode instead of ASCII")
	rootCmd.AddCommand(cmd)
}
