// Command url parses, resolves and explains URLs from the command line.
// It is a thin binding over the engine; the engine itself exposes no
// CLI or network surface.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
