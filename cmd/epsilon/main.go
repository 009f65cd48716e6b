// Command epsilon inspects files written by the epsilon serialization
// engine and profiles it.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
