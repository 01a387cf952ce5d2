// Package main implements the maintenance API binary: the HTTP server, the
// notifier process and the operational commands that support them.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
