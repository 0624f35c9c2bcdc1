package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// The logger may not exist yet, so the failure is written as a
		// JSON line by hand.
		line, _ := json.Marshal(map[string]string{
			"op":    "main",
			"level": "fatal",
			"msg":   err.Error(),
		})
		fmt.Fprintln(os.Stderr, string(line))
		os.Exit(1)
	}
}
