// Command pdfchat is a terminal client for chatting with PDF documents
// through a remote question-answering service.
package main

import (
	"os"

	"github.com/custodia-labs/pdfchat/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
