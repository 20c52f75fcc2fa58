package main

import (
	"fmt"
	"os"

	kexd "github.com/kexd/kexd/cmd/kexd-cli"
)

func main() {
	app := kexd.CLI()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}
