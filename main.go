// Command naturebindgen generates Nature bindings from a C header.
package main

import (
	"os"
)

func main() {
	if err := execute(newRootCommand()); err != nil {
		os.Exit(1)
	}
}
