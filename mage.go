//go:build ignore

// Bootstrapper so mage targets run without a mage install: go run mage.go <target>.
package main

import (
	"os"

	"github.com/magefile/mage/mage"
)

func main() { os.Exit(mage.Main()) }
