//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Generates the demo assets and runs the demo window.
func (Run) Demo() error {
	mg.Deps(Assets.Generate)
	fmt.Println("Run demo...")
	if _, err := executeCmd("go", withArgs("run", "main.go", "-assets", assetDir), withStream()); err != nil {
		return err
	}
	return nil
}

// Prints the driver capability tables.
func (Run) Probe() error {
	_, err := executeCmd("go", withArgs("run", "./cmd/texprobe"), withStream())
	return err
}
