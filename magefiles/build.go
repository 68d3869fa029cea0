//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Downloads the modules and builds every package and command.
func (Build) All() error {
	if _, err := executeCmd("go", withArgs("mod", "download")); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Builds the texprobe diagnostic tool into bin/.
func (Build) Probe() error {
	_, err := executeCmd("go", withArgs("build", "-o", "bin/texprobe", "./cmd/texprobe"), withStream())
	return err
}

type Test mg.Namespace

// Runs the unit tests.
func (Test) All() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}
