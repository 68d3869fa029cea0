//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/spaghettifunk/texloader/engine/core"
	"github.com/spaghettifunk/texloader/testbed"
)

const assetDir = "assets"

type Assets mg.Namespace

// Writes the synthetic demo textures into assets/.
func (Assets) Generate() error {
	return testbed.Generate(assetDir, core.DefaultConfig().Textures)
}
