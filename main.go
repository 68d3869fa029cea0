/*
Demo host for the texture loader: opens a GLES 3 window and draws one
column per texture format.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/texloader/engine"
	"github.com/spaghettifunk/texloader/engine/core"
	"github.com/spaghettifunk/texloader/engine/platform"
	"github.com/spaghettifunk/texloader/engine/renderer/opengl"
)

func main() {
	configPath := flag.String("config", core.DefaultConfigFile, "path to the TOML configuration")
	assetDir := flag.String("assets", "", "asset directory, overrides the configuration")
	flag.Parse()

	cfg, err := core.LoadConfig(*configPath)
	if err != nil {
		core.LogFatal("failed to load configuration: %s", err)
	}
	if *assetDir != "" {
		cfg.Assets.Dir = *assetDir
	}
	core.SetLogLevel(core.ParseLogLevel(cfg.Application.LogLevel))

	p := platform.New()
	app := cfg.Application
	if err := p.Startup(app.Name, app.StartPosX, app.StartPosY, app.StartWidth, app.StartHeight); err != nil {
		core.LogFatal("failed to start platform: %s", err)
	}

	e := engine.New(cfg, opengl.New())
	if err := e.SetAssetDir(cfg.Assets.Dir); err != nil {
		core.LogFatal("failed to open asset directory %s: %s", cfg.Assets.Dir, err)
	}

	width, height := p.FramebufferSize()
	if err := e.InitGraphics(width, height); err != nil {
		core.LogFatal(err.Error())
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	go func() {
		<-sigCh
		e.Stop()
	}()
	p.OnClose(e.Stop)

	runErr := e.Run(p)

	if err := e.Shutdown(); err != nil {
		core.LogError("engine shutdown: %s", err)
	}
	if err := p.Shutdown(); err != nil {
		core.LogError("platform shutdown: %s", err)
	}
	if runErr != nil {
		os.Exit(1)
	}
}
