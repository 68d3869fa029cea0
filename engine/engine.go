package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"sync/atomic"

	"github.com/spaghettifunk/texloader/engine/assets"
	"github.com/spaghettifunk/texloader/engine/core"
	"github.com/spaghettifunk/texloader/engine/renderer"
	"github.com/spaghettifunk/texloader/engine/systems"
)

var ErrNotInitialized = errors.New("graphics not initialized")

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine has an asset source and is ready to be initialized
	EngineStageBootComplete
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// Window is the host surface the run loop presents to. WaitMessages blocks
// until an event arrives or a short timeout passes.
type Window interface {
	ShouldClose() bool
	PumpMessages()
	WaitMessages()
	SwapBuffers()
	OnResize(fn func(width, height uint32))
}

type Engine struct {
	config        *core.Config
	currentStage  Stage
	isRunning     atomic.Bool
	isSuspended   bool
	renderer      *renderer.Renderer
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	width         uint32
	height        uint32
	clock         *core.Clock
	metrics       core.FrameMetrics
}

func New(config *core.Config, backend renderer.RendererBackend) *Engine {
	r := renderer.New(backend)
	am := assets.NewAssetManager()
	return &Engine{
		config:        config,
		currentStage:  EngineStageUninitialized,
		renderer:      r,
		assetManager:  am,
		systemManager: systems.NewSystemManager(config, am, r),
		width:         config.Application.StartWidth,
		height:        config.Application.StartHeight,
		clock:         core.NewClock(),
	}
}

// SetAssetSource backs every asset read with fsys.
func (e *Engine) SetAssetSource(fsys fs.FS) error {
	if err := e.assetManager.SetSource(fsys); err != nil {
		return err
	}
	if e.currentStage == EngineStageUninitialized {
		e.currentStage = EngineStageBootComplete
	}
	return nil
}

// SetAssetDir backs asset reads with an OS directory and, when configured,
// keeps its index current.
func (e *Engine) SetAssetDir(dir string) error {
	if err := e.assetManager.SetSourceDir(dir); err != nil {
		return err
	}
	if e.config.Assets.Watch {
		if err := e.assetManager.Watch(); err != nil {
			core.LogWarn("asset watching disabled: %s", err)
		}
	}
	if e.currentStage == EngineStageUninitialized {
		e.currentStage = EngineStageBootComplete
	}
	return nil
}

func (e *Engine) AssetManager() *assets.AssetManager {
	return e.assetManager
}

func (e *Engine) Textures() *systems.TextureSystem {
	return e.systemManager.TextureSystem
}

// InitGraphics builds the shader program and viewport, probes the driver and
// loads the texture catalog. It must be called with the context current.
func (e *Engine) InitGraphics(width, height uint32) error {
	if e.currentStage >= EngineStageInitialized {
		return nil
	}
	e.width, e.height = width, height
	if err := e.renderer.Initialize(width, height); err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	if err := e.systemManager.Initialize(); err != nil {
		return err
	}
	e.currentStage = EngineStageInitialized
	core.LogInfo("graphics initialized at %dx%d", width, height)
	return nil
}

// DrawFrame clears the screen and draws one column per drawn texture slot.
func (e *Engine) DrawFrame() error {
	if e.currentStage < EngineStageInitialized {
		return ErrNotInitialized
	}
	return e.renderer.DrawFrame(e.systemManager.TextureSystem.DrawCommands())
}

// OnResize updates the viewport. A zero size suspends drawing until the
// window is restored.
func (e *Engine) OnResize(width, height uint32) {
	if width == e.width && height == e.height {
		return
	}
	e.width, e.height = width, height
	core.LogDebug("Window resize: %d, %d", width, height)

	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if err := e.renderer.OnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
}

// Run draws frames until the window closes or Stop is called.
func (e *Engine) Run(window Window) error {
	if e.currentStage < EngineStageInitialized {
		return ErrNotInitialized
	}
	window.OnResize(e.OnResize)
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)

	e.clock.Start()
	lastTime := e.clock.Elapsed()
	lastReport := lastTime

	for e.isRunning.Load() && !window.ShouldClose() {
		window.PumpMessages()
		if e.isSuspended {
			window.WaitMessages()
			continue
		}

		if err := e.DrawFrame(); err != nil {
			core.LogError("DrawFrame failed, shutting down: %s", err)
			e.isRunning.Store(false)
			return err
		}
		window.SwapBuffers()

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		e.metrics.Update(currentTime - lastTime)
		lastTime = currentTime

		if currentTime-lastReport >= 5 {
			core.LogDebug("%.0f fps, %.2f ms/frame", e.metrics.FPS(), e.metrics.FrameTime())
			lastReport = currentTime
		}
	}
	e.isRunning.Store(false)
	return nil
}

// Stop ends Run after the current frame. It is safe to call from any
// goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

// Shutdown releases the textures, the shader program and the asset watcher.
func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	if err := e.renderer.Shutdown(); err != nil {
		return err
	}
	if err := e.assetManager.Shutdown(); err != nil && !errors.Is(err, assets.ErrWatcherClosed) {
		return err
	}
	e.currentStage = EngineStageUninitialized
	return nil
}

// GetFramebufferSize returns the width and height (in this order) of the
// last known framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}
