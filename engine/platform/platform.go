package platform

import (
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/texloader/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// waitTimeout is in seconds.
const waitTimeout = 0.1

type Platform struct {
	Window *glfw.Window

	onResize func(width, height uint32)
	onClose  func()
}

func New() *Platform {
	return &Platform{}
}

// Startup opens a window with an OpenGL ES 3.0 context and makes the context
// current on the calling thread.
func (p *Platform) Startup(applicationName string, x, y, width, height uint32) error {
	if err := p.createWindow(applicationName, width, height); err != nil {
		return err
	}
	p.Window.SetKeyCallback(p.keyCallback)
	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.SetPos(int(x), int(y))
	p.Window.Show()

	return nil
}

// StartupHidden creates the context on a window that is never shown, for
// tools that only query the driver.
func (p *Platform) StartupHidden(applicationName string) error {
	return p.createWindow(applicationName, 64, 64)
}

func (p *Platform) createWindow(applicationName string, width, height uint32) error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 0)

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		glfw.Terminate()
		return err
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)
	p.Window = window
	return nil
}

// StartupHeadless initializes glfw without a window, enough to query the
// Vulkan loader.
func (p *Platform) StartupHeadless() error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}
	return nil
}

func (p *Platform) Shutdown() error {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return nil
}

func (p *Platform) OnResize(fn func(width, height uint32)) {
	p.onResize = fn
}

func (p *Platform) OnClose(fn func()) {
	p.onClose = fn
}

func (p *Platform) ShouldClose() bool {
	return p.Window == nil || p.Window.ShouldClose()
}

func (p *Platform) PumpMessages() {
	glfw.PollEvents()
}

// WaitMessages sleeps until an event arrives. The timeout bounds how long a
// Stop from another goroutine goes unnoticed.
func (p *Platform) WaitMessages() {
	glfw.WaitEventsTimeout(waitTimeout)
}

func (p *Platform) SwapBuffers() {
	p.Window.SwapBuffers()
}

func (p *Platform) FramebufferSize() (uint32, uint32) {
	w, h := p.Window.GetFramebufferSize()
	return uint32(w), uint32(h)
}

// VulkanProcAddress returns vkGetInstanceProcAddr, or nil when no Vulkan
// loader is installed.
func (p *Platform) VulkanProcAddress() unsafe.Pointer {
	if !glfw.VulkanSupported() {
		return nil
	}
	return glfw.GetVulkanGetInstanceProcAddress()
}

func (p *Platform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
		if p.onClose != nil {
			p.onClose()
		}
	}
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	if p.onResize != nil {
		p.onResize(uint32(width), uint32(height))
	}
}
