// Package glwin creates the GLFW window and GL context that host the
// terminal's renderer — the window/GPU-context "external collaborator"
// spec §6 keeps out of the core's hard dependency surface. It also
// rasterizes the application icon from an embedded SVG.
package glwin

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Config describes the window to create.
type Config struct {
	Width, Height int
	Title         string
}

// DefaultConfig returns a reasonable starting window size.
func DefaultConfig() Config {
	return Config{Width: 1000, Height: 650, Title: "driftterm"}
}

// Window wraps a GLFW window and its GL context.
type Window struct {
	win    *glfw.Window
	cfg    Config
	fullscreen bool
	savedX, savedY, savedW, savedH int
}

// New creates the window, initializes the GL context, enables vsync and
// alpha blending, and sets the application icon.
func New(cfg Config) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glwin: glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glwin: create window: %w", err)
	}
	win.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("glwin: gl init: %w", err)
	}

	glfw.SwapInterval(1)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	w := &Window{win: win, cfg: cfg}
	w.setIcon()
	return w, nil
}

// GLFW returns the underlying *glfw.Window, for callers that need to
// install callbacks (key, char, framebuffer-size) directly.
func (w *Window) GLFW() *glfw.Window {
	return w.win
}

// FramebufferSize returns the current framebuffer size in pixels.
func (w *Window) FramebufferSize() (int, int) {
	return w.win.GetFramebufferSize()
}

// ShouldClose reports whether the user requested the window close.
func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

// SwapBuffers presents the frame.
func (w *Window) SwapBuffers() {
	w.win.SwapBuffers()
}

// Clear clears the framebuffer to the given color.
func (w *Window) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// SetViewport matches the GL viewport to the framebuffer size; call on
// resize.
func (w *Window) SetViewport() {
	fw, fh := w.FramebufferSize()
	gl.Viewport(0, 0, int32(fw), int32(fh))
}

// ToggleFullscreen switches between windowed and borderless fullscreen
// on the primary monitor.
func (w *Window) ToggleFullscreen() {
	if w.fullscreen {
		w.win.SetMonitor(nil, w.savedX, w.savedY, w.savedW, w.savedH, 0)
		w.fullscreen = false
		return
	}
	w.savedX, w.savedY = w.win.GetPos()
	w.savedW, w.savedH = w.win.GetSize()
	monitor := glfw.GetPrimaryMonitor()
	mode := monitor.GetVideoMode()
	w.win.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
	w.fullscreen = true
}

// IsFullscreen reports the current fullscreen state.
func (w *Window) IsFullscreen() bool {
	return w.fullscreen
}

// Destroy tears down the window and terminates GLFW.
func (w *Window) Destroy() {
	w.win.Destroy()
	glfw.Terminate()
}

// PollEvents polls and dispatches any pending window/input events.
func PollEvents() {
	glfw.PollEvents()
}
