// Command driftterm is a demo binary wiring the terminal core (decoder,
// screen model, glyph atlas cache) to a real GLFW/OpenGL window and a
// login shell. It exists to exercise the core end-to-end; the core
// itself has no dependency on any of this.
package main

import (
	"fmt"
	"os"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"

	"driftwoodterm/core/atlas"
	"driftwoodterm/core/config"
	"driftwoodterm/core/decoder"
	"driftwoodterm/core/diag"
	"driftwoodterm/core/glfont"
	"driftwoodterm/core/gltex"
	"driftwoodterm/core/glwin"
	"driftwoodterm/core/ioloop"
	"driftwoodterm/core/keymap"
	"driftwoodterm/core/ptyio"
	"driftwoodterm/core/screen"
)

var (
	flagCols     int
	flagRows     int
	flagTheme    string
	flagFontSize float64
	flagFontPath string
	flagLogLevel string
	flagConfig   string
)

func main() {
	root := &cobra.Command{
		Use:   "driftterm",
		Short: "A GPU-rendered terminal emulator core demo",
		RunE:  run,
	}

	root.Flags().IntVar(&flagCols, "cols", 0, "initial column count (0 = derive from window size)")
	root.Flags().IntVar(&flagRows, "rows", 0, "initial row count (0 = derive from window size)")
	root.Flags().StringVar(&flagTheme, "theme", "", "window theme (overrides config)")
	root.Flags().Float64Var(&flagFontSize, "font-size", 0, "font size in points (overrides config)")
	root.Flags().StringVar(&flagFontPath, "font", "", "path to a TTF/OTF font file")
	root.Flags().StringVar(&flagLogLevel, "log-level", "info", "diagnostic log verbosity (unused placeholder for future zerolog level wiring)")
	root.Flags().StringVar(&flagConfig, "config", "", "path to a config file (overrides the default ~/.config/driftterm/config.yaml)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := diag.New(os.Stderr)

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagTheme != "" {
		cfg.Theme = flagTheme
	}
	if flagFontSize > 0 {
		cfg.Font.SizePoints = flagFontSize
	}

	winCfg := glwin.DefaultConfig()
	win, err := glwin.New(winCfg)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer win.Destroy()

	fontPath := flagFontPath
	if fontPath == "" {
		fontPath = glfont.FindSystemFont()
	}
	if fontPath == "" {
		return fmt.Errorf("no font found: pass --font explicitly")
	}
	fontData, err := glfont.LoadFontFile(fontPath)
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}
	rasterizer, err := glfont.New(fontData, cfg.Font.SizePoints, cfg.Atlas.GlyphPixelSize)
	if err != nil {
		return fmt.Errorf("init rasterizer: %w", err)
	}
	defer rasterizer.Close()

	sink := gltex.NewSink(cfg.Atlas.GlyphPixelSize)
	cache := atlas.New(rasterizer, sink, log)

	cols, rows := flagCols, flagRows
	if cols <= 0 || rows <= 0 {
		cols, rows = screen.Cols/10, screen.Rows/40 // placeholder until cell metrics are known
	}
	grid := screen.NewGrid(cols, rows)

	session, err := ptyio.New(cfg, uint16(cols), uint16(rows))
	if err != nil {
		return fmt.Errorf("start shell: %w", err)
	}
	defer session.Close()

	dec := decoder.New(log)
	loop := ioloop.New(dec, grid, session, session, log)
	loop.OnTitle(func(title string) {
		win.GLFW().SetTitle(title)
	})

	glfwWin := win.GLFW()
	glfwWin.SetCharCallback(func(_ *glfw.Window, r rune) {
		loop.QueueKeystroke([]byte(string(r)))
	})
	glfwWin.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press && action != glfw.Repeat {
			return
		}
		if bytes := keymap.Translate(key, mods, dec.AppCursorKeys()); bytes != nil {
			loop.QueueKeystroke(bytes)
		}
	})

	for !win.ShouldClose() && !session.HasExited() {
		glwin.PollEvents()

		fw, fh := win.FramebufferSize()
		newCols, newRows := fw/cfg.Atlas.GlyphPixelSize, fh/cfg.Atlas.GlyphPixelSize
		if newCols > 0 && newRows > 0 && (newCols != cols || newRows != rows) {
			cols, rows = newCols, newRows
			if err := loop.Resize(cols, rows, session); err != nil && log != nil {
				log.Recoverable("cmd", "resize failed", "error", err.Error())
			}
		}

		if _, err := loop.Tick(cache); err != nil {
			log.Fatal("cmd", "io loop tick failed", "error", err.Error())
			break
		}

		win.SetViewport()
		win.Clear(0.051, 0.063, 0.102, 1.0)
		win.SwapBuffers()
	}

	return nil
}

func loadConfig() (*config.Config, error) {
	if flagConfig == "" {
		return config.Load()
	}
	return config.LoadFromPath(flagConfig)
}
