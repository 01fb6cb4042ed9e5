// Command vkplayer opens a window and composites the configured viewports
// into it every frame until the window is closed.
package main

import (
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/andewx/vkplayer"
	"github.com/andewx/vkplayer/window"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

func init() {
	// GLFW and the frame loop must stay on the main thread.
	runtime.LockOSThread()
}

type flags struct {
	config     string
	root       string
	validation bool
	width      uint32
	height     uint32
	logLevel   string
	logFile    string
}

func parseFlags(args []string) (*flags, *pflag.FlagSet, error) {
	f := &flags{}
	fs := pflag.NewFlagSet("vkplayer", pflag.ContinueOnError)
	fs.StringVarP(&f.config, "config", "c", "", "TOML configuration file")
	fs.StringVar(&f.root, "root", "", "application root holding shader/ and icon.png (default: executable directory)")
	fs.BoolVar(&f.validation, "validation", false, "enable the Khronos validation layer")
	fs.Uint32Var(&f.width, "width", 0, "window width override")
	fs.Uint32Var(&f.height, "height", 0, "window height override")
	fs.StringVar(&f.logLevel, "log-level", "info", "debug, info, warn or error")
	fs.StringVar(&f.logFile, "log-file", "", "also write the log to this file")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}

// loadConfig applies command line overrides on top of the configuration file.
func (f *flags) loadConfig(fs *pflag.FlagSet) (vkplayer.Config, error) {
	cfg := vkplayer.DefaultConfig()
	if f.config != "" {
		var err error
		if cfg, err = vkplayer.LoadConfig(f.config); err != nil {
			return cfg, err
		}
	}
	if fs.Changed("validation") {
		cfg.Validation = f.validation
	}
	if f.width != 0 {
		cfg.Window.Width = f.width
	}
	if f.height != 0 {
		cfg.Window.Height = f.height
	}
	if f.root != "" {
		cfg.AppRoot = f.root
	}
	if cfg.AppRoot == "" {
		exe, err := os.Executable()
		if err != nil {
			return cfg, errors.Wrap(err, "locate executable")
		}
		cfg.AppRoot = filepath.Dir(exe)
	}
	return cfg, cfg.Validate()
}

func newLogger(level, file string) (*slog.Logger, func(), error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, errors.Wrap(err, "log level")
	}
	var out io.Writer = os.Stderr
	closer := func() {}
	if file != "" {
		fh, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, nil, errors.Wrap(err, "log file")
		}
		out = io.MultiWriter(os.Stderr, fh)
		closer = func() { fh.Close() }
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl})), closer, nil
}

func windowOptions(cfg vkplayer.Config, log *slog.Logger) window.Options {
	opts := window.Options{
		Title:  cfg.Window.Title,
		Width:  int(cfg.Window.Width),
		Height: int(cfg.Window.Height),
	}
	if cfg.Window.X != nil && cfg.Window.Y != nil {
		opts.Position = &image.Point{X: *cfg.Window.X, Y: *cfg.Window.Y}
	}
	if cfg.Window.Icon != "" {
		icon, err := window.LoadIcon(filepath.Join(cfg.AppRoot, cfg.Window.Icon))
		if err != nil {
			log.Warn("window: no icon", "err", err)
		} else {
			opts.Icons = window.IconSet(icon, window.IconSizes...)
		}
	}
	return opts
}

func main() {
	f, fs, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}
	log, closeLog, err := newLogger(f.logLevel, f.logFile)
	if err != nil {
		vkplayer.Fatal(nil, err)
	}
	defer closeLog()
	slog.SetDefault(log)

	cfg, err := f.loadConfig(fs)
	vkplayer.Fatal(log, err, closeLog)

	err = window.Init()
	vkplayer.Fatal(log, err, closeLog)

	win, err := window.New(windowOptions(cfg, log))
	vkplayer.Fatal(log, err, window.Terminate, closeLog)

	info := cfg.SetupInfo(cfg.AppRoot, win, log)
	info.ProcAddr = window.ProcAddr()
	pipeline, err := vkplayer.NewPipeline(info)
	vkplayer.Fatal(log, err, win.Destroy, window.Terminate, closeLog)

	shutdown := func() {
		if err := pipeline.WaitIdle(); err != nil {
			log.Error("vulkan: wait idle", "err", err)
		}
		pipeline.Destroy()
		win.Destroy()
		window.Terminate()
	}

	for !win.ShouldClose() {
		win.Poll()
		if err := pipeline.Draw(); err != nil {
			vkplayer.Fatal(log, err, shutdown, closeLog)
		}
	}
	shutdown()
	log.Info("vkplayer: closed")
}
