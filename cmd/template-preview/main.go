// template-preview drives the template plugin from a console host so the
// editor and the relay can be exercised without a DAW.
//
// It creates one instance through the plugin registry, sends ShowEditor with
// the --parent handle, pumps host events until --hold elapses or the process
// is interrupted, releases the instance and prints callback timings.
// Any non-zero --parent shows the editor; on Windows it should be a real
// HWND for reparenting to succeed.
//
// With --toolkit fyne (the default) the editor is drawn by Fyne, whose event
// loop takes over the main goroutine while the host session runs on another.
// --toolkit native uses the toolkit a plugin build would use.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/vst3go/template/pkg/framework/config"
	"github.com/vst3go/template/pkg/framework/debug"
	"github.com/vst3go/template/pkg/host"
	"github.com/vst3go/template/pkg/plugin"
	"github.com/vst3go/template/pkg/template"
	"github.com/vst3go/template/pkg/ui/editor/fyneui"
	"github.com/vst3go/template/pkg/ui/window"
)

const pumpInterval = 50 * time.Millisecond

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		title      string
		parentFlag string
		hold       time.Duration
		logFile    string
		toolkit    string
	)

	flagSet := pflag.NewFlagSet("template-preview", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to a YAML config file (default: $"+config.EnvVar+" or built-in defaults)")
	flagSet.StringVar(&title, "title", "", "override the editor title")
	flagSet.StringVar(&parentFlag, "parent", "0", "parent window handle to show the editor in (decimal or 0x hex; 0 keeps it hidden)")
	flagSet.DurationVar(&hold, "hold", 10*time.Second, "how long to keep the instance alive")
	flagSet.StringVar(&logFile, "log-file", "", "also write host log lines to this file")
	flagSet.StringVar(&toolkit, "toolkit", "fyne", "editor toolkit: fyne or native")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if title != "" {
		cfg.Editor.Title = title
	}

	parent, err := parseHandle(parentFlag)
	if err != nil {
		return err
	}

	hostLog := debug.New(os.Stderr, "host", debug.DefaultFlags)
	if logFile != "" {
		fileLog, closer, err := debug.NewFileLogger(logFile, "host", debug.DefaultFlags)
		if err != nil {
			return err
		}
		defer closer.Close()
		hostLog = fileLog
	}

	consoleHost := host.HostFunc(func(tag host.Tag, n host.Notice) {
		if d, ok := n.(host.DebugLog); ok {
			hostLog.Info("[%d] %s", tag, d.Text)
		}
	})

	opts := []template.Option{template.WithConfig(cfg)}
	var fyneTK *fyneui.Toolkit
	switch toolkit {
	case "fyne":
		fyneTK = fyneui.New(template.ID)
		opts = append(opts, template.WithToolkit(fyneTK))
	case "native":
	default:
		return fmt.Errorf("invalid --toolkit %q: want fyne or native", toolkit)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, cancelHold := context.WithTimeout(ctx, hold)
	defer cancelHold()

	s := &session{
		host:    consoleHost,
		hostLog: hostLog,
		factory: template.Factory(opts...),
		parent:  parent,
	}
	if fyneTK == nil {
		return s.run(ctx)
	}

	done := make(chan error, 1)
	go func() {
		defer fyneTK.Quit()
		done <- s.run(ctx)
	}()
	fyneTK.Main()
	return <-done
}

type session struct {
	host    host.Host
	hostLog *debug.Logger
	factory plugin.Factory
	parent  window.Handle
}

// run creates one instance, shows its editor and pumps it until ctx ends.
func (s *session) run(ctx context.Context) error {
	prof := debug.NewProfiler()
	prof.SetEnabled(true)

	reg := plugin.NewRegistry(s.factory, s.hostLog)
	reg.SetProfiler(prof)

	id, err := reg.CreateInstance(s.host, 1)
	if err != nil {
		return err
	}
	reg.SetProxy(id, host.ProxyFunc(func(w window.Handle) {
		s.hostLog.Info("editor window registered: %s", w)
	}))

	reg.OnMessage(id, host.ShowEditor{Parent: s.parent})

	pump(ctx, reg, id)

	if err := reg.Release(id); err != nil {
		s.hostLog.Error("release: %v", err)
	}
	fmt.Println(prof.Report())
	return nil
}

// pump plays the host's role of calling into the plugin regularly, which is
// when the plugin drains its UI messages.
func pump(ctx context.Context, reg *plugin.Registry, id uintptr) {
	ticker := time.NewTicker(pumpInterval)
	defer ticker.Stop()

	in := make([]host.Sample, 64)
	out := make([]host.Sample, 64)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reg.Render(id, in, out)
			reg.Tick(id)
			reg.OnMessage(id, host.Generic{})
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func parseHandle(s string) (window.Handle, error) {
	raw, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return window.Null(), fmt.Errorf("invalid --parent %q: %w", s, err)
	}
	return window.FromRaw(uintptr(raw)), nil
}
