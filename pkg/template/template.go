// Package template is a skeleton plugin: it passes audio through untouched,
// has no parameters, and shows a small editor window driven over a relay.
package template

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/vst3go/template/pkg/framework/config"
	"github.com/vst3go/template/pkg/framework/debug"
	fwplugin "github.com/vst3go/template/pkg/framework/plugin"
	"github.com/vst3go/template/pkg/host"
	"github.com/vst3go/template/pkg/plugin"
	"github.com/vst3go/template/pkg/ui/editor"
	"github.com/vst3go/template/pkg/ui/relay"
)

// ID is the plugin identifier.
const ID = "com.vst3go.template"

// Info returns the plugin metadata.
func Info() fwplugin.Info {
	info := fwplugin.NewEffect(ID, "template").WantNewTick()
	info.Vendor = "VST3Go"
	return info
}

type options struct {
	cfg     *config.Config
	toolkit editor.Toolkit
	run     relay.RunFunc
}

// Option configures New.
type Option func(*options)

// WithConfig uses cfg instead of config.Load().
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithToolkit drives the editor with tk instead of the platform default:
// Win32 on Windows, a windowless toolkit elsewhere. tk's event loop must
// work off the main goroutine unless the caller owns main, as the preview
// does with Fyne.
func WithToolkit(tk editor.Toolkit) Option {
	return func(o *options) { o.toolkit = tk }
}

// WithRunFunc replaces the whole UI thread body.
func WithRunFunc(run relay.RunFunc) Option {
	return func(o *options) { o.run = run }
}

// Plugin is the template plugin instance.
type Plugin struct {
	*fwplugin.Base

	host  host.Host
	tag   host.Tag
	proxy host.Proxy
	relay *relay.Relay
	log   *debug.Logger

	// uiLog queues lines logged on the UI thread; the host only hears
	// about them from its own callback thread.
	uiLog   *logQueue
	logFile io.Closer
}

const logQueueSize = 64

// logQueue is a bounded line buffer. Lines written while it is full are
// counted and reported on the next flush.
type logQueue struct {
	lines   chan string
	dropped atomic.Int64
}

func newLogQueue(size int) *logQueue {
	return &logQueue{lines: make(chan string, size)}
}

func (q *logQueue) push(line string) {
	select {
	case q.lines <- line:
	default:
		q.dropped.Add(1)
	}
}

func (q *logQueue) flush(emit func(string)) {
	for {
		select {
		case line := <-q.lines:
			emit(line)
		default:
			if n := q.dropped.Swap(0); n > 0 {
				emit(fmt.Sprintf("dropped %d UI log lines", n))
			}
			return
		}
	}
}

var _ plugin.Plugin = (*Plugin)(nil)

// Factory returns a plugin.Factory creating template instances with opts.
func Factory(opts ...Option) plugin.Factory {
	return func(h host.Host, tag host.Tag) (plugin.Plugin, error) {
		return New(h, tag, opts...)
	}
}

// New creates a plugin instance and starts its UI thread. The editor stays
// hidden until the host sends ShowEditor.
func New(h host.Host, tag host.Tag, opts ...Option) (*Plugin, error) {
	if h == nil {
		return nil, errors.New("template: nil host")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		o.cfg = cfg
	}
	cfg := o.cfg

	p := &Plugin{host: h, tag: tag, uiLog: newLogQueue(logQueueSize)}

	var out io.Writer = debug.SinkFunc(p.hostLog)
	var uiOut io.Writer = debug.SinkFunc(p.uiLog.push)
	if cfg.Log.File != "" {
		f, err := debug.OpenLogFile(cfg.Log.File)
		if err != nil {
			return nil, fmt.Errorf("template: %w", err)
		}
		p.logFile = f
		out = io.MultiWriter(out, f)
		uiOut = io.MultiWriter(uiOut, f)
	}
	p.log = debug.New(out, cfg.Log.Prefix, debug.HostFlags)
	p.log.SetLevel(cfg.LogLevel())
	p.Base = fwplugin.NewBase(Info(), p.log)

	uiLog := debug.New(uiOut, cfg.Log.Prefix, debug.HostFlags)
	uiLog.SetLevel(cfg.LogLevel())

	run := o.run
	if run == nil {
		tk := o.toolkit
		if tk == nil {
			tk = defaultToolkit()
		}
		run = editor.Runner(tk, cfg.EditorOptions(), uiLog)
	}
	p.relay = relay.New(cfg.Editor.Title, run, relay.WithCapacity(cfg.Relay.Capacity))

	return p, nil
}

func (p *Plugin) hostLog(line string) {
	p.host.OnMessage(p.tag, host.DebugLog{Text: line})
}

// OnMessage forwards ShowEditor to the UI and drains whatever the UI has
// sent back since the last host event, log lines included.
func (p *Plugin) OnMessage(msg host.Message) int64 {
	if m, ok := msg.(host.ShowEditor); ok {
		if err := p.relay.SendToUI(relay.ShowEditor{Parent: m.Parent}); err != nil {
			p.log.Error("failed to forward ShowEditor: %v", err)
		}
	}

	for _, um := range p.relay.TryDrainFromUI() {
		switch um := um.(type) {
		case relay.EditorHandleReady:
			if p.proxy != nil {
				p.proxy.SetEditorHandle(um.Handle)
			}
		case relay.Initialized:
			p.log.Info("UI initialised")
		}
	}
	p.uiLog.flush(p.hostLog)

	return 0
}

// NameOf has nothing to name.
func (p *Plugin) NameOf(host.GetName) string {
	return "No names"
}

// Render copies in to out.
func (p *Plugin) Render(in, out []host.Sample) {
	copy(out, in)
}

// Tick does nothing.
func (p *Plugin) Tick() {}

// ProcessParam ignores parameter events; the plugin has none.
func (p *Plugin) ProcessParam(int, int64, host.ProcessParamFlags) int64 {
	return 0
}

// SetProxy stores the host proxy used to register the editor window.
func (p *Plugin) SetProxy(px host.Proxy) {
	p.proxy = px
}

// Close shuts the UI thread down and waits for it.
func (p *Plugin) Close() error {
	err := p.relay.ShutdownAndJoin()
	p.uiLog.flush(p.hostLog)
	if err != nil {
		p.log.Error("UI thread exited with error: %v", err)
	}
	if p.logFile != nil {
		if cerr := p.logFile.Close(); cerr != nil && err == nil {
			err = cerr
		}
		p.logFile = nil
	}
	return err
}
