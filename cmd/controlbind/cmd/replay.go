package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"weak"

	"github.com/spf13/pflag"
	"github.com/tidwall/gjson"

	"github.com/go-drift/controlbind/cmd/controlbind/internal/config"
	"github.com/go-drift/controlbind/pkg/diag"
	"github.com/go-drift/controlbind/pkg/event"
	"github.com/go-drift/controlbind/pkg/navigation"
	"github.com/go-drift/controlbind/pkg/platform"
)

func init() {
	RegisterCommand(&Command{
		Name:  "replay",
		Short: "Replay recorded native events through a binding",
		Long: `Replay recorded native events through a navigation control binding.

Each non-empty line of the events file is a JSON object:

  {"event": "click", "payload": {"x": 10, "y": 20}}

Lines starting with # are ignored. Payloads travel through the same bridge
path a native host uses, so malformed payloads are logged and dropped.
After --drop-after, the control is released and later lines are dropped by
the binding. A {"event": "disposed"} line acknowledges the native teardown;
events after it are refused by the bridge.

Flags:
  -c, --config FILE      Config file (default: ./controlbind.yaml if present)
      --codec NAME       Bridge codec: json or cbor (default: json)
      --drop-after N     Release the control after N lines
      --log-level LEVEL  Override the configured log level
      --log-format FMT   Override the configured log format (auto, console, json)`,
		Usage: "controlbind replay [flags] <events.jsonl>",
		Run:   runReplay,
	})
}

func runReplay(args []string) error {
	fs := pflag.NewFlagSet("replay", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "config file")
	codecName := fs.String("codec", "json", "bridge codec (json or cbor)")
	dropAfter := fs.Int("drop-after", -1, "release the control after N lines")
	logLevel := fs.String("log-level", "", "log level override")
	logFormat := fs.String("log-format", "", "log format override")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("replay requires exactly one events file")
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadOptional(".")
	}
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Log.Format = diag.Format(*logFormat)
	}

	logger, err := diag.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	codec, err := codecByName(*codecName)
	if err != nil {
		return err
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to open events file: %w", err)
	}
	defer f.Close()

	summary, err := replay(f, replayConfig{
		Out:       os.Stdout,
		Options:   cfg.Control,
		Logger:    logger,
		Codec:     codec,
		DropAfter: *dropAfter,
	})
	if err != nil {
		return err
	}
	fmt.Printf("%d lines, %d delivered, %d rejected by bridge\n", summary.Lines, summary.Delivered, summary.Rejected)
	return nil
}

func codecByName(name string) (platform.MessageCodec, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return platform.JsonCodec{}, nil
	case "cbor":
		return platform.CborCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

type replayConfig struct {
	Out       io.Writer
	Options   navigation.Options
	Logger    diag.Logger
	Codec     platform.MessageCodec
	DropAfter int
}

type replaySummary struct {
	Lines     int
	Delivered int
	Rejected  int
}

// loopbackBridge stands in for a native host: every control creation and
// disposal succeeds.
type loopbackBridge struct {
	codec platform.MessageCodec
}

func (b loopbackBridge) InvokeMethod(channel, method string, args []byte) ([]byte, error) {
	return b.codec.Encode(nil)
}

// uiQueue is the dispatch function of the replay loop. Callbacks posted from
// other goroutines run between lines; once closed, they run immediately.
type uiQueue struct {
	mu      sync.Mutex
	pending []func()
	closed  bool
}

func (q *uiQueue) post(cb func()) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		cb()
		return
	}
	q.pending = append(q.pending, cb)
	q.mu.Unlock()
}

func (q *uiQueue) drain() {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()
	for _, cb := range pending {
		cb()
	}
}

func (q *uiQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.drain()
}

// printer writes every click it receives.
type printer struct {
	navigation.BaseListener
	out    io.Writer
	clicks int
}

func (p *printer) OnClick(c *navigation.NavigationControl, e event.ClickEvent) {
	p.clicks++
	fmt.Fprintf(p.out, "click control=%d x=%g y=%g", c.ControlID(), e.X, e.Y)
	if e.Target != "" {
		fmt.Fprintf(p.out, " target=%s", e.Target)
	}
	if e.Button != 0 {
		fmt.Fprintf(p.out, " button=%d", e.Button)
	}
	fmt.Fprintln(p.out)
}

// replay attaches a printing listener and feeds every event line through the
// bridge entry point.
func replay(r io.Reader, cfg replayConfig) (replaySummary, error) {
	if cfg.Codec == nil {
		cfg.Codec = platform.JsonCodec{}
	}
	if cfg.Logger == nil {
		cfg.Logger = diag.Nop()
	}

	registry := platform.NewControlRegistry(loopbackBridge{codec: cfg.Codec})
	registry.SetCodec(cfg.Codec)
	registry.SetLogger(cfg.Logger)

	ui := &uiQueue{}
	platform.RegisterDispatch(ui.post)
	defer func() {
		platform.RegisterDispatch(nil)
		ui.close()
	}()

	p := &printer{out: cfg.Out}
	control, err := navigation.Attach(cfg.Options, p,
		navigation.WithRegistry(registry),
		navigation.WithLogger(cfg.Logger))
	if err != nil {
		return replaySummary{}, err
	}
	id := control.ControlID()

	var summary replaySummary
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		ui.drain()
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if cfg.DropAfter >= 0 && summary.Lines == cfg.DropAfter && control != nil {
			release(&control)
		}
		summary.Lines++

		if !gjson.Valid(line) {
			return summary, fmt.Errorf("line %d: invalid JSON", summary.Lines)
		}
		name := gjson.Get(line, "event").String()
		if name == "" {
			return summary, fmt.Errorf("line %d: missing event name", summary.Lines)
		}
		data, err := encodePayload(cfg.Codec, gjson.Get(line, "payload"))
		if err != nil {
			return summary, fmt.Errorf("line %d: %w", summary.Lines, err)
		}
		if err := registry.HandleEvent(id, name, data); err != nil {
			summary.Rejected++
		}
	}
	if err := scanner.Err(); err != nil {
		return summary, err
	}

	summary.Delivered = p.clicks
	runtime.KeepAlive(control)
	return summary, nil
}

// release drops the last strong reference to the control and waits for the
// collector to reclaim it. The native dispose is posted to the UI queue by
// the control's cleanup and runs on a later line.
func release(c **navigation.NavigationControl) {
	wp := weak.Make(*c)
	*c = nil
	for i := 0; i < 10 && wp.Value() != nil; i++ {
		runtime.GC()
	}
}

func encodePayload(codec platform.MessageCodec, payload gjson.Result) ([]byte, error) {
	if !payload.Exists() {
		return nil, nil
	}
	if _, ok := codec.(platform.JsonCodec); ok {
		return []byte(payload.Raw), nil
	}
	return codec.Encode(payload.Value())
}
