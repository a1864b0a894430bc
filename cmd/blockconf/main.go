// Package main is the blockconf command line tool: parse a
// block-structured configuration file, query it, export it, or watch it
// for changes.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dshills/blockconf/internal/config"
	"github.com/dshills/blockconf/internal/config/store"
	"github.com/dshills/blockconf/internal/config/value"
	"github.com/dshills/blockconf/internal/event"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

// Options holds parsed command-line options.
type Options struct {
	ConfigPath string
	Keys       string
	Names      string
	Query      string
	Format     string
	Watch      bool
	Interval   time.Duration
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, showVersion := parseFlags()
	if showVersion {
		fmt.Printf("blockconf %s (%s)\n", version, commit)
		return 0
	}
	if opts.ConfigPath == "" {
		fmt.Fprintln(os.Stderr, "Error: no configuration file given (-c path)")
		flag.Usage()
		return 2
	}

	bus := event.NewBus()
	cfgOpts := []config.Option{config.WithSink(bus)}
	if opts.Watch {
		cfgOpts = append(cfgOpts,
			config.WithWatcher(true),
			config.WithPollInterval(opts.Interval))
	}

	cfg := config.New(opts.ConfigPath, cfgOpts...)
	defer cfg.Close()

	if opts.Watch {
		bus.Tap(func(name string, old, new *value.Value) {
			fmt.Printf("%s  %s -> %s\n", name, render(old), render(new))
		})
	}

	if err := cfg.Rehash(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	switch {
	case opts.Keys != "":
		for _, key := range cfg.KeysOf(parseBlockRef(opts.Keys)) {
			fmt.Println(key)
		}
	case opts.Names != "":
		for _, name := range cfg.NamesOf(opts.Names) {
			fmt.Println(name)
		}
	case opts.Query != "":
		return query(cfg, opts.Query)
	case opts.Format != "":
		return exportStore(cfg, opts.Format)
	case opts.Watch:
		return watch()
	default:
		summarize(cfg)
	}
	return 0
}

func parseFlags() (Options, bool) {
	var opts Options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.Keys, "keys", "", "Print keys of a block (type or type/name)")
	flag.StringVar(&opts.Names, "names", "", "Print names of all named blocks of a type")
	flag.StringVar(&opts.Query, "query", "", "Query a value by JSON path (e.g. cookies/sugar.type)")
	flag.StringVar(&opts.Format, "format", "", "Export the parsed store (json or toml)")
	flag.BoolVar(&opts.Watch, "watch", false, "Watch the file and print change events")
	flag.DurationVar(&opts.Interval, "interval", 500*time.Millisecond, "Watch polling interval")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: blockconf -c FILE [options]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	return opts, showVersion
}

// parseBlockRef turns "type" or "type/name" into a block identifier.
func parseBlockRef(ref string) store.BlockID {
	if typ, name, ok := strings.Cut(ref, "/"); ok {
		return store.Named(typ, name)
	}
	return store.Unnamed(ref)
}

func summarize(cfg *config.Config) {
	for _, id := range cfg.Blocks() {
		fmt.Printf("[%s]\n", id)
		for _, key := range cfg.KeysOf(id) {
			v, _ := cfg.Get(id, key)
			fmt.Printf("  %s = %s\n", key, v)
		}
	}
}

func query(cfg *config.Config, path string) int {
	doc, err := cfg.ExportJSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	res := gjson.GetBytes(doc, path)
	if !res.Exists() {
		fmt.Fprintf(os.Stderr, "Error: no value at %q\n", path)
		return 1
	}
	fmt.Println(res.String())
	return 0
}

func exportStore(cfg *config.Config, format string) int {
	var out []byte
	var err error
	switch format {
	case "json":
		out, err = cfg.ExportJSON()
	case "toml":
		out, err = cfg.ExportTOML()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q (want json or toml)\n", format)
		return 2
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(strings.TrimRight(string(out), "\n"))
	return 0
}

func watch() int {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
	return 0
}

func render(v *value.Value) string {
	if v == nil {
		return "(absent)"
	}
	return v.String()
}
