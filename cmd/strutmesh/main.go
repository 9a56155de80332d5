// Command strutmesh meshes strut or node coordinate files, builds the
// meshes chunk by chunk and writes them to a single OBJ file.
//
//	strutmesh [flags] [struts.csv]
//	strutmesh -nodes [flags] [nodes.csv]
//
// Input is read from standard input when no file (or "-") is given, and
// OBJ text goes to standard output unless -o is set.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mjkkirschner/strutmesh/build"
	"github.com/mjkkirschner/strutmesh/config"
	"github.com/muesli/termenv"
)

func main() {
	err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "strutmesh:", err)
		os.Exit(1)
	}
}

// LevelFromFlags maps -vv, -v and -q onto a log level, in that order of
// precedence. The default is warn.
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

type flags struct {
	config      string
	out         string
	radius      float64
	edges       int
	batch       int
	target      string
	fallback    string
	nodes       bool
	library     bool
	printConfig string

	v, vv, q bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var f flags

	fs := flag.NewFlagSet("strutmesh", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.config, "config", "", "TOML or YAML config `file`")
	fs.StringVar(&f.out, "o", "", "write OBJ to `file` instead of standard output")
	fs.Float64Var(&f.radius, "radius", 0, "strut radius")
	fs.IntVar(&f.edges, "edges", 0, "ring edges per strut")
	fs.IntVar(&f.batch, "batch", 0, "input lines per chunk")
	fs.StringVar(&f.target, "target", "", "build target: any, solid or mesh")
	fs.StringVar(&f.fallback, "fallback", "", "build fallback: abort, mesh or salvage")
	fs.BoolVar(&f.nodes, "nodes", false, "input lines are cx,cy,cz,diameter nodes")
	fs.BoolVar(&f.library, "library", false, "print the strut length library instead of writing OBJ")
	fs.StringVar(&f.printConfig, "print-config", "", "print the effective config as toml or yaml and exit")
	fs.BoolVar(&f.v, "v", false, "log progress")
	fs.BoolVar(&f.vv, "vv", false, "log every rejected face")
	fs.BoolVar(&f.q, "q", false, "log errors only")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("expected at most one input file, got %d", fs.NArg())
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: LevelFromFlags(f.vv, f.v, f.q),
	}))

	cfg, err := loadConfig(fs, &f)
	if err != nil {
		return err
	}

	if f.printConfig != "" {
		format, err := config.FormatOf("." + f.printConfig)
		if err != nil {
			return err
		}
		return cfg.Encode(stdout, format)
	}

	in := stdin
	if name := fs.Arg(0); name != "" && name != "-" {
		file, err := os.Open(name)
		if err != nil {
			return err
		}
		defer file.Close()
		in = file
	}

	term := termenv.NewOutput(stderr)

	if f.library {
		lib, err := strutLibrary(cfg, in)
		if err != nil {
			return err
		}
		printLibrary(termenv.NewOutput(stdout), lib)
		return nil
	}

	out := stdout
	if f.out != "" {
		file, err := os.Create(f.out)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	p, err := newPipeline(cfg, logger, out)
	if err != nil {
		return err
	}

	if f.nodes {
		err = p.nodes(in)
	} else {
		err = p.struts(in)
	}
	if err != nil {
		return err
	}
	if err := p.flush(); err != nil {
		return err
	}

	p.stats.print(term, f.nodes)
	return nil
}

// loadConfig reads -config and applies the flags that were set on top.
func loadConfig(fs *flag.FlagSet, f *flags) (*config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return nil, err
		}
	}

	var err error
	fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}

		switch fl.Name {
		case "radius":
			cfg.Strut.Radius = f.radius
		case "edges":
			cfg.Strut.Edges = f.edges
		case "batch":
			cfg.Strut.Batch = f.batch
		case "target":
			cfg.Build.Target, err = build.ParseTarget(f.target)
		case "fallback":
			cfg.Build.Fallback, err = build.ParseFallback(f.fallback)
		}
	})
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
