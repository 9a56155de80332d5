package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/mjkkirschner/strutmesh"
	"github.com/mjkkirschner/strutmesh/build"
	"github.com/mjkkirschner/strutmesh/config"
	"github.com/mjkkirschner/strutmesh/coords"
	"github.com/mjkkirschner/strutmesh/strut"
	"github.com/muesli/termenv"
)

type stats struct {
	records  int
	meshed   int
	omitted  int
	chunks   int
	vertices int

	succeeded int
	failed    int
	objects   int
	solids    int
	degraded  int
	salvaged  int
}

func (s *stats) add(res *build.Result) {
	s.succeeded += res.Succeeded
	s.failed += res.Failed
	s.objects += len(res.Objects)
	s.salvaged += res.Salvaged
	if res.Degraded {
		s.degraded++
	}
	if res.Target == build.Solid {
		s.solids += len(res.Objects)
	}
}

func (s *stats) print(o *termenv.Output, nodes bool) {
	good := func(n int) termenv.Style {
		return o.String(fmt.Sprint(n)).Foreground(termenv.ANSIGreen)
	}
	bad := func(n int) termenv.Style {
		st := o.String(fmt.Sprint(n))
		if n > 0 {
			st = st.Foreground(termenv.ANSIRed).Bold()
		}
		return st
	}
	label := func(s string) termenv.Style {
		return o.String(fmt.Sprintf("%-9s", s)).Faint()
	}

	what := "struts"
	if nodes {
		what = "nodes"
	}

	fmt.Fprintf(o, "%s %s meshed, %s omitted\n", label(what), good(s.meshed), bad(s.omitted))
	fmt.Fprintf(o, "%s %s built, %s failed\n", label("faces"), good(s.succeeded), bad(s.failed))
	fmt.Fprintf(o, "%s %d in %d chunks, %d solid, %s degraded", label("objects"), s.objects, s.chunks, s.solids, bad(s.degraded))
	if s.salvaged > 0 {
		fmt.Fprintf(o, ", %d faces salvaged", s.salvaged)
	}
	fmt.Fprintln(o)
	fmt.Fprintf(o, "%s %d vertices\n", label("obj"), s.vertices)
}

func strutLibrary(cfg *config.Config, in io.Reader) (*strut.Library, error) {
	gen, err := strut.NewGenerator(cfg.Strut.Radius, cfg.Strut.Edges)
	if err != nil {
		return nil, err
	}
	lib, err := strut.NewLibrary(gen, cfg.Library.Precision)
	if err != nil {
		return nil, err
	}

	r := coords.NewReader(in)
	for {
		records, err := r.NextStruts(cfg.Strut.Batch)
		if errors.Is(err, io.EOF) {
			return lib, nil
		}
		if err != nil {
			return nil, err
		}

		for _, s := range records {
			// degenerate struts have no placement and are left out
			if _, err := lib.Add(s.Start, s.End); err != nil && !errors.Is(err, strutmesh.ErrDegenerateGeometry) {
				return nil, err
			}
		}
	}
}

func printLibrary(o *termenv.Output, lib *strut.Library) {
	fmt.Fprintf(o, "%s\n", o.String(fmt.Sprintf("%-12s %8s", "length", "struts")).Bold())

	total := 0
	for _, e := range lib.Entries() {
		fmt.Fprintf(o, "%-12s %8d\n", e.Key, e.Count())
		total += e.Count()
	}

	fmt.Fprintf(o, "%s\n", o.String(fmt.Sprintf("%d struts, %d distinct lengths", total, lib.Len())).Faint())
}
