package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mjkkirschner/strutmesh"
	"github.com/mjkkirschner/strutmesh/build"
	"github.com/mjkkirschner/strutmesh/build/local"
	"github.com/mjkkirschner/strutmesh/config"
	"github.com/mjkkirschner/strutmesh/coords"
	"github.com/mjkkirschner/strutmesh/obj"
	"github.com/mjkkirschner/strutmesh/strut"
	"github.com/mjkkirschner/strutmesh/tessellate"
	"github.com/ungerik/go3d/float64/vec3"
)

// pipeline holds at most one chunk of geometry at a time: each chunk is
// meshed, built, encoded and dropped before the next is read.
type pipeline struct {
	cfg    *config.Config
	logger *slog.Logger
	host   *local.Host
	enc    *obj.Encoder
	group  obj.Group

	stats stats
}

func newPipeline(cfg *config.Config, logger *slog.Logger, out io.Writer) (*pipeline, error) {
	c, err := obj.ParseColor(cfg.Output.Color)
	if err != nil {
		return nil, err
	}

	return &pipeline{
		cfg:    cfg,
		logger: logger,
		host:   local.New(),
		enc:    obj.NewEncoder(out, cfg.Output.Name),
		group:  obj.Group{Color: obj.ColorID(c)},
	}, nil
}

func (p *pipeline) struts(in io.Reader) error {
	gen, err := strut.NewGenerator(p.cfg.Strut.Radius, p.cfg.Strut.Edges)
	if err != nil {
		return err
	}

	r := coords.NewReader(in)
	for {
		records, err := r.NextStruts(p.cfg.Strut.Batch)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		starts := make([]vec3.T, len(records))
		ends := make([]vec3.T, len(records))
		for i, s := range records {
			starts[i], ends[i] = s.Start, s.End
		}

		chunks, err := gen.Batch(starts, ends, p.cfg.Strut.Batch)
		if err != nil {
			return err
		}

		base := p.stats.records
		p.stats.records += len(records)

		for _, chunk := range chunks {
			for _, o := range chunk.Omitted {
				p.logger.Warn("strut omitted", "strut", base+o.Index, "err", o.Err)
			}
			p.stats.meshed += len(chunk.Struts)
			p.stats.omitted += len(chunk.Omitted)

			if err := p.emit(chunk.Mesh); err != nil {
				return err
			}
		}
	}
}

func (p *pipeline) nodes(in io.Reader) error {
	tess := tessellate.New(tessellate.SphereCallback)
	tess.Logger = p.logger
	grid := p.cfg.Sphere.Grid()

	r := coords.NewReader(in)
	for {
		records, err := r.NextNodes(p.cfg.Strut.Batch)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		chunk := &strutmesh.Mesh{}
		for _, n := range records {
			index := p.stats.records
			p.stats.records++

			m, _, err := tess.Tessellate(tessellate.Sphere{Center: n.Center, Radius: n.Radius()}, grid)
			if errors.Is(err, strutmesh.ErrDegenerateGeometry) {
				p.logger.Warn("node omitted", "node", index, "err", err)
				p.stats.omitted++
				continue
			}
			if err != nil {
				return fmt.Errorf("node %d: %w", index, err)
			}

			chunk.Extend(m.WithVertexNormals())
			p.stats.meshed++
		}

		if err := p.emit(chunk); err != nil {
			return err
		}
	}
}

func (p *pipeline) emit(m *strutmesh.Mesh) error {
	if len(m.Faces) == 0 {
		return nil
	}

	p.stats.chunks++
	name := fmt.Sprintf("%s-%d", p.cfg.Output.Name, p.stats.chunks)

	res, err := build.BuildMesh(p.host, m, p.cfg.Build.Target, p.cfg.Build.Fallback,
		build.WithLogger(p.logger), build.WithName(name))
	if err != nil {
		return fmt.Errorf("chunk %s: %w", name, err)
	}
	p.stats.add(res)
	p.logger.Info("chunk built", "name", name, "result", res.String())

	if err := p.enc.Encode(m, p.group); err != nil {
		return fmt.Errorf("chunk %s: %w", name, err)
	}
	p.stats.vertices = p.enc.Vertices()

	return nil
}

func (p *pipeline) flush() error {
	return p.enc.Flush()
}
