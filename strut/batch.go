package strut

import (
	"fmt"

	"github.com/mjkkirschner/strutmesh"
	"github.com/ungerik/go3d/float64/vec3"
)

// Chunk is the mesh of one batch of struts. Struts lists, in mesh order, the
// source index of every strut that was meshed; strut k of the chunk owns
// vertices [2Ek, 2Ek+2E) for E ring edges.
type Chunk struct {
	Mesh    *strutmesh.Mesh
	Struts  []int
	Omitted []Omission
}

// Omission records a strut that was left out of a chunk.
type Omission struct {
	Index int
	Err   error
}

// Batch meshes the struts starts[i] -> ends[i] in chunks of at most
// maxPerChunk, producing one mesh per chunk. Degenerate struts are skipped
// and reported in Chunk.Omitted without affecting the rest of the chunk.
func (g *Generator) Batch(starts, ends []vec3.T, maxPerChunk int) ([]Chunk, error) {
	if err := g.check(); err != nil {
		return nil, err
	}
	if len(starts) != len(ends) {
		return nil, fmt.Errorf("%w: %d start points but %d end points",
			strutmesh.ErrInvalidArgument, len(starts), len(ends))
	}

	startChunks, err := strutmesh.Partition(starts, maxPerChunk)
	if err != nil {
		return nil, err
	}
	endChunks, err := strutmesh.Partition(ends, maxPerChunk)
	if err != nil {
		return nil, err
	}

	chunks := make([]Chunk, len(startChunks))
	for c := range startChunks {
		chunks[c], err = g.MeshChunk(startChunks[c], endChunks[c], c*maxPerChunk)
		if err != nil {
			return nil, err
		}
	}

	return chunks, nil
}

// MeshChunk meshes one already-partitioned chunk into a fresh mesh. base is
// the source index of the chunk's first strut and only affects reporting.
func (g *Generator) MeshChunk(starts, ends []vec3.T, base int) (Chunk, error) {
	if err := g.check(); err != nil {
		return Chunk{}, err
	}
	if len(starts) != len(ends) {
		return Chunk{}, fmt.Errorf("%w: %d start points but %d end points",
			strutmesh.ErrInvalidArgument, len(starts), len(ends))
	}

	n := g.VerticesPerStrut() * len(starts)
	chunk := Chunk{Mesh: strutmesh.NewMesh(n, n)}
	chunk.Mesh.Normals = make([]vec3.T, 0, n)

	for k := range starts {
		m, err := g.Generate(starts[k], ends[k])
		if err != nil {
			chunk.Omitted = append(chunk.Omitted, Omission{base + k, err})
			continue
		}

		// offset is the vertex count so far: omitted struts take no room
		chunk.Mesh.Extend(m)
		chunk.Struts = append(chunk.Struts, base+k)
	}

	return chunk, nil
}
