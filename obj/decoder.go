package obj

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mjkkirschner/strutmesh"
	"github.com/ungerik/go3d/float64/vec3"
)

// Document is what Decode read.
type Document struct {
	// Mesh holds every v, vn and f line. Faces repeated under several
	// materials appear once per material.
	Mesh *strutmesh.Mesh

	// Groups index into Mesh.Faces by material, in file order.
	Groups []Group

	// Names are the g names, in file order.
	Names []string

	TexCoords int
	Comments  []string
}

// Decode reads the subset of OBJ that Encoder writes: v, vn, vt, f, usemtl,
// usemap, g and comments. Face corners may be written as a, a/b, a/b/c or
// a//c, with negative indices counting back from the last vertex. Other
// statements are ignored.
func Decode(r io.Reader) (*Document, error) {
	doc := &Document{Mesh: &strutmesh.Mesh{}}
	var group *Group

	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line[0] == '#' {
			doc.Comments = append(doc.Comments, strings.TrimSpace(line[1:]))
			continue
		}

		fields := strings.Fields(line)
		var err error

		switch fields[0] {
		case "v":
			var v vec3.T
			if v, err = parseVec(fields[1:], 3); err == nil {
				doc.Mesh.Vertices = append(doc.Mesh.Vertices, v)
			}
		case "vn":
			var n vec3.T
			if n, err = parseVec(fields[1:], 3); err == nil {
				doc.Mesh.Normals = append(doc.Mesh.Normals, n)
			}
		case "vt":
			if _, err = parseVec(fields[1:], 2); err == nil {
				doc.TexCoords++
			}
		case "f":
			var f strutmesh.IndexGroup
			if f, err = parseFace(fields[1:], len(doc.Mesh.Vertices)); err == nil {
				if group == nil {
					doc.Groups = append(doc.Groups, Group{Color: DefaultColor, Faces: []int{}})
					group = &doc.Groups[len(doc.Groups)-1]
				}
				group.Faces = append(group.Faces, len(doc.Mesh.Faces))
				doc.Mesh.Faces = append(doc.Mesh.Faces, f)
			}
		case "usemtl":
			if len(fields) != 2 {
				err = fmt.Errorf("want a material name")
				break
			}
			doc.Groups = append(doc.Groups, Group{Color: fields[1], Faces: []int{}})
			group = &doc.Groups[len(doc.Groups)-1]
		case "g":
			doc.Names = append(doc.Names, strings.Join(fields[1:], " "))
			group = nil
		}

		if err != nil {
			return nil, fmt.Errorf("%w: obj line %d: %v", strutmesh.ErrInvalidArgument, lineNo, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return doc, nil
}

func parseVec(fields []string, n int) (vec3.T, error) {
	var v vec3.T
	if len(fields) < n {
		return v, fmt.Errorf("want %d coordinates, got %d", n, len(fields))
	}

	for i := 0; i < n; i++ {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return v, err
		}
		v[i] = x
	}

	return v, nil
}

func parseFace(fields []string, numVertices int) (strutmesh.IndexGroup, error) {
	var f strutmesh.IndexGroup
	if len(fields) != 3 && len(fields) != 4 {
		return f, fmt.Errorf("want 3 or 4 corners, got %d", len(fields))
	}

	f.Count = len(fields)
	for slot, field := range fields {
		ref, _, _ := strings.Cut(field, "/")

		i, err := strconv.Atoi(ref)
		if err != nil {
			return f, err
		}

		switch {
		case i > 0 && i <= numVertices:
			i--
		case i < 0 && -i <= numVertices:
			i += numVertices
		default:
			return f, fmt.Errorf("corner %d references vertex %d of %d", slot, i, numVertices)
		}
		f.Indices[slot] = uint32(i)
	}

	return f, nil
}
