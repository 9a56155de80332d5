// Package coords streams strut and node coordinates from comma-separated
// text, a bounded number of records at a time.
package coords

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mjkkirschner/strutmesh"
	"github.com/ungerik/go3d/float64/vec3"
)

const (
	StrutFields = 6
	NodeFields  = 4
)

// Strut is one sx,sy,sz,ex,ey,ez line.
type Strut struct {
	Start, End vec3.T
}

// Node is one cx,cy,cz,diameter line.
type Node struct {
	Center   vec3.T
	Diameter float64
}

// Radius is half the diameter.
func (n Node) Radius() float64 {
	return n.Diameter / 2
}

// ParseError reports a malformed input line.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Reader reads records lazily from an underlying reader. Blank lines and
// lines starting with # are skipped.
type Reader struct {
	csv *csv.Reader
}

func NewReader(r io.Reader) *Reader {
	c := csv.NewReader(r)
	c.Comment = '#'
	c.FieldsPerRecord = -1
	c.TrimLeadingSpace = true
	c.ReuseRecord = true
	return &Reader{csv: c}
}

// NextStruts reads up to n strut lines. It returns io.EOF, and no struts,
// once the input is drained.
func (r *Reader) NextStruts(n int) ([]Strut, error) {
	var out []Strut
	err := r.next(n, StrutFields, func(v []float64) {
		out = append(out, Strut{
			Start: vec3.T{v[0], v[1], v[2]},
			End:   vec3.T{v[3], v[4], v[5]},
		})
	})
	return out, err
}

// NextNodes reads up to n node lines. It returns io.EOF, and no nodes, once
// the input is drained.
func (r *Reader) NextNodes(n int) ([]Node, error) {
	var out []Node
	err := r.next(n, NodeFields, func(v []float64) {
		out = append(out, Node{Center: vec3.T{v[0], v[1], v[2]}, Diameter: v[3]})
	})
	return out, err
}

func (r *Reader) next(n, fields int, emit func([]float64)) error {
	if n <= 0 {
		return fmt.Errorf("%w: record count must be positive, got %d", strutmesh.ErrInvalidArgument, n)
	}

	values := make([]float64, fields)
	read := 0
	for read < n {
		record, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			line := 0
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.Line
			}
			return &ParseError{Line: line, Err: fmt.Errorf("%w: %v", strutmesh.ErrInvalidArgument, err)}
		}

		line, _ := r.csv.FieldPos(0)
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		if len(record) != fields {
			return &ParseError{Line: line, Err: fmt.Errorf("%w: want %d fields, got %d",
				strutmesh.ErrInvalidArgument, fields, len(record))}
		}

		for i, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return &ParseError{Line: line, Err: fmt.Errorf("%w: field %d: %v",
					strutmesh.ErrInvalidArgument, i+1, err)}
			}
			values[i] = v
		}

		emit(values)
		read++
	}

	if read == 0 {
		return io.EOF
	}
	return nil
}
