// SPDX-License-Identifier: MPL-2.0

package ply

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// coordIndexes locates the x, y and z properties of the vertex element.
func coordIndexes(elem element) ([3]int, error) {
	idx := [3]int{-1, -1, -1}
	for i, p := range elem.props {
		var axis int
		switch p.name {
		case "x":
			axis = 0
		case "y":
			axis = 1
		case "z":
			axis = 2
		default:
			continue
		}
		if p.list || !p.typ.isFloat() {
			return idx, fmt.Errorf("vertex property %s must be float or double", p.name)
		}
		idx[axis] = i
	}
	for axis, name := range [3]string{"x", "y", "z"} {
		if idx[axis] == -1 {
			return idx, fmt.Errorf("vertex element has no %s property", name)
		}
	}
	return idx, nil
}

func axisOf(propIdx int, idx [3]int) int {
	for axis, pi := range idx {
		if pi == propIdx {
			return axis
		}
	}
	return -1
}

func readVertices(br *bufio.Reader, format string, elem element) ([]Vertex, error) {
	idx, err := coordIndexes(elem)
	if err != nil {
		return nil, err
	}
	if format == formatASCII {
		return readVerticesASCII(br, elem, idx)
	}
	return readVerticesBinary(br, elem, idx)
}

func readVerticesASCII(br *bufio.Reader, elem element, idx [3]int) ([]Vertex, error) {
	vertices := make([]Vertex, 0, elem.count)
	for i := 0; i < elem.count; i++ {
		line, err := readLine(br)
		if err != nil {
			return nil, fmt.Errorf("vertex %d of %d: %w", i, elem.count, unexpectedEOF(err))
		}
		v, err := parseVertexLine(line, elem, idx)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		vertices = append(vertices, v)
	}
	return vertices, nil
}

func parseVertexLine(line string, elem element, idx [3]int) (Vertex, error) {
	fields := strings.Fields(line)
	var v Vertex
	pos := 0
	for pi, p := range elem.props {
		if pos >= len(fields) {
			return v, fmt.Errorf("line has %d values, not enough for every property", len(fields))
		}
		if p.list {
			count, err := strconv.Atoi(fields[pos])
			if err != nil || count < 0 {
				return v, fmt.Errorf("bad list count %q", fields[pos])
			}
			pos += 1 + count
			continue
		}
		if axis := axisOf(pi, idx); axis >= 0 {
			f, err := strconv.ParseFloat(fields[pos], 64)
			if err != nil {
				return v, fmt.Errorf("bad %s value %q", p.name, fields[pos])
			}
			v.Pos[axis] = float32(f)
		}
		pos++
	}
	return v, nil
}

func readVerticesBinary(br *bufio.Reader, elem element, idx [3]int) ([]Vertex, error) {
	vertices := make([]Vertex, 0, elem.count)
	var scratch [8]byte
	for i := 0; i < elem.count; i++ {
		var v Vertex
		for pi, p := range elem.props {
			if p.list {
				count, err := readScalar(br, p.countType, &scratch)
				if err != nil {
					return nil, fmt.Errorf("vertex %d: %w", i, err)
				}
				if count < 0 {
					return nil, fmt.Errorf("vertex %d: negative list count", i)
				}
				if _, err := br.Discard(int(count) * p.typ.size()); err != nil {
					return nil, fmt.Errorf("vertex %d: %w", i, unexpectedEOF(err))
				}
				continue
			}
			axis := axisOf(pi, idx)
			if axis < 0 {
				if _, err := br.Discard(p.typ.size()); err != nil {
					return nil, fmt.Errorf("vertex %d: %w", i, unexpectedEOF(err))
				}
				continue
			}
			f, err := readScalar(br, p.typ, &scratch)
			if err != nil {
				return nil, fmt.Errorf("vertex %d: %w", i, err)
			}
			v.Pos[axis] = float32(f)
		}
		vertices = append(vertices, v)
	}
	return vertices, nil
}

func readScalar(br *bufio.Reader, t propType, scratch *[8]byte) (float64, error) {
	buf := scratch[:t.size()]
	if _, err := io.ReadFull(br, buf); err != nil {
		return 0, unexpectedEOF(err)
	}
	return decodeScalar(buf, t), nil
}

func decodeScalar(buf []byte, t propType) float64 {
	switch t {
	case typeInt8:
		return float64(int8(buf[0]))
	case typeUint8:
		return float64(buf[0])
	case typeInt16:
		return float64(int16(binary.LittleEndian.Uint16(buf)))
	case typeUint16:
		return float64(binary.LittleEndian.Uint16(buf))
	case typeInt32:
		return float64(int32(binary.LittleEndian.Uint32(buf)))
	case typeUint32:
		return float64(binary.LittleEndian.Uint32(buf))
	case typeFloat32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(buf)))
	case typeFloat64:
		return math.Float64frombits(binary.LittleEndian.Uint64(buf))
	}
	return 0
}

func skipElement(br *bufio.Reader, format string, elem element) error {
	if format == formatASCII {
		for i := 0; i < elem.count; i++ {
			if _, err := readLine(br); err != nil {
				return fmt.Errorf("skipping %s element: %w", elem.name, unexpectedEOF(err))
			}
		}
		return nil
	}
	size, ok := elem.fixedSize()
	if !ok {
		return fmt.Errorf("cannot skip list-typed element %q before vertex data", elem.name)
	}
	if _, err := br.Discard(size * elem.count); err != nil {
		return fmt.Errorf("skipping %s element: %w", elem.name, unexpectedEOF(err))
	}
	return nil
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
