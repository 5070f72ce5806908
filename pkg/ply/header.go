// SPDX-License-Identifier: MPL-2.0

package ply

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	formatASCII    = "ascii"
	formatBinaryLE = "binary_little_endian"
)

// HeaderError reports a malformed line in a PLY header.
type HeaderError struct {
	Line int
	Msg  string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("ply header line %d: %s", e.Line, e.Msg)
}

type propType int

const (
	typeInvalid propType = iota
	typeInt8
	typeUint8
	typeInt16
	typeUint16
	typeInt32
	typeUint32
	typeFloat32
	typeFloat64
)

func parsePropType(s string) propType {
	switch s {
	case "char", "int8":
		return typeInt8
	case "uchar", "uint8":
		return typeUint8
	case "short", "int16":
		return typeInt16
	case "ushort", "uint16":
		return typeUint16
	case "int", "int32":
		return typeInt32
	case "uint", "uint32":
		return typeUint32
	case "float", "float32":
		return typeFloat32
	case "double", "float64":
		return typeFloat64
	}
	return typeInvalid
}

func (t propType) size() int {
	switch t {
	case typeInt8, typeUint8:
		return 1
	case typeInt16, typeUint16:
		return 2
	case typeInt32, typeUint32, typeFloat32:
		return 4
	case typeFloat64:
		return 8
	}
	return 0
}

func (t propType) isFloat() bool { return t == typeFloat32 || t == typeFloat64 }

type property struct {
	name      string
	typ       propType
	list      bool
	countType propType
}

type element struct {
	name  string
	count int
	props []property
}

// fixedSize returns the binary record size of the element, or false if any
// property is a list and the size varies per record.
func (e element) fixedSize() (int, bool) {
	total := 0
	for _, p := range e.props {
		if p.list {
			return 0, false
		}
		total += p.typ.size()
	}
	return total, true
}

type header struct {
	format   string
	elements []element
}

func readHeader(br *bufio.Reader) (*header, error) {
	line, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("reading magic: %w", unexpectedEOF(err))
	}
	if line != "ply" {
		return nil, ErrNotPLY
	}

	h := &header{}
	for n := 2; ; n++ {
		line, err := readLine(br)
		if err != nil {
			return nil, fmt.Errorf("reading header: %w", unexpectedEOF(err))
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "comment", "obj_info":
		case "format":
			if len(fields) < 2 {
				return nil, &HeaderError{Line: n, Msg: "format line without an encoding"}
			}
			if fields[1] != formatASCII && fields[1] != formatBinaryLE {
				return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, fields[1])
			}
			h.format = fields[1]
		case "element":
			if len(fields) != 3 {
				return nil, &HeaderError{Line: n, Msg: "element needs a name and a count"}
			}
			count, err := strconv.Atoi(fields[2])
			if err != nil || count < 0 {
				return nil, &HeaderError{Line: n, Msg: fmt.Sprintf("bad element count %q", fields[2])}
			}
			h.elements = append(h.elements, element{name: fields[1], count: count})
		case "property":
			if len(h.elements) == 0 {
				return nil, &HeaderError{Line: n, Msg: "property before any element"}
			}
			prop, err := parseProperty(fields)
			if err != nil {
				return nil, &HeaderError{Line: n, Msg: err.Error()}
			}
			last := &h.elements[len(h.elements)-1]
			last.props = append(last.props, prop)
		case "end_header":
			if h.format == "" {
				return nil, &HeaderError{Line: n, Msg: "missing format line"}
			}
			return h, nil
		default:
			return nil, &HeaderError{Line: n, Msg: fmt.Sprintf("unknown keyword %q", fields[0])}
		}
	}
}

func parseProperty(fields []string) (property, error) {
	if len(fields) >= 2 && fields[1] == "list" {
		if len(fields) != 5 {
			return property{}, fmt.Errorf("list property needs a count type, a value type and a name")
		}
		ct, vt := parsePropType(fields[2]), parsePropType(fields[3])
		if ct == typeInvalid || vt == typeInvalid {
			return property{}, fmt.Errorf("unknown type in list property %q", fields[4])
		}
		if ct.isFloat() {
			return property{}, fmt.Errorf("list count type %s is not integral", fields[2])
		}
		return property{name: fields[4], typ: vt, list: true, countType: ct}, nil
	}
	if len(fields) != 3 {
		return property{}, fmt.Errorf("property needs a type and a name")
	}
	t := parsePropType(fields[1])
	if t == typeInvalid {
		return property{}, fmt.Errorf("unknown property type %q", fields[1])
	}
	return property{name: fields[2], typ: t}, nil
}

// readLine returns the next line with the trailing newline and any
// carriage return removed. A final unterminated line is not an error.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
