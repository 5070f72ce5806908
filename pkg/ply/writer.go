// SPDX-License-Identifier: MPL-2.0

package ply

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// WriteASCII writes vertices as an ascii PLY point cloud with float x, y
// and z properties. Coordinates are printed with the shortest decimal that
// reads back to the same float32.
func WriteASCII(w io.Writer, vertices []Vertex) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ply\nformat ascii 1.0\nelement vertex %d\n", len(vertices))
	bw.WriteString("property float x\nproperty float y\nproperty float z\nend_header\n")

	buf := make([]byte, 0, 64)
	for _, v := range vertices {
		buf = buf[:0]
		for axis, f := range v.Pos {
			if axis > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendFloat(buf, float64(f), 'g', -1, 32)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteASCIIFile writes vertices to path, creating or truncating it.
func WriteASCIIFile(path string, vertices []Vertex) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteASCII(f, vertices); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
