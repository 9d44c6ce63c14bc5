package kernel

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// WriteOBJ writes m as a Wavefront OBJ object named name, with vertices in
// world space and per-vertex normals. An empty mesh writes only the header.
func WriteOBJ(w io.Writer, name string, m *Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "o %s\n", name)
	for i := 0; i < m.VertexCount(); i++ {
		v := m.Vertex(i)
		fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z)
	}
	hasNormals := len(m.Normals) == len(m.Vertices)
	if hasNormals {
		for i := 0; i < m.VertexCount(); i++ {
			n := m.Normal(i)
			fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
		}
	}
	// OBJ indices are 1-based.
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Indices[t*3]+1, m.Indices[t*3+1]+1, m.Indices[t*3+2]+1
		if hasNormals {
			fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		} else {
			fmt.Fprintf(bw, "f %d %d %d\n", a, b, c)
		}
	}
	return bw.Flush()
}

// SaveOBJ writes m to path.
func SaveOBJ(path, name string, m *Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("kernel: create %s: %w", path, err)
	}
	if err := WriteOBJ(f, name, m); err != nil {
		f.Close()
		return fmt.Errorf("kernel: write %s: %w", path, err)
	}
	return f.Close()
}
