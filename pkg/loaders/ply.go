package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/log"
)

// ErrInvalidPLY is wrapped by every parse failure
var ErrInvalidPLY = errors.New("loaders: invalid PLY data")

var logger = log.New("loaders")

const (
	// Longest list property accepted, such as the vertex count of one face
	maxListLength = 1 << 16
	// Upper bound on the vertex slice capacity reserved from the header count
	maxVertexPrealloc = 1 << 20
)

// PLYHeader describes the layout of a PLY file
type PLYHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version  string // Usually "1.0"
	Elements []PLYElement
}

// PLYElement is one element block of the body, such as "vertex" or "face"
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty
}

// PLYProperty represents a property in the PLY header
type PLYProperty struct {
	Name     string
	Type     string // Scalar type, or the item type of a list
	IsList   bool
	ListType string // For list properties, the type of the count
}

// PLYMesh holds the triangle data of a PLY file. Polygons are split into
// triangle fans.
type PLYMesh struct {
	Vertices []core.Vec3
	Faces    []int // Triangle indices, 3 per triangle
}

// TriangleCount returns the number of triangles in the mesh
func (m *PLYMesh) TriangleCount() int {
	return len(m.Faces) / 3
}

// LoadPLY loads a PLY file from disk
func LoadPLY(filename string) (*PLYMesh, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loaders: opening PLY file: %w", err)
	}
	defer file.Close()

	mesh, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	logger.Infof("loaded %s: %d vertices, %d triangles in %v",
		filename, len(mesh.Vertices), mesh.TriangleCount(), time.Since(startTime))
	return mesh, nil
}

// ReadPLY parses PLY data. Vertex x, y, z and face vertex_indices are kept,
// every other property is skipped.
func ReadPLY(r io.Reader) (*PLYMesh, error) {
	reader := bufio.NewReaderSize(r, 1024*1024)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, err
	}

	var values valueReader
	switch header.Format {
	case "ascii":
		values = &asciiReader{reader: reader}
	case "binary_little_endian":
		values = &binaryReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryReader{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidPLY, header.Format)
	}

	mesh := &PLYMesh{}
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			err = readVertices(values, element, mesh)
		case "face":
			err = readFaces(values, element, mesh)
		default:
			err = skipElement(values, element)
		}
		if err != nil {
			return nil, err
		}
	}

	for i, index := range mesh.Faces {
		if index < 0 || index >= len(mesh.Vertices) {
			return nil, fmt.Errorf("%w: face index %d out of range at triangle %d", ErrInvalidPLY, index, i/3)
		}
	}

	return mesh, nil
}

// parsePLYHeader reads the header up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	first := true

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: header ended early: %v", ErrInvalidPLY, err)
		}
		parts := strings.Fields(line)

		if first {
			if len(parts) != 1 || parts[0] != "ply" {
				return nil, fmt.Errorf("%w: missing ply magic", ErrInvalidPLY)
			}
			first = false
			continue
		}
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: bad format line %q", ErrInvalidPLY, strings.TrimSpace(line))
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: bad element line %q", ErrInvalidPLY, strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: invalid element count %q", ErrInvalidPLY, parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("%w: property outside an element", ErrInvalidPLY)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			current := &header.Elements[len(header.Elements)-1]
			current.Properties = append(current.Properties, prop)
		case "end_header":
			return header, nil
		default:
			return nil, fmt.Errorf("%w: unknown header keyword %q", ErrInvalidPLY, parts[0])
		}
	}
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) >= 4 && parts[0] == "list" {
		prop := PLYProperty{Name: parts[3], Type: parts[2], IsList: true, ListType: parts[1]}
		if typeSize(prop.ListType) == 0 || typeSize(prop.Type) == 0 {
			return prop, fmt.Errorf("%w: unknown list types in %v", ErrInvalidPLY, parts)
		}
		return prop, nil
	}
	if len(parts) == 2 && parts[0] != "list" {
		prop := PLYProperty{Name: parts[1], Type: parts[0]}
		if typeSize(prop.Type) == 0 {
			return prop, fmt.Errorf("%w: unknown property type %q", ErrInvalidPLY, prop.Type)
		}
		return prop, nil
	}
	return PLYProperty{}, fmt.Errorf("%w: invalid property definition %v", ErrInvalidPLY, parts)
}

// typeSize returns the byte size of a PLY scalar type, or 0 if unknown
func typeSize(dataType string) int {
	switch dataType {
	case "char", "uchar", "int8", "uint8":
		return 1
	case "short", "ushort", "int16", "uint16":
		return 2
	case "int", "uint", "float", "int32", "uint32", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}

func readVertices(values valueReader, element PLYElement, mesh *PLYMesh) error {
	axis := map[string]int{"x": 0, "y": 1, "z": 2}
	mesh.Vertices = make([]core.Vec3, 0, min(element.Count, maxVertexPrealloc))

	for i := 0; i < element.Count; i++ {
		var position [3]float64
		for _, prop := range element.Properties {
			if prop.IsList {
				if err := skipList(values, prop); err != nil {
					return fmt.Errorf("vertex %d: %w", i, err)
				}
				continue
			}
			v, err := values.read(prop.Type)
			if err != nil {
				return fmt.Errorf("%w: vertex %d: %v", ErrInvalidPLY, i, err)
			}
			if a, ok := axis[prop.Name]; ok {
				position[a] = v
			}
		}
		mesh.Vertices = append(mesh.Vertices, core.NewVec3(position[0], position[1], position[2]))
	}
	return nil
}

func readFaces(values valueReader, element PLYElement, mesh *PLYMesh) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Properties {
			if !prop.IsList || (prop.Name != "vertex_indices" && prop.Name != "vertex_index") {
				if err := skipProperty(values, prop); err != nil {
					return fmt.Errorf("face %d: %w", i, err)
				}
				continue
			}

			n, err := readListCount(values, prop)
			if err != nil {
				return fmt.Errorf("face %d: %w", i, err)
			}
			if n < 3 {
				return fmt.Errorf("%w: face %d has %d vertices", ErrInvalidPLY, i, n)
			}

			polygon := make([]int, n)
			for k := range polygon {
				index, err := values.read(prop.Type)
				if err != nil {
					return fmt.Errorf("%w: face %d: %v", ErrInvalidPLY, i, err)
				}
				if index != math.Trunc(index) || index < 0 || index > math.MaxInt32 {
					return fmt.Errorf("%w: face %d has invalid vertex index %g", ErrInvalidPLY, i, index)
				}
				polygon[k] = int(index)
			}

			// Triangle fan around the first vertex
			for k := 1; k+1 < len(polygon); k++ {
				mesh.Faces = append(mesh.Faces, polygon[0], polygon[k], polygon[k+1])
			}
		}
	}
	return nil
}

func skipElement(values valueReader, element PLYElement) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Properties {
			if err := skipProperty(values, prop); err != nil {
				return fmt.Errorf("%s %d: %w", element.Name, i, err)
			}
		}
	}
	return nil
}

func skipProperty(values valueReader, prop PLYProperty) error {
	if prop.IsList {
		return skipList(values, prop)
	}
	if _, err := values.read(prop.Type); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPLY, err)
	}
	return nil
}

func skipList(values valueReader, prop PLYProperty) error {
	n, err := readListCount(values, prop)
	if err != nil {
		return err
	}
	for k := 0; k < n; k++ {
		if _, err := values.read(prop.Type); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPLY, err)
		}
	}
	return nil
}

// readListCount reads the length prefix of a list property
func readListCount(values valueReader, prop PLYProperty) (int, error) {
	n, err := values.read(prop.ListType)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPLY, err)
	}
	if n != math.Trunc(n) || n < 0 || n > maxListLength {
		return 0, fmt.Errorf("%w: invalid list length %g for %q", ErrInvalidPLY, n, prop.Name)
	}
	return int(n), nil
}

// valueReader yields the next scalar of the body as a float64
type valueReader interface {
	read(dataType string) (float64, error)
}

type asciiReader struct {
	reader *bufio.Reader
}

func (a *asciiReader) read(dataType string) (float64, error) {
	token, err := a.next()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(token, 64)
}

// next returns the next whitespace separated token
func (a *asciiReader) next() (string, error) {
	var sb strings.Builder
	for {
		b, err := a.reader.ReadByte()
		if err != nil {
			if err == io.EOF && sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			if sb.Len() > 0 {
				return sb.String(), nil
			}
			continue
		}
		sb.WriteByte(b)
	}
}

type binaryReader struct {
	reader *bufio.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *binaryReader) read(dataType string) (float64, error) {
	size := typeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unknown type %q", dataType)
	}
	data := b.buf[:size]
	if _, err := io.ReadFull(b.reader, data); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(data[0])), nil
	case "uchar", "uint8":
		return float64(data[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(data))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(data)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(data))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(data)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(data))), nil
	default:
		return math.Float64frombits(b.order.Uint64(data)), nil
	}
}
