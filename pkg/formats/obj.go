// OBJ (Wavefront subset) text parser for meshes.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/meshview/pkg/encoding"
	"github.com/Faultbox/meshview/pkg/math"
)

// OBJ format errors.
var (
	ErrNoGroup       = errors.New("directive before any 'o' group")
	ErrInvalidNumber = errors.New("invalid number")
	ErrInvalidFace   = errors.New("invalid face")
	ErrInvalidIndex  = errors.New("invalid index")
)

// maxOBJLine bounds a single line so a corrupt file cannot grow the scanner without limit.
const maxOBJLine = 1 << 20

// IndexTriple references one face vertex. Indices are 1-based;
// TexCoord and Normal are 0 when absent.
type IndexTriple struct {
	Position int
	TexCoord int
	Normal   int
}

// HasTexCoord reports whether the vertex references a texture coordinate.
func (t IndexTriple) HasTexCoord() bool { return t.TexCoord != 0 }

// HasNormal reports whether the vertex references a normal.
func (t IndexTriple) HasNormal() bool { return t.Normal != 0 }

// OBJFace is a polygon with three or more vertices, in file order.
type OBJFace struct {
	Vertices []IndexTriple
}

// OBJGroup is one 'o' object with its own vertex pools.
type OBJGroup struct {
	Name      string
	Positions []math.Vec3
	Normals   []math.Vec3
	TexCoords []math.Vec2
	Faces     []OBJFace
	Smoothing int // 's' value, 0 when off
}

// OBJ is a parsed mesh document: an ordered list of groups.
type OBJ struct {
	Groups []OBJGroup
}

// FaceCount returns the number of faces across all groups.
func (o *OBJ) FaceCount() int {
	n := 0
	for i := range o.Groups {
		n += len(o.Groups[i].Faces)
	}
	return n
}

// GetGroupByName returns the first group with the given name, or nil.
func (o *OBJ) GetGroupByName(name string) *OBJGroup {
	for i := range o.Groups {
		if o.Groups[i].Name == name {
			return &o.Groups[i]
		}
	}
	return nil
}

// ParseOBJ parses OBJ data from a byte slice.
func ParseOBJ(data []byte) (*OBJ, error) {
	return ReadOBJ(bytes.NewReader(data))
}

// ReadOBJ parses OBJ text from r. A leading UTF-8 or UTF-16 BOM is honoured.
// Lines may end in LF or CRLF. Unknown directives are ignored.
func ReadOBJ(r io.Reader) (*OBJ, error) {
	scanner := bufio.NewScanner(encoding.NewReader(r))
	scanner.Buffer(make([]byte, 0, 64*1024), maxOBJLine)

	p := &objParser{obj: &OBJ{}}
	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", p.line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	return p.obj, nil
}

// objParser holds the parse state. current is nil until the first 'o'.
type objParser struct {
	obj     *OBJ
	current *OBJGroup
	line    int
}

func (p *objParser) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "o":
		name := ""
		if len(fields) > 1 {
			name = strings.Join(fields[1:], " ")
		}
		p.obj.Groups = append(p.obj.Groups, OBJGroup{Name: name})
		p.current = &p.obj.Groups[len(p.obj.Groups)-1]
		return nil
	case "v", "vn", "vt", "f", "s":
		if p.current == nil {
			return fmt.Errorf("%w: %q", ErrNoGroup, fields[0])
		}
	default:
		return nil
	}

	g := p.current
	args := fields[1:]

	switch fields[0] {
	case "v":
		v, err := parseVec3(args)
		if err != nil {
			return fmt.Errorf("vertex: %w", err)
		}
		g.Positions = append(g.Positions, v)
	case "vn":
		v, err := parseVec3(args)
		if err != nil {
			return fmt.Errorf("normal: %w", err)
		}
		g.Normals = append(g.Normals, v)
	case "vt":
		v, err := parseVec2(args)
		if err != nil {
			return fmt.Errorf("texcoord: %w", err)
		}
		g.TexCoords = append(g.TexCoords, v)
	case "f":
		face, err := parseFace(args)
		if err != nil {
			return err
		}
		g.Faces = append(g.Faces, face)
	case "s":
		g.Smoothing = parseSmoothing(args)
	}

	return nil
}

func parseFloats(args []string, want int) ([]float64, error) {
	if len(args) < want {
		return nil, fmt.Errorf("%w: expected %d components, got %d", ErrInvalidNumber, want, len(args))
	}
	out := make([]float64, want)
	for i := 0; i < want; i++ {
		f, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidNumber, args[i])
		}
		out[i] = f
	}
	return out, nil
}

// parseVec3 reads x y z; an optional w is ignored.
func parseVec3(args []string) (math.Vec3, error) {
	f, err := parseFloats(args, 3)
	if err != nil {
		return math.Vec3{}, err
	}
	return math.Vec3{X: f[0], Y: f[1], Z: f[2]}, nil
}

// parseVec2 reads u [v]; v defaults to 0.
func parseVec2(args []string) (math.Vec2, error) {
	want := 2
	if len(args) == 1 {
		want = 1
	}
	f, err := parseFloats(args, want)
	if err != nil {
		return math.Vec2{}, err
	}
	v := math.Vec2{U: f[0]}
	if want == 2 {
		v.V = f[1]
	}
	return v, nil
}

func parseFace(args []string) (OBJFace, error) {
	if len(args) < 3 {
		return OBJFace{}, fmt.Errorf("%w: need at least 3 vertices, got %d", ErrInvalidFace, len(args))
	}

	face := OBJFace{Vertices: make([]IndexTriple, len(args))}
	for i, arg := range args {
		t, err := parseIndexTriple(arg)
		if err != nil {
			return OBJFace{}, fmt.Errorf("%w: vertex %d: %w", ErrInvalidFace, i+1, err)
		}
		face.Vertices[i] = t
	}
	return face, nil
}

// parseIndexTriple parses pos, pos/tex, pos//norm or pos/tex/norm.
func parseIndexTriple(s string) (IndexTriple, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return IndexTriple{}, fmt.Errorf("%w: %q", ErrInvalidIndex, s)
	}

	var idx [3]int
	for i, part := range parts {
		if part == "" {
			if i == 0 {
				return IndexTriple{}, fmt.Errorf("%w: missing position in %q", ErrInvalidIndex, s)
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return IndexTriple{}, fmt.Errorf("%w: %q", ErrInvalidIndex, s)
		}
		idx[i] = n
	}
	if idx[0] == 0 {
		return IndexTriple{}, fmt.Errorf("%w: position index must be >= 1 in %q", ErrInvalidIndex, s)
	}

	return IndexTriple{Position: idx[0], TexCoord: idx[1], Normal: idx[2]}, nil
}

// parseSmoothing reads 's <n>' or 's off'. Anything unparsable counts as off.
func parseSmoothing(args []string) int {
	if len(args) == 0 {
		return 0
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0
	}
	return n
}
