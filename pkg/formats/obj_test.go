package formats

import (
	"errors"
	"strings"
	"testing"

	"github.com/Faultbox/meshview/pkg/math"
)

func TestParseOBJ_Triangle(t *testing.T) {
	obj, err := ParseOBJ([]byte("o cube\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3"))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}

	if len(obj.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(obj.Groups))
	}
	g := obj.Groups[0]
	if g.Name != "cube" {
		t.Errorf("expected group name 'cube', got %q", g.Name)
	}
	if len(g.Positions) != 3 {
		t.Errorf("expected 3 positions, got %d", len(g.Positions))
	}
	if g.Positions[1] != (math.Vec3{X: 1}) {
		t.Errorf("expected second position (1,0,0), got %v", g.Positions[1])
	}
	if len(g.Faces) != 1 || len(g.Faces[0].Vertices) != 3 {
		t.Fatalf("expected 1 triangular face, got %+v", g.Faces)
	}
	want := []IndexTriple{{Position: 1}, {Position: 2}, {Position: 3}}
	for i, v := range g.Faces[0].Vertices {
		if v != want[i] {
			t.Errorf("face vertex %d: got %+v, want %+v", i, v, want[i])
		}
	}
}

func TestParseOBJ_FaceIndexForms(t *testing.T) {
	tests := []struct {
		name string
		face string
		want IndexTriple
	}{
		{"position only", "f 1 1 1", IndexTriple{Position: 1}},
		{"position texcoord", "f 2/3 2/3 2/3", IndexTriple{Position: 2, TexCoord: 3}},
		{"position normal", "f 4//5 4//5 4//5", IndexTriple{Position: 4, Normal: 5}},
		{"full", "f 6/7/8 6/7/8 6/7/8", IndexTriple{Position: 6, TexCoord: 7, Normal: 8}},
		{"empty texcoord and normal", "f 9// 9// 9//", IndexTriple{Position: 9}},
		{"explicit zero texcoord", "f 1/0/2 1/0/2 1/0/2", IndexTriple{Position: 1, Normal: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := ParseOBJ([]byte("o g\n" + tt.face))
			if err != nil {
				t.Fatalf("ParseOBJ: %v", err)
			}
			got := obj.Groups[0].Faces[0].Vertices[0]
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseOBJ_Quad(t *testing.T) {
	obj, err := ParseOBJ([]byte("o q\nv 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n"))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if n := len(obj.Groups[0].Faces[0].Vertices); n != 4 {
		t.Errorf("expected 4 face vertices, got %d", n)
	}
}

func TestParseOBJ_AllDirectives(t *testing.T) {
	src := strings.Join([]string{
		"# exported",
		"mtllib cube.mtl",
		"o first",
		"v 1.5 -2 3e-1",
		"vn 0 0 1",
		"vt 0.25 0.75",
		"vt 0.5",
		"s 1",
		"usemtl red",
		"f 1/1/1 1/2/1 1/1/1",
		"",
		"o second",
		"v 0 0 0 1",
		"s off",
	}, "\n")

	obj, err := ParseOBJ([]byte(src))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if len(obj.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(obj.Groups))
	}

	first := obj.GetGroupByName("first")
	if first == nil {
		t.Fatal("group 'first' not found")
	}
	if first.Positions[0] != (math.Vec3{X: 1.5, Y: -2, Z: 0.3}) {
		t.Errorf("unexpected position %v", first.Positions[0])
	}
	if first.Normals[0] != (math.Vec3{Z: 1}) {
		t.Errorf("unexpected normal %v", first.Normals[0])
	}
	if len(first.TexCoords) != 2 || first.TexCoords[0] != (math.Vec2{U: 0.25, V: 0.75}) || first.TexCoords[1] != (math.Vec2{U: 0.5}) {
		t.Errorf("unexpected texcoords %v", first.TexCoords)
	}
	if first.Smoothing != 1 {
		t.Errorf("expected smoothing 1, got %d", first.Smoothing)
	}

	second := obj.GetGroupByName("second")
	if second == nil || len(second.Positions) != 1 || second.Smoothing != 0 {
		t.Errorf("unexpected second group %+v", second)
	}
	if len(second.Faces) != 0 {
		t.Errorf("directives must target the latest group, got %d faces in second", len(second.Faces))
	}
	if obj.FaceCount() != 1 {
		t.Errorf("FaceCount = %d, want 1", obj.FaceCount())
	}
	if obj.GetGroupByName("missing") != nil {
		t.Error("GetGroupByName should return nil for unknown names")
	}
}

func TestParseOBJ_LineEndings(t *testing.T) {
	lf := "o a\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	crlf := strings.ReplaceAll(lf, "\n", "\r\n")
	bom := "\ufeff" + crlf

	for name, src := range map[string]string{"lf": lf, "crlf": crlf, "bom": bom} {
		t.Run(name, func(t *testing.T) {
			obj, err := ParseOBJ([]byte(src))
			if err != nil {
				t.Fatalf("ParseOBJ: %v", err)
			}
			if obj.Groups[0].Name != "a" {
				t.Errorf("group name = %q, want 'a'", obj.Groups[0].Name)
			}
			if obj.Groups[0].Faces[0].Vertices[2].Position != 3 {
				t.Errorf("unexpected face %+v", obj.Groups[0].Faces[0])
			}
		})
	}
}

func TestParseOBJ_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
		line    string
	}{
		{"vertex before group", "v 0 0 0", ErrNoGroup, "line 1"},
		{"face before group", "# c\nf 1 2 3", ErrNoGroup, "line 2"},
		{"short vertex", "o a\nv 1 2", ErrInvalidNumber, "line 2"},
		{"bad float", "o a\nvn 1 x 2", ErrInvalidNumber, "line 2"},
		{"bad texcoord", "o a\nvt", ErrInvalidNumber, "line 2"},
		{"two vertex face", "o a\nf 1 2", ErrInvalidFace, "line 2"},
		{"zero position", "o a\nf 0 1 2", ErrInvalidIndex, "line 2"},
		{"negative index", "o a\nf -1 -2 -3", ErrInvalidIndex, "line 2"},
		{"missing position", "o a\nf /1 2 3", ErrInvalidIndex, "line 2"},
		{"too many slashes", "o a\nf 1/2/3/4 2 3", ErrInvalidIndex, "line 2"},
		{"garbage index", "o a\nf 1 two 3", ErrInvalidIndex, "line 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ([]byte(tt.src))
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if !strings.HasPrefix(err.Error(), tt.line+":") {
				t.Errorf("expected error to start with %q, got %q", tt.line, err.Error())
			}
		})
	}
}

func TestParseOBJ_Empty(t *testing.T) {
	obj, err := ParseOBJ(nil)
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if len(obj.Groups) != 0 {
		t.Errorf("expected no groups, got %d", len(obj.Groups))
	}
}

func TestReadOBJ(t *testing.T) {
	obj, err := ReadOBJ(strings.NewReader("o r\nv 1 2 3\n"))
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}
	if obj.Groups[0].Positions[0] != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("unexpected position %v", obj.Groups[0].Positions[0])
	}
}
