package mesh

import (
	"context"
	"fmt"
	gomath "math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/pkg/formats"
	"github.com/Faultbox/meshview/pkg/math"
)

// Projection parameters used by Draw.
const (
	FieldOfView = 45 * gomath.Pi / 180
	NearPlane   = 0.1
	FarPlane    = 100.0
)

// State is the lifecycle stage of a Mesh.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateReady
	StateFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "Unloaded"
	case StateLoading:
		return "Loading"
	case StateReady:
		return "Ready"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Camera is the fixed eye transform. The view matrix is its inverse.
type Camera struct {
	Position math.Vec3
	Rotation math.Vec3 // Euler angles in radians, applied X then Y then Z
}

// handles are the GPU buffers of a loaded mesh. Zero means absent.
type handles struct {
	positions uint32
	normals   uint32
	texCoords uint32
	indices   uint32
}

// Mesh is a renderable mesh loaded from a text source.
// Position and Rotation may be changed between frames by the owning thread.
type Mesh struct {
	ID   string
	Path string

	Position math.Vec3
	Rotation math.Vec3 // Euler angles in radians

	fetcher     Fetcher
	convertOpts ConvertOptions
	loadTimeout time.Duration

	mu         sync.Mutex
	state      State
	gfx        Graphics
	obj        *formats.OBJ
	buffers    handles
	indexCount int32
	bounds     Bounds
}

// Option configures a Mesh.
type Option func(*Mesh)

// WithConvertOptions sets the options used when building GPU buffers.
func WithConvertOptions(opts ConvertOptions) Option {
	return func(m *Mesh) { m.convertOpts = opts }
}

// WithLoadTimeout bounds fetch and parse. Zero disables the timeout.
func WithLoadTimeout(d time.Duration) Option {
	return func(m *Mesh) { m.loadTimeout = d }
}

// New creates an unloaded mesh that will read its source from path.
func New(id, path string, fetcher Fetcher, opts ...Option) *Mesh {
	m := &Mesh{
		ID:          id,
		Path:        path,
		fetcher:     fetcher,
		loadTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current lifecycle state.
func (m *Mesh) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// OBJ returns the parsed document from the last successful load, or nil.
func (m *Mesh) OBJ() *formats.OBJ {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.obj
}

// IndexCount returns the number of indices drawn per frame.
func (m *Mesh) IndexCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int(m.indexCount)
}

// Bounds returns the object-space bounding box of the loaded mesh.
func (m *Mesh) Bounds() Bounds {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bounds
}

// Load fetches, parses and converts the mesh source, then uploads its buffers to gfx.
// Only one load may run at a time; a concurrent call returns ErrLoadInProgress.
// Reloading a ready mesh swaps in the new buffers once they are uploaded. A failed
// load releases any previous buffers and leaves the mesh in StateFailed.
func (m *Mesh) Load(ctx context.Context, gfx Graphics) error {
	m.mu.Lock()
	if m.state == StateLoading {
		m.mu.Unlock()
		return ErrLoadInProgress
	}
	m.state = StateLoading
	m.mu.Unlock()

	start := time.Now()
	obj, bufs, err := m.prepare(ctx)

	var h handles
	if err == nil {
		h, err = upload(gfx, bufs)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.releaseLocked()
		m.obj = nil
		m.state = StateFailed
		logger.Error("mesh load failed",
			zap.String("id", m.ID),
			zap.String("path", m.Path),
			zap.Error(err),
		)
		return err
	}

	m.releaseLocked()
	m.gfx = gfx
	m.obj = obj
	m.buffers = h
	m.indexCount = int32(len(bufs.Indices))
	m.bounds = bufs.Bounds
	m.state = StateReady

	logger.Info("mesh loaded",
		zap.String("id", m.ID),
		zap.String("path", m.Path),
		zap.Int("groups", len(obj.Groups)),
		zap.Int("faces", obj.FaceCount()),
		zap.Int("triangles", bufs.TriangleCount()),
		zap.Bool("normals", len(bufs.Normals) > 0),
		zap.Bool("texcoords", len(bufs.TexCoords) > 0),
		zap.Duration("took", time.Since(start)),
	)
	if bufs.SkippedTriangles > 0 {
		logger.Warn("mesh triangles skipped",
			zap.String("id", m.ID),
			zap.Int("count", bufs.SkippedTriangles),
		)
	}
	return nil
}

// prepare runs the I/O and CPU stages of a load.
func (m *Mesh) prepare(ctx context.Context) (*formats.OBJ, *Buffers, error) {
	if m.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.loadTimeout)
		defer cancel()
	}

	data, err := m.fetcher.Fetch(ctx, m.Path)
	if err != nil {
		return nil, nil, &FetchError{Path: m.Path, Err: err}
	}

	obj, err := formats.ParseOBJ(data)
	if err != nil {
		return nil, nil, &ParseError{Path: m.Path, Err: err}
	}

	bufs, err := Convert(obj, m.convertOpts)
	if err != nil {
		return nil, nil, &ParseError{Path: m.Path, Err: err}
	}

	return obj, bufs, nil
}

// upload creates the four buffers. On error nothing stays allocated.
func upload(gfx Graphics, b *Buffers) (handles, error) {
	var h handles
	if len(b.Indices) == 0 {
		return h, nil
	}

	var err error
	fail := func(name string, err error) (handles, error) {
		deleteHandles(gfx, h)
		return handles{}, &UploadError{Buffer: name, Err: err}
	}

	if h.positions, err = gfx.CreateArrayBuffer(b.Positions); err != nil {
		return fail("position", err)
	}
	if len(b.Normals) > 0 {
		if h.normals, err = gfx.CreateArrayBuffer(b.Normals); err != nil {
			return fail("normal", err)
		}
	}
	if len(b.TexCoords) > 0 {
		if h.texCoords, err = gfx.CreateArrayBuffer(b.TexCoords); err != nil {
			return fail("texcoord", err)
		}
	}
	if h.indices, err = gfx.CreateElementBuffer(b.Indices); err != nil {
		return fail("index", err)
	}

	return h, nil
}

func deleteHandles(gfx Graphics, h handles) {
	for _, id := range []uint32{h.positions, h.normals, h.texCoords, h.indices} {
		if id != 0 {
			gfx.DeleteBuffer(id)
		}
	}
}

// Release frees the GPU buffers and returns the mesh to StateUnloaded.
func (m *Mesh) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateLoading {
		return
	}
	m.releaseLocked()
	m.obj = nil
	m.state = StateUnloaded
}

func (m *Mesh) releaseLocked() {
	if m.gfx != nil {
		deleteHandles(m.gfx, m.buffers)
	}
	m.buffers = handles{}
	m.indexCount = 0
	m.bounds = Bounds{}
}

// ModelMatrix returns I * T(Position) * Rx * Ry * Rz.
func (m *Mesh) ModelMatrix() math.Mat4 {
	return math.Identity().
		Translate(m.Position).
		RotateX(m.Rotation.X).
		RotateY(m.Rotation.Y).
		RotateZ(m.Rotation.Z)
}

// ViewMatrix returns the inverse camera transform: Rx(-x) * Ry(-y) * Rz(-z) * T(-position).
func ViewMatrix(cam Camera) math.Mat4 {
	return math.Identity().
		RotateX(-cam.Rotation.X).
		RotateY(-cam.Rotation.Y).
		RotateZ(-cam.Rotation.Z).
		Translate(cam.Position.Negate())
}

// ProjectionMatrix returns the perspective projection used for the given viewport aspect.
func ProjectionMatrix(aspect float64) math.Mat4 {
	return math.Perspective(FieldOfView, aspect, NearPlane, FarPlane)
}

// Draw submits the whole mesh with program. Attributes and uniforms the program
// does not use are skipped. Returns ErrNotReady unless a load has completed.
func (m *Mesh) Draw(program Program, cam Camera, aspect float64) error {
	m.mu.Lock()
	state, gfx, h, count := m.state, m.gfx, m.buffers, m.indexCount
	m.mu.Unlock()

	if state != StateReady {
		return fmt.Errorf("%w: %s is %s", ErrNotReady, m.ID, state)
	}

	program.Use()
	if count == 0 {
		return nil
	}

	bindAttribute(gfx, program, AttribPosition, h.positions, 3)
	bindAttribute(gfx, program, AttribNormal, h.normals, 3)
	bindAttribute(gfx, program, AttribTexCoord, h.texCoords, 2)

	setMatrix(gfx, program, UniformModel, m.ModelMatrix())
	setMatrix(gfx, program, UniformView, ViewMatrix(cam))
	setMatrix(gfx, program, UniformProjection, ProjectionMatrix(aspect))

	gfx.DrawTriangles(h.indices, count)
	return nil
}

// bindAttribute feeds buffer to the named attribute. An active attribute with no
// buffer is disabled so an array left enabled by an earlier mesh is not read.
func bindAttribute(gfx Graphics, program Program, name string, buffer uint32, size int32) {
	loc := program.AttribLocation(name)
	if loc < 0 {
		return
	}
	if buffer == 0 {
		gfx.DisableAttribute(loc)
		return
	}
	gfx.BindAttribute(loc, buffer, size)
}

func setMatrix(gfx Graphics, program Program, name string, m math.Mat4) {
	loc := program.UniformLocation(name)
	if loc < 0 {
		return
	}
	gfx.UniformMatrix4(loc, m.Float32())
}
