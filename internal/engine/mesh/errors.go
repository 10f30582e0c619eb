package mesh

import (
	"errors"
	"fmt"
)

// Mesh pipeline errors.
var (
	ErrIndexOutOfRange    = errors.New("face index out of range")
	ErrBufferSizeExceeded = errors.New("mesh exceeds 16-bit index range")
	ErrNotReady           = errors.New("mesh is not ready")
	ErrLoadInProgress     = errors.New("mesh load already in progress")
	ErrInvalidFace        = errors.New("face has fewer than 3 vertices")
)

// FetchError reports that the mesh source could not be retrieved.
type FetchError struct {
	Path string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching mesh %s: %v", e.Path, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a malformed mesh document, including faces that
// cannot be converted to buffers.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing mesh %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UploadError reports a failure creating GPU buffers.
type UploadError struct {
	Buffer string
	Err    error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("uploading %s buffer: %v", e.Buffer, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
