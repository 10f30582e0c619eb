package debug

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// ReadFramebuffer reads the back buffer as bottom-up RGBA bytes.
// Call before swapping buffers.
func ReadFramebuffer(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadBuffer(gl.BACK)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

// CaptureFramebuffer reads the back buffer and saves it.
func (sc *ScreenshotCapture) CaptureFramebuffer(width, height int) (string, error) {
	return sc.CaptureFromPixels(ReadFramebuffer(width, height), width, height)
}
