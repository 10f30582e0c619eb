package viewer

import (
	gomath "math"

	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/pkg/math"
)

// degrees converts a config triple in degrees to a radian vector.
func degrees(v [3]float64) math.Vec3 {
	const k = gomath.Pi / 180
	return math.Vec3{X: v[0] * k, Y: v[1] * k, Z: v[2] * k}
}

func vec(v [3]float64) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// cameraFromConfig builds the fixed eye transform.
func cameraFromConfig(cfg config.CameraConfig) mesh.Camera {
	return mesh.Camera{
		Position: vec(cfg.Position),
		Rotation: degrees(cfg.Rotation),
	}
}

// spin advances rotation by speed (radians per second) over dt seconds,
// wrapping each angle into [0, 2π) so long sessions do not lose precision.
func spin(rotation, speed math.Vec3, dt float64) math.Vec3 {
	r := rotation.Add(speed.Scale(dt))
	return math.Vec3{X: wrapAngle(r.X), Y: wrapAngle(r.Y), Z: wrapAngle(r.Z)}
}

func wrapAngle(a float64) float64 {
	a = gomath.Mod(a, 2*gomath.Pi)
	if a < 0 {
		a += 2 * gomath.Pi
	}
	return a
}
