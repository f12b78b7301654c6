package viz

import "math"

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Camera is a perspective camera orbiting the origin.
type Camera struct {
	Distance         float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera { return &Camera{Distance: 5, Zoom: 1} }

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }

// Rotate applies the camera's X, Y then Z rotations to p.
func (c *Camera) Rotate(p Vec3) Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project maps p onto a w by h dot canvas. ok is false for points behind
// the camera or off the canvas.
func (c *Camera) Project(p Vec3, w, h int) (x, y int, ok bool) {
	rot := c.Rotate(p).Scale(c.Zoom)
	if rot.Z >= c.Distance-0.1 {
		return 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z) * float64(min(w, h)) / 3
	x = int(rot.X*scale) + w/2
	y = int(-rot.Y*scale) + h/2
	return x, y, x >= 0 && x < w && y >= 0 && y < h
}

// DrawPath projects consecutive points and joins the visible ones.
func DrawPath(c *Canvas, cam *Camera, pts []Vec3) {
	w, h := c.Dots()
	px, py, prev := 0, 0, false
	for _, p := range pts {
		x, y, ok := cam.Project(p, w, h)
		if ok && prev {
			c.DrawLine(px, py, x, y)
		} else if ok {
			c.Set(x, y)
		}
		px, py, prev = x, y, ok
	}
}
