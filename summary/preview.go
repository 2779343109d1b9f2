package summary

import (
	"image"
	"math"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// Preview renders a point cloud to an image for AddImage. Every point
// becomes a small camera-facing splat; the cloud is fit to a bi-unit
// cube so scale does not matter. Returns nil for an empty cloud.
func Preview(points []r3.Vec, width, height int) image.Image {
	if len(points) == 0 {
		return nil
	}
	const scale = 2 // supersampling factor

	// Splat size relative to the cloud extent.
	var min, max r3.Vec
	min, max = points[0], points[0]
	for _, p := range points[1:] {
		min = r3.Vec{X: math.Min(min.X, p.X), Y: math.Min(min.Y, p.Y), Z: math.Min(min.Z, p.Z)}
		max = r3.Vec{X: math.Max(max.X, p.X), Y: math.Max(max.Y, p.Y), Z: math.Max(max.Z, p.Z)}
	}
	ext := r3.Norm(r3.Sub(max, min))
	if ext == 0 {
		ext = 1
	}
	r := ext * 0.008

	triangles := make([]*fauxgl.Triangle, 0, 4*len(points))
	for _, p := range points {
		triangles = append(triangles, splat(p, r)...)
	}
	mesh := fauxgl.NewTriangleMesh(triangles)
	mesh.BiUnitCube()

	eye := fauxgl.V(2.2, 1.6, 1.8)
	center := fauxgl.V(0, 0, 0)
	up := fauxgl.V(0, 0, 1)
	light := fauxgl.V(-0.75, 1, 0.25).Normalize()

	context := fauxgl.NewContext(width*scale, height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(30, aspect, 1, 10)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor("#468966")
	context.Shader = shader
	context.DrawMesh(mesh)

	img := context.Image()
	return resize.Resize(uint(width), uint(height), img, resize.Bilinear)
}

// splat builds a small tetrahedron centered on p.
func splat(p r3.Vec, r float64) []*fauxgl.Triangle {
	a := fauxgl.V(p.X+r, p.Y+r, p.Z+r)
	b := fauxgl.V(p.X-r, p.Y-r, p.Z+r)
	c := fauxgl.V(p.X-r, p.Y+r, p.Z-r)
	d := fauxgl.V(p.X+r, p.Y-r, p.Z-r)
	return []*fauxgl.Triangle{
		fauxgl.NewTriangleForPoints(a, b, c),
		fauxgl.NewTriangleForPoints(a, d, b),
		fauxgl.NewTriangleForPoints(a, c, d),
		fauxgl.NewTriangleForPoints(b, d, c),
	}
}
