package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/vector"

	"github.com/smasonuk/uvalign"
)

var (
	background = color.RGBA{R: 32, G: 32, B: 36, A: 255}
	outline    = color.RGBA{R: 20, G: 20, B: 20, A: 255}
)

// Rasterize draws every island into a new width x height image, one fill
// colour per island with dark face outlines.
func Rasterize(acc uvalign.Accessor, islands []uvalign.Island, width, height, padding int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	layout := NewLayout(acc, islandFaces(islands), width, height, padding)
	palette := Palette(len(islands))
	for i, isl := range islands {
		for _, f := range isl.Faces {
			xp, yp := layout.FacePolygon(acc, f)
			fillPolygon(dst, xp, yp, palette[i])
			strokePolygon(dst, xp, yp, 1, outline)
		}
	}
	return dst
}

func WritePNG(img image.Image, fileName string) error {
	file, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("could not create PNG file %s: %w", fileName, err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("could not encode PNG file %s: %w", fileName, err)
	}
	return file.Close()
}

func fillPolygon(dst draw.Image, xp, yp []float32, clr color.RGBA) {
	if len(xp) < 3 {
		return
	}
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(xp[0], yp[0])
	for i := 1; i < len(xp); i++ {
		z.LineTo(xp[i], yp[i])
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(clr), image.Point{})
}

// strokePolygon draws each closed-polygon edge as a thin quad.
func strokePolygon(dst draw.Image, xp, yp []float32, width float32, clr color.RGBA) {
	n := len(xp)
	if n < 2 {
		return
	}
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	half := float64(width) / 2
	for i := 0; i < n; i++ {
		x0, y0 := float64(xp[i]), float64(yp[i])
		x1, y1 := float64(xp[(i+1)%n]), float64(yp[(i+1)%n])
		dx, dy := x1-x0, y1-y0
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		nx, ny := -dy/length*half, dx/length*half
		z.MoveTo(float32(x0+nx), float32(y0+ny))
		z.LineTo(float32(x1+nx), float32(y1+ny))
		z.LineTo(float32(x1-nx), float32(y1-ny))
		z.LineTo(float32(x0-nx), float32(y0-ny))
		z.ClosePath()
	}
	z.Draw(dst, b, image.NewUniform(clr), image.Point{})
}

func islandFaces(islands []uvalign.Island) []int {
	var faces []int
	for _, isl := range islands {
		faces = append(faces, isl.Faces...)
	}
	return faces
}
