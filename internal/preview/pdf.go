package preview

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/smasonuk/uvalign"
)

// sheetSize is the side of the square PDF page in points.
const sheetSize = 595.0

// WritePDF draws the islands onto a single square PDF page.
func WritePDF(acc uvalign.Accessor, islands []uvalign.Island, w io.Writer) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: sheetSize, Ht: sheetSize},
	})
	pdf.SetTitle("UV layout", false)
	pdf.SetAuthor("uvalign "+uvalign.Version, false)
	pdf.AddPage()

	layout := NewLayout(acc, islandFaces(islands), int(sheetSize), int(sheetSize), 24)
	palette := Palette(len(islands))
	pdf.SetLineWidth(0.3)
	pdf.SetDrawColor(int(outline.R), int(outline.G), int(outline.B))
	for i, isl := range islands {
		c := palette[i]
		pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		for _, f := range isl.Faces {
			xp, yp := layout.FacePolygon(acc, f)
			pts := make([]gofpdf.PointType, len(xp))
			for j := range xp {
				pts[j] = gofpdf.PointType{X: float64(xp[j]), Y: float64(yp[j])}
			}
			pdf.Polygon(pts, "FD")
		}
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("could not write PDF: %w", err)
	}
	return nil
}
