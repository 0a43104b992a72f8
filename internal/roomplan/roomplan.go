// Package roomplan renders a printable top-down plan of the current room
// (old-map style): fixtures, the puzzle location, and once revealed, the key.
package roomplan

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"escaperoom/internal/catalog"
	"escaperoom/internal/game"
	"escaperoom/internal/level"

	"github.com/jung-kurt/gofpdf/v2"
)

const (
	pageW     = 595
	pageH     = 842
	margin    = 40
	planInset = 40
	planTop   = margin + 110
	planSize  = pageW - 2*(margin+planInset)
	objSize   = 22.0
	fontSize  = 8
	titleSize = 16
	labelSize = 7
)

var ErrNoCatalog = errors.New("roomplan: no catalog")

// Generate returns PDF bytes for the plan of the room described by setup,
// drawn as it looks in st. Roles are only marked while the game is in
// progress; the key is marked once revealed and until collected.
func Generate(cat *catalog.Catalog, setup level.Setup, st game.State) ([]byte, error) {
	if cat == nil {
		return nil, ErrNoCatalog
	}
	playing := st.Phase == game.PhasePlaying

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Parchment background
	pdf.SetFillColor(245, 235, 210)
	pdf.Rect(0, 0, pageW, pageH, "F")
	drawWavyBorder(pdf)

	pdf.SetDrawColor(80, 50, 30)
	pdf.SetTextColor(80, 50, 30)
	pdf.SetLineWidth(1)

	title := "Room Plan"
	subtitle := fmt.Sprintf("Level %d", setup.Level)
	if l, ok := cat.Level(setup.Level); ok && l.Name != "" {
		subtitle += ": " + l.Name
	}
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetXY(pageW-margin-200, margin+2)
	pdf.CellFormat(200, 14, title, "", 0, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", fontSize)
	pdf.SetXY(pageW-margin-200, margin+18)
	pdf.CellFormat(200, 10, subtitle, "", 0, "R", false, 0, "")

	drawCompassRose(pdf, margin+55, margin+50)

	// Walls
	pdf.SetDrawColor(40, 25, 15)
	pdf.SetLineWidth(3)
	pdf.Rect(margin+planInset, planTop, planSize, planSize, "D")
	pdf.SetLineWidth(1)

	for _, o := range cat.Objects {
		x, y := toPage(o.Position)
		role := level.RoleNone
		if playing {
			role = setup.RoleOf(o.ID)
		}
		drawObject(pdf, x, y, role == level.RoleQuestions)
		drawLabel(pdf, x, y+objSize/2+2, o.Name)
		if role == level.RoleQuestions && !st.AllQuestionsCorrect {
			pdf.SetFont("Helvetica", "I", labelSize)
			pdf.SetXY(x-objSize, y+objSize/2+10)
			pdf.CellFormat(2*objSize, 8, "Puzzle here", "", 0, "C", false, 0, "")
		}
	}

	if playing && st.KeyRevealed && !st.KeyCollected {
		x, y := toPage(setup.KeyPosition)
		drawKey(pdf, x, y)
	}

	sx, sy := toPage(catalog.SwitchPosition)
	drawSwitch(pdf, sx, sy, st.SwitchActivated)
	drawLabel(pdf, sx-objSize, sy+objSize/2+2, "Switch")

	dx, dy := toPage(catalog.DoorPosition)
	drawDoor(pdf, dx, dy, st.DoorUnlocked)
	doorLabel := "Door (locked)"
	if st.DoorUnlocked {
		doorLabel = "Door (open)"
	}
	drawLabel(pdf, dx, dy+10, doorLabel)

	drawStatus(pdf, st)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// toPage maps the floor coordinates (x, z) of p onto the plan square.
func toPage(p catalog.Vec3) (float64, float64) {
	span := 2 * catalog.RoomHalfWidth
	x := clamp((p[0]+catalog.RoomHalfWidth)/span, 0, 1)
	z := clamp((p[2]+catalog.RoomHalfWidth)/span, 0, 1)
	return margin + planInset + x*planSize, planTop + z*planSize
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func drawObject(pdf *gofpdf.Fpdf, x, y float64, holdsQuestions bool) {
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(1.2)
	pdf.SetFillColor(222, 200, 160)
	pdf.Rect(x-objSize/2, y-objSize/2, objSize, objSize, "FD")
	if holdsQuestions {
		pdf.SetDrawColor(180, 40, 40)
		pdf.SetLineWidth(2)
		pdf.Circle(x, y, objSize*0.8, "D")
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(180, 40, 40)
		pdf.SetXY(x-6, y-6)
		pdf.CellFormat(12, 12, "?", "", 0, "C", false, 0, "")
		pdf.SetTextColor(80, 50, 30)
	}
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(80, 50, 30)
}

func drawLabel(pdf *gofpdf.Fpdf, x, y float64, name string) {
	label := strings.ToUpper(name)
	if len(label) > 18 {
		label = label[:15] + "..."
	}
	pdf.SetFont("Helvetica", "B", labelSize)
	pdf.SetTextColor(40, 25, 15)
	pdf.SetXY(x-objSize*2, y)
	pdf.CellFormat(objSize*4, 8, label, "", 0, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", fontSize)
	pdf.SetTextColor(80, 50, 30)
}

// drawKey draws a gold key: ring, shaft, two teeth.
func drawKey(pdf *gofpdf.Fpdf, x, y float64) {
	pdf.SetDrawColor(160, 120, 20)
	pdf.SetFillColor(230, 190, 60)
	pdf.SetLineWidth(1.5)
	pdf.Circle(x-8, y, 4, "FD")
	pdf.Line(x-4, y, x+10, y)
	pdf.Line(x+6, y, x+6, y+4)
	pdf.Line(x+10, y, x+10, y+5)
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(80, 50, 30)
}

func drawSwitch(pdf *gofpdf.Fpdf, x, y float64, on bool) {
	pdf.SetDrawColor(0, 0, 0)
	if on {
		pdf.SetFillColor(60, 160, 60)
	} else {
		pdf.SetFillColor(180, 40, 40)
	}
	pdf.Rect(x-4, y-8, 8, 16, "FD")
	pdf.SetDrawColor(80, 50, 30)
}

func drawDoor(pdf *gofpdf.Fpdf, x, y float64, open bool) {
	const w = 60.0
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(4)
	if open {
		// Swung inward
		pdf.SetDashPattern([]float64{4, 3}, 0)
		pdf.Line(x-w/2, y, x-w/2, y-w)
		pdf.SetDashPattern([]float64{}, 0)
		pdf.SetFillColor(245, 235, 210)
	} else {
		pdf.SetFillColor(110, 70, 40)
	}
	pdf.Rect(x-w/2, y-3, w, 6, "FD")
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(80, 50, 30)
}

// drawStatus writes lives and the objective checklist below the plan.
func drawStatus(pdf *gofpdf.Fpdf, st game.State) {
	x := float64(margin + planInset)
	y := float64(planTop + planSize + 24)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(80, 50, 30)
	pdf.SetXY(x, y)
	switch st.Phase {
	case game.PhaseVictory:
		pdf.CellFormat(planSize, 12, "Escaped!", "", 0, "L", false, 0, "")
		return
	case game.PhaseStart:
		pdf.CellFormat(planSize, 12, "Not started", "", 0, "L", false, 0, "")
		return
	}
	pdf.CellFormat(planSize, 12, fmt.Sprintf("Lives: %d / %d", st.Lives, game.MaxLives), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", fontSize+1)
	for i, o := range game.Objectives(st) {
		mark := "[ ]"
		if o.Done {
			mark = "[x]"
		}
		pdf.SetXY(x, y+18+float64(i)*12)
		pdf.CellFormat(planSize, 10, mark+" "+o.Label, "", 0, "L", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", fontSize)
}

// drawWavyBorder draws an organic, tattered black border around the page.
func drawWavyBorder(pdf *gofpdf.Fpdf) {
	pts := wavyRectPoints(margin, margin, pageW-2*margin, pageH-2*margin, 12, 4)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(2)
	pdf.Polygon(pts, "D")
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(80, 50, 30)
}

// wavyRectPoints returns polygon points for a rectangle with sinusoidal
// wobble on each side, walked clockwise from the top-left corner.
func wavyRectPoints(x, y, w, h float64, steps int, amp float64) []gofpdf.PointType {
	pts := make([]gofpdf.PointType, 0, steps*4+1)
	edge := func(from int, fx, fy func(t float64, i int) float64) {
		for i := from; i <= steps; i++ {
			t := float64(i) / float64(steps)
			pts = append(pts, gofpdf.PointType{X: fx(t, i), Y: fy(t, i)})
		}
	}
	wob := func(i int, k float64, f func(float64) float64) float64 { return amp * f(float64(i)*k) }
	edge(0,
		func(t float64, i int) float64 { return x + t*w + wob(i, 0.7, math.Sin) },
		func(_ float64, i int) float64 { return y + wob(i, 0.5, math.Cos) })
	edge(1,
		func(_ float64, i int) float64 { return x + w + wob(i, 0.6, math.Sin) },
		func(t float64, i int) float64 { return y + t*h + wob(i, 0.4, math.Cos) })
	edge(1,
		func(t float64, i int) float64 { return x + w - t*w + wob(i, 0.8, math.Sin) },
		func(_ float64, i int) float64 { return y + h + wob(i, 0.3, math.Cos) })
	edge(1,
		func(_ float64, i int) float64 { return x + wob(i, 0.5, math.Sin) },
		func(t float64, i int) float64 { return y + h - t*h + wob(i, 0.6, math.Cos) })
	return pts
}

// drawCompassRose draws an eight-point compass rose. North is the back wall.
func drawCompassRose(pdf *gofpdf.Fpdf, cx, cy float64) {
	const rad = 22.0
	pdf.SetDrawColor(101, 67, 33)
	pdf.SetLineWidth(1)
	pdf.Circle(cx, cy, rad, "D")
	for i := 0; i < 8; i++ {
		angle := float64(i)*45.0*math.Pi/180 - math.Pi/2
		if i%2 == 0 {
			pdf.SetDrawColor(180, 40, 40)
			pdf.SetLineWidth(1.5)
		} else {
			pdf.SetDrawColor(180, 140, 60)
			pdf.SetLineWidth(1)
		}
		pdf.Line(cx, cy, cx+rad*math.Cos(angle), cy+rad*math.Sin(angle))
	}
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(80, 50, 30)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(80, 50, 30)
	for _, lab := range []struct {
		label  string
		dx, dy float64
	}{
		{"N", 0, -rad - 10},
		{"S", 0, rad + 10},
		{"E", rad + 8, 0},
		{"W", -rad - 8, 0},
	} {
		pdf.SetXY(cx+lab.dx-4, cy+lab.dy-3)
		pdf.CellFormat(8, 6, lab.label, "", 0, "C", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", fontSize)
}
