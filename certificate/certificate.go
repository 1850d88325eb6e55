// Package certificate renders completion certificates as PNG images.
package certificate

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Canvas dimensions, landscape orientation.
const (
	width  = 2000
	height = 1400
)

// Palette. Greens match the training program branding.
var (
	borderOuter = color.RGBA{R: 0, G: 100, B: 50, A: 255}
	borderInner = color.RGBA{R: 20, G: 140, B: 70, A: 255}
	headerColor = color.RGBA{R: 0, G: 120, B: 60, A: 255}
	accentColor = color.RGBA{R: 0, G: 150, B: 75, A: 255}
	bodyColor   = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	background  = color.RGBA{R: 252, G: 252, B: 252, A: 255}
)

// Details describes one completion to certify.
type Details struct {
	UserName      string
	ScenarioTitle string

	// ScorePercent is the overall score on the 0-100 scale.
	ScorePercent float64

	// CompletedAt defaults to now when zero.
	CompletedAt time.Time
}

// Renderer draws certificates. The zero value is not usable; construct
// with NewRenderer.
type Renderer struct {
	titleFace  font.Face
	headerFace font.Face
	bodyFace   font.Face
}

// NewRenderer creates a certificate renderer. fontPath names a TTF file
// for the certificate text; when empty or unreadable the renderer falls
// back to a built-in bitmap face so rendering always succeeds.
func NewRenderer(fontPath string) *Renderer {
	r := &Renderer{
		titleFace:  basicfont.Face7x13,
		headerFace: basicfont.Face7x13,
		bodyFace:   basicfont.Face7x13,
	}
	if fontPath == "" {
		return r
	}

	data, err := os.ReadFile(fontPath)
	if err != nil {
		return r
	}
	parsed, err := truetype.Parse(data)
	if err != nil {
		return r
	}

	face := func(size float64) font.Face {
		return truetype.NewFace(parsed, &truetype.Options{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingNone,
		})
	}
	r.titleFace = face(120)
	r.headerFace = face(90)
	r.bodyFace = face(56)
	return r
}

// Render draws the certificate and returns the encoded PNG.
func (r *Renderer) Render(d Details) ([]byte, error) {
	if d.UserName == "" {
		return nil, fmt.Errorf("user name is required")
	}
	if d.ScenarioTitle == "" {
		return nil, fmt.Errorf("scenario title is required")
	}
	when := d.CompletedAt
	if when.IsZero() {
		when = time.Now()
	}

	dc := gg.NewContext(width, height)

	// Background and double border.
	dc.SetColor(background)
	dc.DrawRectangle(0, 0, width, height)
	dc.Fill()

	dc.SetColor(borderOuter)
	dc.SetLineWidth(25)
	dc.DrawRectangle(12, 12, width-24, height-24)
	dc.Stroke()

	dc.SetColor(borderInner)
	dc.SetLineWidth(10)
	dc.DrawRectangle(60, 60, width-120, height-120)
	dc.Stroke()

	cx := float64(width) / 2

	dc.SetFontFace(r.titleFace)
	dc.SetColor(headerColor)
	dc.DrawStringAnchored("CERTIFICATE OF COMPLETION", cx, 180, 0.5, 0.5)

	dc.SetFontFace(r.headerFace)
	dc.DrawStringAnchored("CYBERSAGA TRAINING", cx, 320, 0.5, 0.5)

	// Divider.
	dc.SetColor(headerColor)
	dc.SetLineWidth(8)
	dc.DrawLine(150, 420, width-150, 420)
	dc.Stroke()

	dc.SetFontFace(r.bodyFace)
	dc.SetColor(bodyColor)
	dc.DrawStringAnchored("This certifies that", cx, 550, 0.5, 0.5)

	// Learner name, underlined.
	dc.SetFontFace(r.titleFace)
	dc.SetColor(color.Black)
	dc.DrawStringAnchored(d.UserName, cx, 680, 0.5, 0.5)
	nameWidth, _ := dc.MeasureString(d.UserName)
	dc.SetColor(accentColor)
	dc.SetLineWidth(3)
	dc.DrawLine(cx-nameWidth/2-50, 760, cx+nameWidth/2+50, 760)
	dc.Stroke()

	dc.SetFontFace(r.bodyFace)
	dc.SetColor(bodyColor)
	dc.DrawStringAnchored("has successfully completed the cybersecurity scenario:", cx, 830, 0.5, 0.5)

	// Scenario title, word-wrapped when it would overflow the borders.
	dc.SetFontFace(r.headerFace)
	dc.SetColor(headerColor)
	lines := wrapTitle(dc, fmt.Sprintf("%q", d.ScenarioTitle), width-400)
	titleY := 950.0
	lineHeight := 130.0
	if len(lines) > 1 {
		titleY = 920
	}
	for i, line := range lines {
		dc.DrawStringAnchored(line, cx, titleY+float64(i)*lineHeight, 0.5, 0.5)
	}

	scoreY := 1080.0
	if len(lines) > 1 {
		scoreY = 920 + float64(len(lines))*lineHeight + 50
	}

	dc.SetFontFace(r.bodyFace)
	dc.SetColor(color.Black)
	dc.DrawStringAnchored(fmt.Sprintf("with a score of %.0f%%", d.ScorePercent), cx, scoreY, 0.5, 0.5)

	dateY := scoreY + 130
	dc.DrawStringAnchored(fmt.Sprintf("Date: %s", when.Format("January 2, 2006")), cx, dateY, 0.5, 0.5)

	// Program signature.
	signY := dateY + 130
	sig := "CyberSaga Training Program"
	dc.SetColor(headerColor)
	dc.DrawStringAnchored(sig, cx, signY, 0.5, 0.5)
	sigWidth, _ := dc.MeasureString(sig)
	dc.SetColor(accentColor)
	dc.DrawLine(cx-sigWidth/2, signY+50, cx+sigWidth/2, signY+50)
	dc.Stroke()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode certificate: %w", err)
	}
	return buf.Bytes(), nil
}

// wrapTitle splits text into lines that fit maxWidth with the current
// font face.
func wrapTitle(dc *gg.Context, text string, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if w, _ := dc.MeasureString(candidate); w > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	return append(lines, current)
}
