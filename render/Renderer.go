// Package render draws Cartpole states into offscreen images
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"github.com/samuelfneumann/rlcourse/environment/classiccontrol/cartpole"
	"github.com/samuelfneumann/rlcourse/utils/floatutils"
)

const (
	ScreenWidth  int = 600
	ScreenHeight int = 400

	cartY     float64 = 100 // height of the track from the bottom
	poleWidth float64 = 10.0
	tireDiam  float64 = 64.0
	spokes    int     = 4
)

// Renderer renders Cartpole states. A Renderer never modifies the
// states it draws.
type Renderer struct {
	width, height int
	scale         float64 // pixels per meter
	poleLength    float64

	background color.Color
	track      color.Color
	pole       color.Color
	tire       color.Color
	hub        color.Color
}

// NewRenderer returns a new Renderer of a world spanning
// (-positionThreshold, positionThreshold) horizontally
func NewRenderer(positionThreshold float64) *Renderer {
	return NewRendererSize(ScreenWidth, ScreenHeight, positionThreshold)
}

// NewRendererSize returns a new Renderer which draws frames of the
// given width and height
func NewRendererSize(width, height int, positionThreshold float64) *Renderer {
	if width <= 0 || height <= 0 {
		panic("newRendererSize: frame dimensions must be positive")
	}
	if positionThreshold <= 0 {
		panic("newRendererSize: position threshold must be positive")
	}
	scale := float64(width) / (positionThreshold * 2)

	return &Renderer{
		width:      width,
		height:     height,
		scale:      scale,
		poleLength: scale * 1.0,
		background: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		track:      color.RGBA{R: 0, G: 0, B: 0, A: 255},
		pole:       color.RGBA{R: 102, G: 153, B: 204, A: 255},
		tire:       color.RGBA{R: 40, G: 40, B: 40, A: 255},
		hub:        color.RGBA{R: 200, G: 200, B: 200, A: 255},
	}
}

// Bounds returns the bounds of frames drawn by the Renderer
func (r *Renderer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.width, r.height)
}

// Frame draws s and returns the resulting image
func (r *Renderer) Frame(s cartpole.State) *image.RGBA {
	im := image.NewRGBA(r.Bounds())
	dc := gg.NewContextForRGBA(im)

	dc.SetColor(r.background)
	dc.Clear()

	// Track, drawn in world coordinates with y pointing up
	trackY := r.pixelY(cartY)
	dc.SetColor(r.track)
	dc.SetLineWidth(2.0)
	dc.DrawLine(0, trackY, float64(r.width), trackY)
	dc.Stroke()

	// Carts past the edge of the track are drawn on its edge
	cartX := floatutils.Clip(s.X*r.scale+float64(r.width)/2.0, 0,
		float64(r.width))
	axleY := r.pixelY(cartY + tireDiam/2.0)

	// Tire, rotated by the distance it has rolled along the track
	revolutions := (r.scale * s.X) / (tireDiam * math.Pi)
	angle := revolutions * 2 * math.Pi

	dc.Push()
	dc.Translate(cartX, axleY)
	dc.Rotate(angle)
	dc.SetColor(r.tire)
	dc.DrawCircle(0, 0, tireDiam/2.0)
	dc.Fill()
	dc.SetColor(r.hub)
	dc.SetLineWidth(3.0)
	for i := 0; i < spokes; i++ {
		a := float64(i) * math.Pi / float64(spokes)
		x, y := math.Cos(a)*tireDiam*0.4, math.Sin(a)*tireDiam*0.4
		dc.DrawLine(-x, -y, x, y)
	}
	dc.Stroke()
	dc.Pop()

	// Pole, pivoting at the axle. Positive angles lean the pole right.
	dc.Push()
	dc.Translate(cartX, axleY)
	dc.Rotate(s.Theta)
	dc.SetColor(r.pole)
	dc.DrawRectangle(-poleWidth/2, -(r.poleLength - poleWidth/2),
		poleWidth, r.poleLength)
	dc.Fill()
	dc.Pop()

	dc.SetColor(r.hub)
	dc.DrawCircle(cartX, axleY, poleWidth/2)
	dc.Fill()

	return im
}

// RGB draws s and returns the frame as a height x width x 3 buffer of
// row-major RGB bytes
func (r *Renderer) RGB(s cartpole.State) []byte {
	return RGB(r.Frame(s))
}

// SavePNG draws s and saves the frame as a PNG image at path
func (r *Renderer) SavePNG(s cartpole.State, path string) error {
	if err := gg.SavePNG(path, r.Frame(s)); err != nil {
		return errors.Wrapf(err, "could not save frame to %v", path)
	}
	return nil
}

// pixelY converts a height above the bottom of the frame to a row
func (r *Renderer) pixelY(y float64) float64 {
	return float64(r.height) - y
}

// RGB returns the pixels of im as a height x width x 3 buffer of
// row-major RGB bytes, dropping the alpha channel
func RGB(im *image.RGBA) []byte {
	b := im.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, 0, w*h*3)

	for y := 0; y < h; y++ {
		row := im.Pix[y*im.Stride : y*im.Stride+w*4]
		for x := 0; x < w; x++ {
			out = append(out, row[x*4], row[x*4+1], row[x*4+2])
		}
	}
	return out
}
