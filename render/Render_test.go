package render

import (
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/rlcourse/environment/classiccontrol/cartpole"
)

func TestFrameDimensions(t *testing.T) {
	r := NewRenderer(cartpole.PositionThreshold)
	im := r.Frame(cartpole.State{})

	if w, h := im.Bounds().Dx(), im.Bounds().Dy(); w != ScreenWidth ||
		h != ScreenHeight {
		t.Errorf("want frame %vx%v, got %vx%v", ScreenWidth, ScreenHeight,
			w, h)
	}

	rgb := r.RGB(cartpole.State{})
	if len(rgb) != ScreenWidth*ScreenHeight*3 {
		t.Errorf("want %v bytes, got %v", ScreenWidth*ScreenHeight*3,
			len(rgb))
	}
}

func TestFrameDoesNotModifyState(t *testing.T) {
	r := NewRenderer(cartpole.PositionThreshold)
	s := cartpole.State{X: 1.2, XDot: -0.3, Theta: 0.2, ThetaDot: 1.1}
	before := s

	r.Frame(s)
	if s != before {
		t.Errorf("state changed from %v to %v", before, s)
	}
}

func TestFrameDrawsCart(t *testing.T) {
	r := NewRenderer(cartpole.PositionThreshold)
	centred := r.Frame(cartpole.State{})
	moved := r.Frame(cartpole.State{X: 2.0})

	// The track row is black everywhere
	trackRow := ScreenHeight - int(cartY)
	if c := centred.RGBAAt(5, trackRow); c.R > 100 || c.G > 100 ||
		c.B > 100 {
		t.Errorf("want dark track pixel, got %v", c)
	}

	// The tire covers the centre of the frame only when the cart is
	// centred
	axleRow := ScreenHeight - int(cartY+tireDiam/2) + int(tireDiam/4)
	centre := ScreenWidth/2 + int(tireDiam/4)
	if c := centred.RGBAAt(centre, axleRow); c.R == 255 && c.G == 255 &&
		c.B == 255 {
		t.Errorf("want tire at centre of frame")
	}
	if c := moved.RGBAAt(centre, axleRow); c.R != 255 || c.G != 255 ||
		c.B != 255 {
		t.Errorf("want background at centre of frame, got %v", c)
	}
}

func TestSavePNG(t *testing.T) {
	r := NewRenderer(cartpole.PositionThreshold)
	path := filepath.Join(t.TempDir(), "frame.png")

	if err := r.SavePNG(cartpole.State{Theta: 0.1}, path); err != nil {
		t.Fatalf("could not save frame: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("frame not written: %v", err)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRendererSize(120, 80, cartpole.PositionThreshold)
	path := filepath.Join(t.TempDir(), "episode.gif")
	rec := NewRecorder(r, path, 2, 3)

	if err := rec.Save(); err != ErrNoFrames {
		t.Errorf("want %v, got %v", ErrNoFrames, err)
	}

	e := cartpole.New(cartpole.DefaultConfig(), 1)
	e.Reset()
	rec.Track(e.LastTimeStep())
	for i := 0; i < 9; i++ {
		e.Step(i % 2)
		rec.Track(e.LastTimeStep())
	}

	if rec.Frames() != 3 {
		t.Fatalf("want 3 frames, got %v", rec.Frames())
	}
	if err := rec.Save(); err != nil {
		t.Fatalf("could not save animation: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("could not open animation: %v", err)
	}
	defer file.Close()

	anim, err := gif.DecodeAll(file)
	if err != nil {
		t.Fatalf("could not decode animation: %v", err)
	}
	if len(anim.Image) != 3 {
		t.Errorf("want 3 frames in animation, got %v", len(anim.Image))
	}
}
