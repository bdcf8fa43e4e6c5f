package render

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/rlcourse/environment/classiccontrol/cartpole"
	ts "github.com/samuelfneumann/rlcourse/timestep"
)

// FrameDelay is the delay between GIF frames in 100ths of a second,
// close to the 0.02 second simulation timestep
const FrameDelay int = 2

// ErrNoFrames is returned when saving a Recorder which has not
// recorded any frames
var ErrNoFrames = errors.New("render: no frames recorded")

// Recorder tracks the timesteps of an experiment, rendering every
// n-th observation as a frame of an animated GIF. Recorder satisfies
// the trackers.Tracker interface.
type Recorder struct {
	renderer  *Renderer
	filename  string
	every     int
	maxFrames int

	seen   int
	frames []*image.Paletted
	delays []int
}

// NewRecorder returns a new Recorder which renders every n-th tracked
// timestep using r, keeping at most maxFrames frames, and saves the
// animation to filename. If maxFrames <= 0, all frames are kept.
func NewRecorder(r *Renderer, filename string, every,
	maxFrames int) *Recorder {
	if every <= 0 {
		every = 1
	}
	return &Recorder{
		renderer:  r,
		filename:  filename,
		every:     every,
		maxFrames: maxFrames,
	}
}

// Track renders the observation of t if it is due to be recorded
func (rec *Recorder) Track(t ts.TimeStep) {
	defer func() { rec.seen++ }()

	if rec.seen%rec.every != 0 {
		return
	}
	if rec.maxFrames > 0 && len(rec.frames) >= rec.maxFrames {
		return
	}

	frame := rec.renderer.Frame(cartpole.StateFromVec(t.Observation))
	paletted := image.NewPaletted(frame.Bounds(), palette.Plan9)
	draw.Draw(paletted, paletted.Rect, frame, frame.Bounds().Min, draw.Src)

	rec.frames = append(rec.frames, paletted)
	rec.delays = append(rec.delays, FrameDelay*rec.every)
}

// Frames returns the number of frames recorded so far
func (rec *Recorder) Frames() int {
	return len(rec.frames)
}

// Save encodes all recorded frames as an animated GIF
func (rec *Recorder) Save() error {
	if len(rec.frames) == 0 {
		return ErrNoFrames
	}

	file, err := os.Create(rec.filename)
	if err != nil {
		return errors.Wrapf(err, "could not create animation file %v",
			rec.filename)
	}
	defer file.Close()

	anim := &gif.GIF{Image: rec.frames, Delay: rec.delays}
	if err := gif.EncodeAll(file, anim); err != nil {
		return errors.Wrapf(err, "could not encode animation %v",
			rec.filename)
	}
	return nil
}
