// Package video produces the looping background clip shown through the puzzle tiles.
//
// The clip is generated procedurally rather than decoded from a file, so the decoder
// has no asset dependency. Frames are rendered on a background goroutine and handed
// to the game loop through a push callback.
package video

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync/atomic"
	"time"
)

// LoopFrames is the number of frames before the clip repeats.
const LoopFrames = 240

// ErrInvalidFrameSize is returned for non-positive frame dimensions.
var ErrInvalidFrameSize = errors.New("video: invalid frame size")

// Decoder renders clip frames at a fixed rate while playing.
// Start, Stop and Reset are safe to call from any goroutine.
type Decoder struct {
	width    int
	height   int
	interval time.Duration

	playing atomic.Bool
	frame   atomic.Int64 // next frame index within the loop
}

// NewDecoder creates a stopped decoder.
//
// Parameters:
//   - width, height: Frame size in pixels
//   - fps: Frames produced per second while playing
//
// Returns:
//   - *Decoder: Decoder positioned at frame 0
//   - error: ErrInvalidFrameSize for non-positive dimensions or fps
func NewDecoder(width, height, fps int) (*Decoder, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidFrameSize, width, height)
	}
	if fps <= 0 {
		return nil, fmt.Errorf("video: invalid frame rate %d", fps)
	}
	return &Decoder{
		width:    width,
		height:   height,
		interval: time.Second / time.Duration(fps),
	}, nil
}

// Start resumes frame production.
func (d *Decoder) Start() { d.playing.Store(true) }

// Stop pauses frame production; the current position is kept.
func (d *Decoder) Stop() { d.playing.Store(false) }

// Reset rewinds the clip to its first frame.
func (d *Decoder) Reset() { d.frame.Store(0) }

// IsPlaying reports whether frames are being produced.
func (d *Decoder) IsPlaying() bool { return d.playing.Load() }

// Position returns the index of the next frame to be produced.
func (d *Decoder) Position() int64 { return d.frame.Load() }

// Run produces frames until ctx is cancelled.
//
// Each tick while playing renders the next frame, passes it to push and advances
// the loop position. A cancelled context is a normal shutdown and returns nil.
func (d *Decoder) Run(ctx context.Context, push func(*image.RGBA)) error {
	if push == nil {
		return errors.New("video: push callback cannot be nil")
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !d.playing.Load() {
				continue
			}
			n := d.frame.Load()
			push(d.Render(n))
			d.frame.CompareAndSwap(n, (n+1)%LoopFrames)
		}
	}
}

// Render draws frame n of the clip.
// Frames are a function of n alone, so n and n+LoopFrames are identical.
func (d *Decoder) Render(n int64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, d.width, d.height))
	phase := 2 * math.Pi * float64(n%LoopFrames) / LoopFrames

	w, h := float64(d.width), float64(d.height)
	for y := 0; y < d.height; y++ {
		fy := float64(y) / h
		for x := 0; x < d.width; x++ {
			fx := float64(x) / w
			v := math.Sin(fx*6+phase) + math.Sin(fy*5-phase) + math.Sin((fx+fy)*4+2*phase)
			img.SetRGBA(x, y, color.RGBA{
				R: channel(v, 0),
				G: channel(v, 2*math.Pi/3),
				B: channel(v, 4*math.Pi/3),
				A: 0xff,
			})
		}
	}
	return img
}

// channel maps the plasma value to one colour channel.
func channel(v, offset float64) uint8 {
	return uint8(127.5 + 127.5*math.Sin(v*math.Pi/3+offset))
}
