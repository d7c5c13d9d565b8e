package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
)

const (
	cellPixelsW = 8
	cellPixelsH = 16
	// maxFrames bounds memory for long recordings; older frames are dropped.
	maxFrames = 1800
)

var recordPalette = color.Palette{color.Black, color.White}

// Recorder captures canvas frames for an animated GIF.
type Recorder struct {
	frames []*image.Paletted
	delay  int // hundredths of a second
}

func NewRecorder(fps int) *Recorder {
	delay := 2
	if fps > 0 {
		delay = max(1, 100/fps)
	}
	return &Recorder{delay: delay}
}

func (r *Recorder) Len() int { return len(r.frames) }

// Capture rasterizes the braille dots of c into a paletted frame.
func (r *Recorder) Capture(c *Canvas) {
	imgW, imgH := c.Width*cellPixelsW, c.Height*cellPixelsH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), recordPalette)
	dotW, dotH := cellPixelsW/2, cellPixelsH/4

	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := c.Grid[row][col] - brailleBlank
			if pattern <= 0 {
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					x0, y0 := col*cellPixelsW+dx*dotW, row*cellPixelsH+dy*dotH
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(x0+px, y0+py, 1)
						}
					}
				}
			}
		}
	}

	if len(r.frames) == maxFrames {
		copy(r.frames, r.frames[1:])
		r.frames = r.frames[:maxFrames-1]
	}
	r.frames = append(r.frames, img)
}

// Save encodes the captured frames to path and clears the recorder.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := gif.EncodeAll(f, &anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	r.frames = r.frames[:0]
	return nil
}
