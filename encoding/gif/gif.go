// Package gif records games as animated GIFs, one frame per position.
package gif

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/gorgonia/uttt"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

var regular *truetype.Font

const (
	dpi             = 144.0
	fontsize        = 12.0
	lineheight      = 1.2
	dummyLongString = `Game Number: 10000, Move 81`

	moveDelay = 50  // hundredths of a second
	endDelay  = 300 // hundredths of a second
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

// the bracket glyphs of the board edges are not in Go Mono
var glyphs = strings.NewReplacer("⎢", "|", "⎥", "|")

var globPalette = color.Palette{
	color.Gray{0},
	color.Gray{253},
}

// Encoder is a structure that encodes a game state according to the uttt.OutputEncoder interface
type Encoder struct {
	H, W int
	font.Drawer

	out *gif.GIF
	io.Writer
	face font.Face

	maxH, maxW  int // maxHeight and maxWidth
	padH, padW  int // padding so everything don't start at the topleft
	initialized bool
}

// NewGifEncoder creates an encoder whose frames are at most h by w pixels. The GIF is written to w on Flush.
func NewGifEncoder(w io.Writer, maxH, maxW int) *Encoder {
	return &Encoder{
		H:      -1,
		W:      -1,
		maxH:   maxH,
		maxW:   maxW,
		padH:   10,
		padW:   10,
		Writer: w,

		Drawer: font.Drawer{
			Src: image.Black,
		},
		out: &gif.GIF{LoopCount: -1},
	}
}

// Encode a game
func (enc *Encoder) Encode(ms uttt.MetaState) error {
	g := ms.State()
	repr := glyphs.Replace(strings.TrimRight(fmt.Sprintf("%v", &g), "\n"))
	text := strings.Split(repr, "\n")
	dy := int(math.Ceil(fontsize * lineheight * dpi / 72))

	if !enc.initialized {
		// the face and the frame size are set by the first frame
		enc.face = truetype.NewFace(regular, &truetype.Options{
			Size:    fontsize,
			DPI:     dpi,
			Hinting: font.HintingFull,
		})
		enc.Drawer.Face = enc.face

		// first calculate how long the max length will be
		maxW := maxInt(font.MeasureString(enc.Face, text[0]).Ceil(), font.MeasureString(enc.Face, dummyLongString).Ceil())
		w := maxW + 2*enc.padW
		h := (len(text)+3)*dy + 2*enc.padH // + 3 is for the 3 extra lines: game name, game number, and outcome

		w = minInt(w, enc.maxW)
		h = minInt(h, enc.maxH)

		if w == enc.maxW {
			enc.padW = 0
		}
		if h == enc.maxH {
			enc.padH = 0
		}

		enc.H = h
		enc.W = w
		enc.initialized = true
	}

	im := image.NewPaletted(image.Rect(0, 0, enc.W, enc.H), globPalette)
	draw.Draw(im, im.Bounds(), image.White, image.Point{}, draw.Src)
	enc.Dst = im

	y := dy + enc.padH
	line := func(s string) {
		enc.Dot = fixed.P(enc.padW, y)
		enc.DrawString(s)
		y += dy
	}
	for _, s := range text {
		line(s)
	}
	line(ms.Name())
	line(fmt.Sprintf("Game Number: %d, Move %d", ms.GameNumber(), g.MoveNumber()))

	delay := moveDelay
	if o := g.Outcome(); o.Decided() {
		delay = endDelay
		line(fmt.Sprintf("Outcome: %v", o))
	}
	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, delay)
	return nil
}

// Frames returns the number of frames encoded so far.
func (enc *Encoder) Frames() int { return len(enc.out.Image) }

// Flush writes the gif into the writer and starts a new one.
func (enc *Encoder) Flush() error {
	if len(enc.out.Image) == 0 {
		return errors.New("nothing to flush")
	}
	if err := gif.EncodeAll(enc.Writer, enc.out); err != nil {
		return errors.Wrap(err, "unable to write gif")
	}
	enc.out = &gif.GIF{LoopCount: -1}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
