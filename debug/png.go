package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/tabby/model"
)

// Overlay colours
var (
	ColorFragment = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	ColorBlock    = color.RGBA{G: 190, B: 190, A: 255}
	ColorLine     = color.RGBA{B: 230, A: 255}
	ColorRegion   = color.RGBA{G: 160, A: 255}
	ColorBox      = color.RGBA{R: 220, A: 255}
	ColorCaption  = color.RGBA{R: 220, B: 220, A: 255}
)

// DefaultScale renders one PDF point as 1.5 pixels
const DefaultScale = 1.5

// PNGSink writes one overlay image per page into a directory
type PNGSink struct {
	dir    string
	prefix string
	scale  float64

	once     sync.Once
	mkdirErr error
}

// NewPNGSink creates a sink writing <prefix>-page-NNN.png files into dir.
// The directory is created on first use.
func NewPNGSink(dir, prefix string) *PNGSink {
	return &PNGSink{dir: dir, prefix: prefix, scale: DefaultScale}
}

// Path returns the file written for a page
func (s *PNGSink) Path(page int) string {
	name := fmt.Sprintf("page-%03d.png", page)
	if s.prefix != "" {
		name = s.prefix + "-" + name
	}
	return filepath.Join(s.dir, name)
}

// Page renders the page overlay and writes it
func (s *PNGSink) Page(page *model.Page, boxes []model.TableBox, blocks []model.TextBlock) error {
	s.once.Do(func() {
		s.mkdirErr = os.MkdirAll(s.dir, 0o755)
	})
	if s.mkdirErr != nil {
		return fmt.Errorf("debug dir: %w", s.mkdirErr)
	}

	img := Render(page, boxes, blocks, s.scale)
	path := s.Path(page.Number)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// Render draws the fragments, blocks and table boxes of a page. Boxes are
// labelled T1, T2... followed by their caption label.
func Render(page *model.Page, boxes []model.TableBox, blocks []model.TextBlock, scale float64) *image.RGBA {
	area := page.BBox()
	if !area.IsValid() {
		area = model.NewBBox(0, 0, 1, 1)
	}
	if scale <= 0 {
		scale = DefaultScale
	}

	w := int(math.Ceil(area.Width * scale))
	h := int(math.Ceil(area.Height * scale))
	c := canvas{
		img:   image.NewRGBA(image.Rect(0, 0, w+1, h+1)),
		area:  area,
		scale: scale,
	}
	draw.Draw(c.img, c.img.Bounds(), image.White, image.Point{}, draw.Src)

	for _, f := range page.Fragments {
		c.rect(f.BBox, ColorFragment)
	}
	for _, b := range blocks {
		c.rect(b.BBox, ColorBlock)
	}
	for i, box := range boxes {
		for _, r := range box.Regions {
			for _, l := range r.Lines {
				c.rect(l.BBox, ColorLine)
			}
			c.rect(r.BBox, ColorRegion)
		}
		c.rect(box.BBox, ColorBox)

		label := fmt.Sprintf("T%d", i+1)
		if box.HasCaption() && box.Caption.Index < len(blocks) {
			c.rect(blocks[box.Caption.Index].BBox, ColorCaption)
			label += " " + box.Caption.Label
		}
		c.label(box.BBox, label, ColorBox)
	}
	return c.img
}

type canvas struct {
	img   *image.RGBA
	area  model.BBox
	scale float64
}

func (c canvas) point(x, y float64) (int, int) {
	return int((x - c.area.Left()) * c.scale), int((c.area.Top() - y) * c.scale)
}

func (c canvas) rect(b model.BBox, col color.Color) {
	if !b.IsValid() {
		return
	}
	x0, y0 := c.point(b.Left(), b.Top())
	x1, y1 := c.point(b.Right(), b.Bottom())
	for x := x0; x <= x1; x++ {
		c.img.Set(x, y0, col)
		c.img.Set(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		c.img.Set(x0, y, col)
		c.img.Set(x1, y, col)
	}
}

func (c canvas) label(b model.BBox, text string, col color.Color) {
	face := basicfont.Face7x13
	x, y := c.point(b.Left(), b.Top())
	baseline := y - 3
	if baseline < face.Ascent {
		baseline = y + face.Height
	}
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x+2, baseline),
	}
	d.DrawString(text)
}
