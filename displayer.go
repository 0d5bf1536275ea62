package gc9a01

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Displayer adapts a Dev to drivers.Displayer so that the TinyGo drawing
// libraries (tinyfont, tinydraw) can render onto it.
//
// SetPixel cannot report errors; the first failure is kept and returned by
// Display. Pixels outside the display are dropped.
type Displayer struct {
	d   *Dev
	err error
}

// Displayer returns a drivers.Displayer view of the device.
func (d *Dev) Displayer() *Displayer {
	return &Displayer{d: d}
}

// Size implements drivers.Displayer.
func (p *Displayer) Size() (x, y int16) {
	return int16(p.d.rect.Dx()), int16(p.d.rect.Dy())
}

// SetPixel implements drivers.Displayer.
func (p *Displayer) SetPixel(x, y int16, c color.RGBA) {
	if p.err != nil {
		return
	}
	pt := image.Point{X: int(x), Y: int(y)}
	if !pt.In(p.d.rect) {
		return
	}
	p.err = p.d.FillRect(image.Rectangle{Min: pt, Max: pt.Add(image.Point{X: 1, Y: 1})}, c)
}

// Display implements drivers.Displayer. It returns the first SetPixel
// error, if any, and otherwise flushes the frame in buffered mode.
func (p *Displayer) Display() error {
	if err := p.err; err != nil {
		p.err = nil
		return err
	}
	return p.d.Flush()
}

// WriteText draws s with font, starting at the baseline point (x, y).
// Glyph pixels outside the display are clipped. In buffered mode the text
// appears on the next Flush.
func (d *Dev) WriteText(font tinyfont.Fonter, x, y int16, s string, c color.Color) error {
	if d.state != Ready {
		return ErrNotReady
	}
	p := d.Displayer()
	tinyfont.WriteLine(p, font, x, y, s, color.RGBAModel.Convert(c).(color.RGBA))
	return p.err
}

var _ drivers.Displayer = &Displayer{}
