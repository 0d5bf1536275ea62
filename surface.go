package gc9a01

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"sort"

	"github.com/flavioheleno/gc9a01/rgb565"
	"periph.io/x/conn/v3/display"
)

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return rgb565.Model
}

// Bounds returns the logical bounds of the display after rotation.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Buffered reports whether the device renders into an in-memory frame.
func (d *Dev) Buffered() bool {
	return d.fb != nil
}

// Framebuffer returns the in-memory frame in buffered mode, nil otherwise.
// Changes to it are sent by the next Flush.
func (d *Dev) Framebuffer() *rgb565.Image {
	return d.fb
}

// FillRect fills r with c. An empty r anchored within Bounds, edges
// included, draws nothing; an empty r elsewhere is out of bounds.
func (d *Dev) FillRect(r image.Rectangle, c color.Color) error {
	if d.state != Ready {
		return ErrNotReady
	}
	if r.Empty() {
		if !anchored(r.Min, d.rect) {
			return ErrOutOfBounds
		}
		return nil
	}
	if !r.In(d.rect) {
		return ErrOutOfBounds
	}
	return d.fill(r, rgb565.Convert(c))
}

// Clear fills the whole display with c.
func (d *Dev) Clear(c color.Color) error {
	if d.state != Ready {
		return ErrNotReady
	}
	return d.fill(d.rect, rgb565.Convert(c))
}

// DrawLine draws a one pixel wide line from p0 to p1, both inclusive.
func (d *Dev) DrawLine(p0, p1 image.Point, c color.Color) error {
	if d.state != Ready {
		return ErrNotReady
	}
	if !p0.In(d.rect) || !p1.In(d.rect) {
		return ErrOutOfBounds
	}
	return d.fillAll(lineRuns(p0, p1), rgb565.Convert(c))
}

// DrawCircle draws the one pixel wide outline of a circle.
// The whole circle must fit on the display.
func (d *Dev) DrawCircle(center image.Point, radius int, c color.Color) error {
	if d.state != Ready {
		return ErrNotReady
	}
	if !d.circleFits(center, radius) {
		return ErrOutOfBounds
	}
	return d.fillAll(circleRuns(center, radius), rgb565.Convert(c))
}

// FillCircle draws a filled circle.
// The whole circle must fit on the display.
func (d *Dev) FillCircle(center image.Point, radius int, c color.Color) error {
	if d.state != Ready {
		return ErrNotReady
	}
	if !d.circleFits(center, radius) {
		return ErrOutOfBounds
	}
	return d.fillAll(discRows(center, radius), rgb565.Convert(c))
}

// Blit copies px, row-major RGB565, into r.
// len(px) must equal the area of r.
func (d *Dev) Blit(r image.Rectangle, px []uint16) error {
	if d.state != Ready {
		return ErrNotReady
	}
	if r.Empty() || !r.In(d.rect) {
		return ErrOutOfBounds
	}
	if len(px) != r.Dx()*r.Dy() {
		return ErrBufferLength
	}
	if d.fb != nil {
		d.fb.Blit(r, px)
		return nil
	}
	return d.writeRect(r, px)
}

// Flush pushes the in-memory frame to the display as one burst.
// In immediate mode there is nothing to push and Flush returns nil.
func (d *Dev) Flush() error {
	if d.state != Ready {
		return ErrNotReady
	}
	if d.fb == nil {
		return nil
	}
	return d.writeRect(d.rect, d.fb.Pix)
}

// Draw implements display.Drawer. dst is clipped to the display bounds.
//
// In buffered mode the frame is updated and sent on Flush; in immediate mode
// the clipped region is converted and sent right away.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.state != Ready {
		return ErrNotReady
	}
	dst = dst.Intersect(d.rect)
	if dst.Empty() {
		return nil
	}
	if d.fb != nil {
		draw.Draw(d.fb, dst, src, sp, draw.Src)
		return nil
	}
	img := rgb565.NewImage(dst)
	draw.Draw(img, dst, src, sp, draw.Src)
	return d.writeRect(dst, img.Pix)
}

// Write writes a full frame of big-endian RGB565 pixels to the display.
// The data must be exactly Dx * Dy * 2 bytes.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.state != Ready {
		return 0, ErrNotReady
	}
	n := d.rect.Dx() * d.rect.Dy()
	if len(pixels) != 2*n {
		return 0, ErrBufferLength
	}
	px := make([]uint16, n)
	for i := range px {
		px[i] = uint16(pixels[2*i])<<8 | uint16(pixels[2*i+1])
	}
	if d.fb != nil {
		copy(d.fb.Pix, px)
	}
	if err := d.writeRect(d.rect, px); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// fill paints r, already validated, with c.
func (d *Dev) fill(r image.Rectangle, c rgb565.Color) error {
	if d.fb != nil {
		d.fb.Fill(r, c)
		return nil
	}
	n := r.Dx() * r.Dy()
	if cap(d.scratch) < n {
		d.scratch = make([]uint16, n)
	}
	px := d.scratch[:n]
	for i := range px {
		px[i] = uint16(c)
	}
	return d.writeRect(r, px)
}

func (d *Dev) fillAll(rs []image.Rectangle, c rgb565.Color) error {
	for _, r := range rs {
		if err := d.fill(r, c); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dev) circleFits(center image.Point, radius int) bool {
	if radius < 0 {
		return false
	}
	box := image.Rect(center.X-radius, center.Y-radius, center.X+radius+1, center.Y+radius+1)
	return box.In(d.rect)
}

// lineRuns rasterizes a line with Bresenham's algorithm and merges the
// pixels into disjoint runs: horizontal for shallow lines, vertical for
// steep ones.
func lineRuns(p0, p1 image.Point) []image.Rectangle {
	dx := abs(p1.X - p0.X)
	dy := -abs(p1.Y - p0.Y)
	sx, sy := 1, 1
	if p0.X > p1.X {
		sx = -1
	}
	if p0.Y > p1.Y {
		sy = -1
	}
	steep := -dy > dx

	var runs []image.Rectangle
	var run image.Rectangle
	x, y := p0.X, p0.Y
	e := dx + dy
	for {
		px := image.Rect(x, y, x+1, y+1)
		switch {
		case run.Empty():
			run = px
		case !steep && y == run.Min.Y && (x == run.Min.X-1 || x == run.Max.X):
			run = run.Union(px)
		case steep && x == run.Min.X && (y == run.Min.Y-1 || y == run.Max.Y):
			run = run.Union(px)
		default:
			runs = append(runs, run)
			run = px
		}
		if x == p1.X && y == p1.Y {
			break
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
	return append(runs, run)
}

// circlePoints returns the outline of a circle from the midpoint algorithm,
// grouped by row offset (index radius+dy) and sorted without duplicates.
func circlePoints(radius int) [][]int {
	rows := make([][]int, 2*radius+1)
	plot := func(dx, dy int) {
		rows[radius+dy] = append(rows[radius+dy], dx)
	}
	x, y := radius, 0
	e := 1 - radius
	for x >= y {
		plot(x, y)
		plot(-x, y)
		plot(x, -y)
		plot(-x, -y)
		plot(y, x)
		plot(-y, x)
		plot(y, -x)
		plot(-y, -x)
		y++
		if e < 0 {
			e += 2*y + 1
		} else {
			x--
			e += 2*(y-x) + 1
		}
	}
	for i, row := range rows {
		sort.Ints(row)
		out := row[:0]
		for j, v := range row {
			if j == 0 || v != row[j-1] {
				out = append(out, v)
			}
		}
		rows[i] = out
	}
	return rows
}

// circleRuns returns the circle outline as disjoint horizontal runs.
func circleRuns(center image.Point, radius int) []image.Rectangle {
	var runs []image.Rectangle
	for i, row := range circlePoints(radius) {
		y := center.Y + i - radius
		for j := 0; j < len(row); {
			k := j
			for k+1 < len(row) && row[k+1] == row[k]+1 {
				k++
			}
			runs = append(runs, image.Rect(center.X+row[j], y, center.X+row[k]+1, y+1))
			j = k + 1
		}
	}
	return runs
}

// discRows returns a filled circle as one run per row, spanning the
// outline's extent on that row.
func discRows(center image.Point, radius int) []image.Rectangle {
	rows := circlePoints(radius)
	runs := make([]image.Rectangle, 0, len(rows))
	for i, row := range rows {
		y := center.Y + i - radius
		runs = append(runs, image.Rect(center.X+row[0], y, center.X+row[len(row)-1]+1, y+1))
	}
	return runs
}

// anchored reports whether p lies in b or on its closing edges.
func anchored(p image.Point, b image.Rectangle) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var _ display.Drawer = &Dev{}
var _ io.Writer = &Dev{}
