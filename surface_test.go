package gc9a01

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/flavioheleno/gc9a01/rgb565"
)

func solid(n int, c rgb565.Color) []uint16 {
	px := make([]uint16, n)
	for i := range px {
		px[i] = uint16(c)
	}
	return px
}

func TestFillRectSequence(t *testing.T) {
	d, p := newReadyDev(t, nil)
	if err := d.Clear(rgb565.White); err != nil {
		t.Fatal(err)
	}
	p.ClearEvents()

	r := image.Rect(70, 70, 170, 170)
	if err := d.FillRect(r, rgb565.Blue); err != nil {
		t.Fatal(err)
	}
	if err := d.FillRect(r, rgb565.Red); err != nil {
		t.Fatal(err)
	}

	want := append(windowTransfers(70, 70, 169, 169, solid(100*100, rgb565.Blue)),
		windowTransfers(70, 70, 169, 169, solid(100*100, rgb565.Red))...)
	assertTransfers(t, p.Transfers(), want)

	img := p.Image()
	tests := []struct {
		x, y int
		want rgb565.Color
	}{
		{70, 70, rgb565.Red},
		{169, 169, rgb565.Red},
		{120, 120, rgb565.Red},
		{69, 70, rgb565.White},
		{170, 169, rgb565.White},
		{0, 0, rgb565.White},
		{239, 239, rgb565.White},
	}
	for _, tt := range tests {
		if got := img.RGB565At(tt.x, tt.y); got != tt.want {
			t.Errorf("(%d,%d) = %#04x, want %#04x", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestFillRectEmpty(t *testing.T) {
	d, p := newReadyDev(t, nil)
	if err := d.FillRect(image.Rect(10, 10, 10, 10), rgb565.Red); err != nil {
		t.Errorf("FillRect(empty) = %v, want nil", err)
	}
	if err := d.FillRect(image.Rect(240, 0, 240, 10), rgb565.Red); err != nil {
		t.Errorf("FillRect(empty on the edge) = %v, want nil", err)
	}
	if n := len(p.Events()); n != 0 {
		t.Errorf("%d events, want 0", n)
	}
}

func TestFillRectEmptyOutside(t *testing.T) {
	d, p := newReadyDev(t, nil)
	tests := []image.Rectangle{
		image.Rect(300, 300, 300, 400),
		image.Rect(-5, 10, -5, 20),
		image.Rect(10, 241, 20, 241),
	}
	for _, r := range tests {
		if err := d.FillRect(r, rgb565.Red); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("FillRect(%v) = %v, want ErrOutOfBounds", r, err)
		}
	}
	if n := len(p.Events()); n != 0 {
		t.Errorf("%d events, want 0", n)
	}
}

func TestClearBuffered(t *testing.T) {
	for _, c := range []rgb565.Color{rgb565.White, rgb565.Red, rgb565.FromRGB(12, 200, 99), rgb565.Black} {
		d, p := newReadyDev(t, &Opts{W: 240, H: 200, RowOffset: 40, Buffered: true})
		if err := d.FillRect(image.Rect(3, 3, 50, 50), rgb565.Blue); err != nil {
			t.Fatal(err)
		}
		if err := d.Clear(c); err != nil {
			t.Fatalf("Clear(%#04x) = %v", c, err)
		}
		fb := d.Framebuffer()
		if len(fb.Pix) != 240*200 {
			t.Fatalf("framebuffer has %d pixels, want %d", len(fb.Pix), 240*200)
		}
		for i, v := range fb.Pix {
			if rgb565.Color(v) != c {
				t.Fatalf("Clear(%#04x): pixel %d = %#04x", c, i, v)
			}
		}
		if n := len(p.Events()); n != 0 {
			t.Errorf("Clear() made %d events before Flush, want 0", n)
		}
	}
}

// scene draws a mix of every primitive.
func scene(t *testing.T, d *Dev) {
	t.Helper()
	b := d.Bounds()
	pattern := make([]uint16, 10*10)
	for i := range pattern {
		pattern[i] = uint16(i * 613)
	}
	steps := []struct {
		name string
		f    func() error
	}{
		{"clear", func() error { return d.Clear(rgb565.White) }},
		{"fill", func() error { return d.FillRect(image.Rect(10, 10, 120, 90), rgb565.Blue) }},
		{"overlapping fill", func() error { return d.FillRect(image.Rect(60, 40, 200, 160), rgb565.Red) }},
		{"shallow line", func() error { return d.DrawLine(image.Pt(0, 0), image.Pt(b.Max.X-1, 100), rgb565.Green) }},
		{"steep line", func() error { return d.DrawLine(image.Pt(200, 10), image.Pt(180, b.Max.Y-1), rgb565.Black) }},
		{"circle", func() error { return d.DrawCircle(image.Pt(100, 100), 90, rgb565.Blue) }},
		{"disc", func() error { return d.FillCircle(image.Pt(60, 180), 40, rgb565.Green) }},
		{"blit", func() error { return d.Blit(image.Rect(0, b.Max.Y-10, 10, b.Max.Y), pattern) }},
		{"draw", func() error {
			return d.Draw(image.Rect(b.Max.X-20, -5, b.Max.X+20, 20), image.NewUniform(color.Gray{Y: 0x80}), image.Point{})
		}},
		{"flush", d.Flush},
	}
	for _, s := range steps {
		if err := s.f(); err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
	}
}

func TestBufferedMatchesImmediate(t *testing.T) {
	for _, rot := range []Rotation{Rotate0, Rotate90, Rotate180, Rotate270} {
		t.Run(rot.String(), func(t *testing.T) {
			di, pi := newReadyDev(t, &Opts{Rotation: rot})
			db, pb := newReadyDev(t, &Opts{Rotation: rot, Buffered: true})
			scene(t, di)
			scene(t, db)

			a, b := pi.Image(), pb.Image()
			diff := 0
			for i := range a.Pix {
				if a.Pix[i] != b.Pix[i] {
					diff++
				}
			}
			if diff != 0 {
				t.Errorf("%d pixels differ between immediate and buffered rendering", diff)
			}
			if rgb565.Color(a.Pix[a.PixOffset(120, 1)]) == rgb565.Black {
				t.Error("scene did not draw anything")
			}
		})
	}
}

func TestBufferedDefersUntilFlush(t *testing.T) {
	d, p := newReadyDev(t, &Opts{Buffered: true})
	if !d.Buffered() || d.Framebuffer() == nil {
		t.Fatal("device should be buffered")
	}
	if err := d.Clear(rgb565.Red); err != nil {
		t.Fatal(err)
	}
	if err := d.FillRect(image.Rect(0, 0, 10, 10), rgb565.Blue); err != nil {
		t.Fatal(err)
	}
	if n := len(p.Events()); n != 0 {
		t.Fatalf("%d events before Flush, want 0", n)
	}

	fb := d.Framebuffer()
	if got := fb.RGB565At(5, 5); got != rgb565.Blue {
		t.Errorf("framebuffer (5,5) = %#04x, want Blue", got)
	}
	if got := fb.RGB565At(10, 10); got != rgb565.Red {
		t.Errorf("framebuffer (10,10) = %#04x, want Red", got)
	}

	if err := d.Flush(); err != nil {
		t.Fatal(err)
	}
	assertTransfers(t, p.Transfers(), windowTransfers(0, 0, 239, 239, fb.Pix))
}

func TestImmediateHasNoFramebuffer(t *testing.T) {
	d, p := newReadyDev(t, nil)
	if d.Buffered() || d.Framebuffer() != nil {
		t.Error("immediate device should have no framebuffer")
	}
	if err := d.Flush(); err != nil {
		t.Errorf("Flush() = %v, want nil", err)
	}
	if n := len(p.Events()); n != 0 {
		t.Errorf("Flush() made %d events, want 0", n)
	}
}

func TestRotatedPixelOnGlass(t *testing.T) {
	tests := []struct {
		rot  Rotation
		want image.Point
	}{
		{Rotate0, image.Pt(10, 0)},
		{Rotate90, image.Pt(239, 10)},
		{Rotate180, image.Pt(229, 239)},
		{Rotate270, image.Pt(0, 229)},
	}

	for _, tt := range tests {
		t.Run(tt.rot.String(), func(t *testing.T) {
			d, p := newReadyDev(t, &Opts{Rotation: tt.rot})
			if err := d.FillRect(image.Rect(10, 0, 11, 1), rgb565.White); err != nil {
				t.Fatal(err)
			}
			img := p.Image()
			lit := 0
			for _, v := range img.Pix {
				if v != 0 {
					lit++
				}
			}
			if lit != 1 {
				t.Errorf("%d pixels lit, want 1", lit)
			}
			if got := img.RGB565At(tt.want.X, tt.want.Y); got != rgb565.White {
				t.Errorf("glass %v = %#04x, want White", tt.want, got)
			}
		})
	}
}

func TestShapesOutOfBounds(t *testing.T) {
	d, p := newReadyDev(t, nil)
	tests := []struct {
		name string
		f    func() error
	}{
		{"line end outside", func() error { return d.DrawLine(image.Pt(0, 0), image.Pt(240, 0), rgb565.Red) }},
		{"line start outside", func() error { return d.DrawLine(image.Pt(-1, 5), image.Pt(10, 5), rgb565.Red) }},
		{"circle too big", func() error { return d.DrawCircle(image.Pt(5, 5), 10, rgb565.Red) }},
		{"circle touching edge", func() error { return d.DrawCircle(image.Pt(120, 120), 120, rgb565.Red) }},
		{"negative radius", func() error { return d.FillCircle(image.Pt(120, 120), -1, rgb565.Red) }},
		{"disc outside", func() error { return d.FillCircle(image.Pt(235, 120), 5, rgb565.Red) }},
		{"blit outside", func() error { return d.Blit(image.Rect(239, 0, 241, 1), make([]uint16, 2)) }},
		{"blit empty", func() error { return d.Blit(image.Rect(0, 0, 0, 1), nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.f(); !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("got %v, want ErrOutOfBounds", err)
			}
			if n := len(p.Events()); n != 0 {
				t.Errorf("%d events, want 0", n)
			}
		})
	}
}

func TestCircleOnEdgeFits(t *testing.T) {
	d, _ := newReadyDev(t, nil)
	if err := d.DrawCircle(image.Pt(120, 120), 119, rgb565.Red); err != nil {
		t.Errorf("DrawCircle(r=119) = %v", err)
	}
	if err := d.FillCircle(image.Pt(0, 0), 0, rgb565.Red); err != nil {
		t.Errorf("FillCircle(r=0) = %v", err)
	}
}

func TestBlitLength(t *testing.T) {
	d, p := newReadyDev(t, nil)
	if err := d.Blit(image.Rect(0, 0, 2, 2), make([]uint16, 3)); !errors.Is(err, ErrBufferLength) {
		t.Errorf("Blit() = %v, want ErrBufferLength", err)
	}
	if n := len(p.Events()); n != 0 {
		t.Errorf("%d events, want 0", n)
	}
}

func TestDrawClips(t *testing.T) {
	d, p := newReadyDev(t, nil)
	src := image.NewUniform(color.RGBA{R: 255, A: 255})
	if err := d.Draw(image.Rect(-10, -10, 5, 5), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	assertTransfers(t, p.Transfers(), windowTransfers(0, 0, 4, 4, solid(25, rgb565.Red)))

	p.ClearEvents()
	if err := d.Draw(image.Rect(300, 300, 310, 310), src, image.Point{}); err != nil {
		t.Errorf("Draw() off screen = %v, want nil", err)
	}
	if n := len(p.Events()); n != 0 {
		t.Errorf("%d events, want 0", n)
	}
}

func TestDrawSourcePoint(t *testing.T) {
	d, _ := newReadyDev(t, &Opts{Buffered: true})
	src := rgb565.NewImage(image.Rect(0, 0, 4, 4))
	src.SetRGB565(3, 3, rgb565.Green)
	if err := d.Draw(image.Rect(100, 100, 101, 101), src, image.Pt(3, 3)); err != nil {
		t.Fatal(err)
	}
	if got := d.Framebuffer().RGB565At(100, 100); got != rgb565.Green {
		t.Errorf("(100,100) = %#04x, want Green", got)
	}
}

func TestWrite(t *testing.T) {
	for _, buffered := range []bool{false, true} {
		d, p := newReadyDev(t, &Opts{Buffered: buffered})
		frame := make([]byte, 240*240*2)
		for i := range frame {
			frame[i] = byte(i)
		}
		if _, err := d.Write(frame[:10]); !errors.Is(err, ErrBufferLength) {
			t.Errorf("Write(short) = %v, want ErrBufferLength", err)
		}
		n, err := d.Write(frame)
		if err != nil || n != len(frame) {
			t.Fatalf("Write() = %d, %v", n, err)
		}
		tx := p.Transfers()
		if len(tx) != 6 || !bytes.Equal(tx[5].W, frame) {
			t.Errorf("buffered=%v: frame not sent verbatim", buffered)
		}
		if buffered {
			if got := d.Framebuffer().Pix[0]; got != 0x0001 {
				t.Errorf("framebuffer[0] = %#04x, want 0x0001", got)
			}
		}
	}
}

// coverage counts how many rectangles cover each pixel.
func coverage(rs []image.Rectangle) map[image.Point]int {
	m := map[image.Point]int{}
	for _, r := range rs {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				m[image.Pt(x, y)]++
			}
		}
	}
	return m
}

func assertDisjoint(t *testing.T, cov map[image.Point]int) {
	t.Helper()
	for pt, n := range cov {
		if n != 1 {
			t.Errorf("pixel %v covered %d times", pt, n)
		}
	}
}

func TestLineRuns(t *testing.T) {
	tests := []struct {
		name   string
		p0, p1 image.Point
	}{
		{"point", image.Pt(5, 5), image.Pt(5, 5)},
		{"horizontal", image.Pt(0, 3), image.Pt(9, 3)},
		{"horizontal reversed", image.Pt(9, 3), image.Pt(0, 3)},
		{"vertical", image.Pt(4, 0), image.Pt(4, 9)},
		{"diagonal", image.Pt(0, 0), image.Pt(7, 7)},
		{"shallow", image.Pt(0, 0), image.Pt(20, 3)},
		{"steep", image.Pt(2, 0), image.Pt(0, 17)},
		{"anti-diagonal", image.Pt(10, 0), image.Pt(0, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := lineRuns(tt.p0, tt.p1)
			cov := coverage(runs)
			assertDisjoint(t, cov)

			dx, dy := abs(tt.p1.X-tt.p0.X), abs(tt.p1.Y-tt.p0.Y)
			if want := max(dx, dy) + 1; len(cov) != want {
				t.Errorf("%d pixels, want %d", len(cov), want)
			}
			if cov[tt.p0] != 1 || cov[tt.p1] != 1 {
				t.Errorf("endpoints %v %v not drawn", tt.p0, tt.p1)
			}
			for _, r := range runs {
				if dy > dx && r.Dx() != 1 {
					t.Errorf("steep line has non-vertical run %v", r)
				}
				if dy <= dx && r.Dy() != 1 {
					t.Errorf("shallow line has non-horizontal run %v", r)
				}
			}
		})
	}
}

func TestLineRunsMerge(t *testing.T) {
	if runs := lineRuns(image.Pt(0, 3), image.Pt(9, 3)); len(runs) != 1 || runs[0] != image.Rect(0, 3, 10, 4) {
		t.Errorf("horizontal line runs = %v, want one run", runs)
	}
	if runs := lineRuns(image.Pt(4, 9), image.Pt(4, 0)); len(runs) != 1 || runs[0] != image.Rect(4, 0, 5, 10) {
		t.Errorf("vertical line runs = %v, want one run", runs)
	}
}

func TestCircleRuns(t *testing.T) {
	center := image.Pt(50, 50)
	for _, radius := range []int{0, 1, 2, 5, 17, 40} {
		cov := coverage(circleRuns(center, radius))
		assertDisjoint(t, cov)
		for _, pt := range []image.Point{
			center.Add(image.Pt(radius, 0)),
			center.Add(image.Pt(-radius, 0)),
			center.Add(image.Pt(0, radius)),
			center.Add(image.Pt(0, -radius)),
		} {
			if cov[pt] != 1 {
				t.Errorf("r=%d: extreme point %v not drawn", radius, pt)
			}
		}
		for pt := range cov {
			dist := math.Hypot(float64(pt.X-center.X), float64(pt.Y-center.Y))
			if math.Abs(dist-float64(radius)) > 1 {
				t.Errorf("r=%d: pixel %v at distance %.2f", radius, pt, dist)
			}
			mirror := image.Pt(2*center.X-pt.X, 2*center.Y-pt.Y)
			if cov[mirror] != 1 {
				t.Errorf("r=%d: outline not symmetric at %v", radius, pt)
			}
		}
	}
}

func TestDiscRows(t *testing.T) {
	center := image.Pt(50, 50)
	for _, radius := range []int{0, 3, 20} {
		runs := discRows(center, radius)
		if len(runs) != 2*radius+1 {
			t.Errorf("r=%d: %d rows, want %d", radius, len(runs), 2*radius+1)
		}
		cov := coverage(runs)
		assertDisjoint(t, cov)
		for pt := range coverage(circleRuns(center, radius)) {
			if cov[pt] != 1 {
				t.Errorf("r=%d: outline pixel %v not filled", radius, pt)
			}
		}
		if cov[center] != 1 {
			t.Errorf("r=%d: center not filled", radius)
		}
	}
}
