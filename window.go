package gc9a01

import "image"

// orientation maps logical rectangles to frame memory addresses.
type orientation struct {
	rot            Rotation
	w, h           int // Visible area at Rotate0
	colOff, rowOff int // Offsets at Rotate0
}

// window returns the inclusive column and row address ranges for r.
//
// MADCTL already makes the controller scan in logical order, so only the
// visible-area offsets remain.
func (o orientation) window(r image.Rectangle) (x0, y0, x1, y1 uint16) {
	colOff, rowOff := o.origin()
	return uint16(r.Min.X + colOff), uint16(r.Min.Y + rowOff),
		uint16(r.Max.X - 1 + colOff), uint16(r.Max.Y - 1 + rowOff)
}

// origin returns the frame memory address of logical (0, 0).
//
// The offsets follow the axes when the rotation exchanges rows and columns.
// On an axis the rotation scans mirrored relative to Rotate0, the visible
// area starts ramSize - extent - offset from the scan origin.
func (o orientation) origin() (col, row int) {
	mirCol := ramSize - o.w - o.colOff
	mirRow := ramSize - o.h - o.rowOff
	switch o.rot {
	case Rotate90: // MV: logical x along rows, logical y mirrored glass x
		return o.rowOff, mirCol
	case Rotate180: // MY: both axes mirrored
		return mirCol, mirRow
	case Rotate270: // MV|MX|MY: logical x mirrored glass y
		return mirRow, o.colOff
	}
	return o.colOff, o.rowOff
}

// SetWindow restricts subsequent pixel writes to r and arms the controller
// for a memory write. The next call on the device must be WritePixels.
//
// r must be non-empty and lie within Bounds.
func (d *Dev) SetWindow(r image.Rectangle) error {
	if d.state != Ready {
		return ErrNotReady
	}
	if r.Empty() || !r.In(d.rect) {
		return ErrOutOfBounds
	}
	d.armed = false

	x0, y0, x1, y1 := d.orient.window(r)
	if err := d.b.command(cmdCASET, byte(x0>>8), byte(x0), byte(x1>>8), byte(x1)); err != nil {
		return err
	}
	if err := d.b.command(cmdRASET, byte(y0>>8), byte(y0), byte(y1>>8), byte(y1)); err != nil {
		return err
	}
	if err := d.b.command(cmdRAMWR); err != nil {
		return err
	}
	d.window = r
	d.armed = true
	return nil
}

// WritePixels streams px, row-major, into the window armed by SetWindow.
// len(px) must equal the window area exactly.
func (d *Dev) WritePixels(px []uint16) error {
	if d.state != Ready {
		return ErrNotReady
	}
	if !d.armed {
		return ErrNoWindow
	}
	if len(px) != d.window.Dx()*d.window.Dy() {
		return ErrBufferLength
	}
	d.armed = false
	return d.b.pixels(px)
}

// writeRect sets the window to r and sends px into it.
func (d *Dev) writeRect(r image.Rectangle, px []uint16) error {
	if err := d.SetWindow(r); err != nil {
		return err
	}
	return d.WritePixels(px)
}
