// Package gc9a01 controls a GC9A01 round TFT display via SPI.
//
// The GC9A01 is a 262K color controller driving a 240x240 round panel. This
// driver talks to it over 4-wire SPI in 16 bits per pixel (RGB565) mode.
//
// See the examples for how to use this package.
package gc9a01

import (
	"fmt"
	"image"
	"time"

	"github.com/flavioheleno/gc9a01/rgb565"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// DefaultHz is the SPI clock used when Opts.Hz is zero.
//
// The controller accepts write clocks well above this; exceeding its limit
// corrupts pixels silently rather than reporting an error.
const DefaultHz = 20 * physic.MegaHertz

// Opts is the configuration for the GC9A01 display.
type Opts struct {
	// Panel dimensions in pixels at Rotate0 (default: 240x240, both ≤240)
	W int
	H int

	// Orientation, fixed for the lifetime of the device
	Rotation     Rotation
	ColumnOffset int  // First visible column of frame memory at Rotate0
	RowOffset    int  // First visible row of frame memory at Rotate0
	RGB          bool // Panel color filter is RGB instead of the usual BGR

	// Buffered keeps a full frame in memory; drawing updates it and Flush
	// pushes it in one burst. Costs W*H*2 bytes.
	Buffered bool

	// Optional control lines
	CS  gpio.PinOut // Chip select (nil if driven by the SPI port)
	RST gpio.PinOut // Reset (nil to use a software reset)

	// Hz is the SPI clock (default: DefaultHz).
	Hz physic.Frequency

	// Delay blocks for the given duration (default: time.Sleep).
	Delay func(time.Duration)
}

// State is the controller lifecycle as seen by the driver.
type State uint8

// Possible states.
const (
	Uninitialized State = iota
	Resetting
	Initializing
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Resetting:
		return "Resetting"
	case Initializing:
		return "Initializing"
	case Ready:
		return "Ready"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Dev is the device handle for the GC9A01 display.
//
// Dev is not safe for concurrent use. It owns the SPI connection and the
// control lines exclusively.
type Dev struct {
	// Communication
	b     *bus
	rst   gpio.PinOut
	delay func(time.Duration)

	// Display geometry
	rect   image.Rectangle // Logical bounds after rotation
	orient orientation
	madctl byte

	// Addressing window armed by SetWindow
	window image.Rectangle
	armed  bool

	// Pixel buffers
	fb      *rgb565.Image // Full frame, buffered mode only
	scratch []uint16      // Solid fill materialization

	// State
	state State
}

// New creates a GC9A01 device connected via SPI without touching the
// controller. Call Reset and then Init before drawing.
//
// The SPI port is configured for opts.Hz, Mode0 (CPOL=0, CPHA=0), 8-bit
// transfers. The dc (Data/Command) GPIO pin must be provided.
//
// opts can be nil to use defaults (240x240, Rotate0, immediate mode).
func New(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	o := *opts
	if o.W == 0 {
		o.W = ramSize
	}
	if o.H == 0 {
		o.H = ramSize
	}
	if o.Hz == 0 {
		o.Hz = DefaultHz
	}
	if o.Delay == nil {
		o.Delay = time.Sleep
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if dc == nil || dc == gpio.INVALID {
		return nil, fmt.Errorf("%w: dc pin is required", ErrInvalidOpts)
	}

	c, err := p.Connect(o.Hz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("gc9a01: failed to connect SPI: %w", err)
	}
	if o.CS != nil {
		if err := o.CS.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("gc9a01: failed to release CS: %w", err)
		}
	}

	w, h := o.W, o.H
	if o.Rotation.swapsAxes() {
		w, h = h, w
	}
	d := &Dev{
		b:     newBus(c, dc, o.CS),
		rst:   o.RST,
		delay: o.Delay,
		rect:  image.Rect(0, 0, w, h),
		orient: orientation{
			rot:    o.Rotation,
			w:      o.W,
			h:      o.H,
			colOff: o.ColumnOffset,
			rowOff: o.RowOffset,
		},
		madctl: o.Rotation.madctl(!o.RGB),
	}
	if o.Buffered {
		d.fb = rgb565.NewImage(d.rect)
	}
	return d, nil
}

// NewSPI creates a GC9A01 device, resets it and sends the initialization
// sequence. The returned device is Ready.
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	d, err := New(p, dc, opts)
	if err != nil {
		return nil, err
	}
	if err := d.Reset(); err != nil {
		return nil, err
	}
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

func (o *Opts) validate() error {
	if o.W <= 0 || o.W > ramSize {
		return fmt.Errorf("%w: width must be between 1 and %d", ErrInvalidOpts, ramSize)
	}
	if o.H <= 0 || o.H > ramSize {
		return fmt.Errorf("%w: height must be between 1 and %d", ErrInvalidOpts, ramSize)
	}
	if o.ColumnOffset < 0 || o.ColumnOffset+o.W > ramSize {
		return fmt.Errorf("%w: column offset exceeds frame memory", ErrInvalidOpts)
	}
	if o.RowOffset < 0 || o.RowOffset+o.H > ramSize {
		return fmt.Errorf("%w: row offset exceeds frame memory", ErrInvalidOpts)
	}
	if o.Rotation > Rotate270 {
		return fmt.Errorf("%w: unknown rotation %d", ErrInvalidOpts, o.Rotation)
	}
	return nil
}

// Reset restarts the controller.
//
// With an RST pin the line is pulled low for resetPulse and released;
// otherwise a software reset is sent. Either way the controller is given
// bootWait before the next command. Reset is valid in any state and leaves
// the device in Resetting, ready for Init.
func (d *Dev) Reset() error {
	d.state = Resetting
	d.armed = false

	if d.rst == nil {
		if err := d.b.command(cmdSWRESET); err != nil {
			d.state = Uninitialized
			return err
		}
		d.delay(bootWait)
		return nil
	}

	if err := d.rst.Out(gpio.Low); err != nil {
		d.state = Uninitialized
		return &TransportError{Op: "reset", Err: fmt.Errorf("failed to pull RST low: %w", err)}
	}
	d.delay(resetPulse)
	if err := d.rst.Out(gpio.High); err != nil {
		d.state = Uninitialized
		return &TransportError{Op: "reset", Err: fmt.Errorf("failed to pull RST high: %w", err)}
	}
	d.delay(bootWait)
	return nil
}

// Init sends the initialization sequence. It must directly follow Reset.
//
// On failure the device stays in Initializing and reports the failing step
// as an *InitError. The sequence is not resumable: call Reset again.
func (d *Dev) Init() error {
	if d.state != Resetting {
		return ErrNotReset
	}
	d.state = Initializing
	for i, s := range initSequence(d.madctl) {
		if err := d.b.command(s.cmd, s.args...); err != nil {
			return &InitError{Step: i, Cmd: s.cmd, Err: err}
		}
		if s.delay > 0 {
			d.delay(s.delay)
		}
	}
	d.state = Ready
	return nil
}

// State returns the current controller state.
func (d *Dev) State() State {
	return d.state
}

// Invert inverts the display colors.
//
// GC9A01 panels need inversion on for correct colors, which Init enables;
// Invert(false) turns it off.
func (d *Dev) Invert(invert bool) error {
	if d.state != Ready {
		return ErrNotReady
	}
	d.armed = false
	mode := byte(cmdINVOFF)
	if invert {
		mode = cmdINVON
	}
	return d.b.command(mode)
}

// Halt turns the display off and puts the controller to sleep.
// After calling Halt, the device must go through Reset and Init again.
func (d *Dev) Halt() error {
	d.state = Uninitialized
	d.armed = false
	if err := d.b.command(cmdDISPOFF); err != nil {
		return err
	}
	return d.b.command(cmdSLPIN)
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	mode := "immediate"
	if d.fb != nil {
		mode = "buffered"
	}
	return fmt.Sprintf("gc9a01.Dev{%dx%d, %s, %s}", d.rect.Dx(), d.rect.Dy(), d.orient.rot, mode)
}
