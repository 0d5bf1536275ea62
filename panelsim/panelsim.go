// Package panelsim emulates the write side of a GC9A01 controller.
//
// A Panel is an spi.Port, and a connected spi.Conn, plus the D/C, CS and RST
// lines. It decodes the command stream the way the controller does: address
// window, memory write with wrap-around, memory access control and the
// sleep/display/inversion flags. The glass is modeled as 240x240 with the
// source lines mounted mirrored, as on common GC9A01 modules, so MADCTL with
// only MX set shows frame memory unmirrored.
//
// Every line change and transfer is kept as an Event, so tests can assert
// the exact bus traffic as well as the resulting picture.
package panelsim

import (
	"fmt"
	"image"
	"sync"

	"github.com/flavioheleno/gc9a01/rgb565"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Size is the edge of the emulated square panel.
const Size = 240

const (
	opSWRESET = 0x01
	opSLPIN   = 0x10
	opSLPOUT  = 0x11
	opINVOFF  = 0x20
	opINVON   = 0x21
	opDISPOFF = 0x28
	opDISPON  = 0x29
	opCASET   = 0x2A
	opRASET   = 0x2B
	opRAMWR   = 0x2C
	opMADCTL  = 0x36
	opCOLMOD  = 0x3A
)

// Event is one observable bus action.
type Event struct {
	Line  string     // "dc", "cs" or "rst" for a line change, empty for a transfer
	Level gpio.Level // New level of Line
	DC    gpio.Level // D/C level during a transfer
	W     []byte     // Bytes of a transfer
}

func (e Event) String() string {
	if e.Line != "" {
		return fmt.Sprintf("%s=%s", e.Line, e.Level)
	}
	if e.DC == gpio.Low {
		return fmt.Sprintf("cmd % X", e.W)
	}
	return fmt.Sprintf("data[%d]", len(e.W))
}

// Panel is an emulated GC9A01 module.
type Panel struct {
	mu sync.Mutex

	dc, cs, rst *line
	useCS       bool

	// Bus
	hz     physic.Frequency
	maxTx  int
	fault  func(Event) error
	events []Event

	// Controller
	glass    *rgb565.Image
	cmd      byte
	args     []byte
	col, row [2]int
	cx, cy   int
	pending  []byte
	madctl   byte
	colmod   byte
	asleep   bool
	on       bool
	inverted bool
	resets   int
	cmds     []byte
}

// New returns a powered-up panel: asleep, display off, memory black.
func New() *Panel {
	p := &Panel{
		glass:  rgb565.NewImage(image.Rect(0, 0, Size, Size)),
		asleep: true,
		colmod: 0x06,
		col:    [2]int{0, Size - 1},
		row:    [2]int{0, Size - 1},
	}
	p.dc = &line{Pin: gpiotest.Pin{N: "panelsim.DC", Num: 0}, p: p, name: "dc"}
	p.cs = &line{Pin: gpiotest.Pin{N: "panelsim.CS", Num: 1, L: gpio.High}, p: p, name: "cs"}
	p.rst = &line{Pin: gpiotest.Pin{N: "panelsim.RST", Num: 2, L: gpio.High}, p: p, name: "rst"}
	return p
}

// DC returns the Data/Command line.
func (p *Panel) DC() gpio.PinOut {
	return p.dc
}

// CS returns the chip select line. Once it is used, transfers while it is
// high are ignored; otherwise the panel is always selected.
func (p *Panel) CS() gpio.PinOut {
	return p.cs
}

// RST returns the reset line. Pulling it low resets the controller.
func (p *Panel) RST() gpio.PinOut {
	return p.rst
}

// SetMaxTxSize limits the size of a single transfer, as Linux spidev does.
// Zero means unlimited.
func (p *Panel) SetMaxTxSize(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.maxTx = n
}

// SetFault installs f, called before every transfer. A non-nil error fails
// the transfer without the panel seeing it.
func (p *Panel) SetFault(f func(Event) error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fault = f
}

// Events returns a copy of the recorded events.
func (p *Panel) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

// Transfers returns the recorded transfers, without line changes.
func (p *Panel) Transfers() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Event
	for _, e := range p.events {
		if e.Line == "" {
			out = append(out, e)
		}
	}
	return out
}

// ClearEvents forgets recorded events and commands.
func (p *Panel) ClearEvents() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
	p.cmds = nil
}

// Commands returns the opcodes received since the last ClearEvents.
func (p *Panel) Commands() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.cmds...)
}

// Image returns a copy of what the glass shows.
func (p *Panel) Image() *rgb565.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	img := rgb565.NewImage(p.glass.Rect)
	copy(img.Pix, p.glass.Pix)
	return img
}

// On reports whether the panel is awake with the display turned on.
func (p *Panel) On() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.on && !p.asleep
}

// Inverted reports whether display inversion is on.
func (p *Panel) Inverted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inverted
}

// MADCTL returns the memory access control register.
func (p *Panel) MADCTL() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.madctl
}

// COLMOD returns the interface pixel format register.
func (p *Panel) COLMOD() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.colmod
}

// Resets returns how many hardware or software resets the panel went through.
func (p *Panel) Resets() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resets
}

// Hz returns the clock requested by Connect.
func (p *Panel) Hz() physic.Frequency {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hz
}

// String implements spi.Port and conn.Conn.
func (p *Panel) String() string {
	return "panelsim"
}

// Connect implements spi.Port.
func (p *Panel) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if mode != spi.Mode0 && mode != spi.Mode3 {
		return nil, fmt.Errorf("panelsim: unsupported mode %v", mode)
	}
	if bits != 8 {
		return nil, fmt.Errorf("panelsim: unsupported bits per word %d", bits)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hz = f
	return p, nil
}

// LimitSpeed implements spi.Port.
func (p *Panel) LimitSpeed(f physic.Frequency) error {
	return nil
}

// Close implements spi.PortCloser.
func (p *Panel) Close() error {
	return nil
}

// Duplex implements conn.Conn.
func (p *Panel) Duplex() conn.Duplex {
	return conn.Half
}

// MaxTxSize implements conn.Limits.
func (p *Panel) MaxTxSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxTx
}

// Tx implements conn.Conn. The panel never drives MISO, so r reads zeros.
func (p *Panel) Tx(w, r []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.maxTx > 0 && len(w) > p.maxTx {
		return fmt.Errorf("panelsim: transfer of %d bytes exceeds limit %d", len(w), p.maxTx)
	}
	e := Event{DC: p.dc.level(), W: append([]byte(nil), w...)}
	if p.fault != nil {
		if err := p.fault(e); err != nil {
			return err
		}
	}
	p.events = append(p.events, e)
	for i := range r {
		r[i] = 0
	}
	if p.useCS && p.cs.level() == gpio.High {
		return nil
	}
	if e.DC == gpio.Low {
		for _, b := range w {
			p.command(b)
		}
		return nil
	}
	for _, b := range w {
		p.data(b)
	}
	return nil
}

// TxPackets implements spi.Conn.
func (p *Panel) TxPackets(pkts []spi.Packet) error {
	for _, pkt := range pkts {
		if err := p.Tx(pkt.W, pkt.R); err != nil {
			return err
		}
	}
	return nil
}

func (p *Panel) reset() {
	p.resets++
	p.asleep = true
	p.on = false
	p.inverted = false
	p.madctl = 0
	p.colmod = 0x06
	p.cmd = 0
	p.args = nil
	p.pending = nil
	p.col = [2]int{0, Size - 1}
	p.row = [2]int{0, Size - 1}
}

func (p *Panel) command(b byte) {
	p.cmds = append(p.cmds, b)
	p.cmd = b
	p.args = p.args[:0]
	p.pending = p.pending[:0]
	switch b {
	case opSWRESET:
		p.reset()
	case opSLPIN:
		p.asleep = true
	case opSLPOUT:
		p.asleep = false
	case opINVOFF:
		p.inverted = false
	case opINVON:
		p.inverted = true
	case opDISPOFF:
		p.on = false
	case opDISPON:
		p.on = true
	case opRAMWR:
		p.cx, p.cy = p.col[0], p.row[0]
	}
}

func (p *Panel) data(b byte) {
	switch p.cmd {
	case opRAMWR:
		p.pending = append(p.pending, b)
		if len(p.pending) == 2 {
			p.plot(rgb565.Color(uint16(p.pending[0])<<8 | uint16(p.pending[1])))
			p.pending = p.pending[:0]
		}
	case opCASET, opRASET:
		p.args = append(p.args, b)
		if len(p.args) == 4 {
			start := int(p.args[0])<<8 | int(p.args[1])
			end := int(p.args[2])<<8 | int(p.args[3])
			if p.cmd == opCASET {
				p.col = [2]int{start, end}
			} else {
				p.row = [2]int{start, end}
			}
		}
	case opMADCTL:
		p.madctl = b
	case opCOLMOD:
		p.colmod = b
	}
}

// plot stores c at the current address and advances it row-major within
// the window, wrapping back to its first pixel.
func (p *Panel) plot(c rgb565.Color) {
	x, y := p.cx, p.cy
	if p.madctl&0x20 != 0 { // MV
		x, y = y, x
	}
	if p.madctl&0x40 != 0 { // MX
		x = Size - 1 - x
	}
	if p.madctl&0x80 != 0 { // MY
		y = Size - 1 - y
	}
	// Mirrored source lines.
	x = Size - 1 - x
	p.glass.SetRGB565(x, y, c)

	p.cx++
	if p.cx > p.col[1] {
		p.cx = p.col[0]
		p.cy++
		if p.cy > p.row[1] {
			p.cy = p.row[0]
		}
	}
}

// line is a control line wired into the panel.
type line struct {
	gpiotest.Pin
	p    *Panel
	name string
}

// Out implements gpio.PinOut.
func (l *line) Out(v gpio.Level) error {
	if err := l.Pin.Out(v); err != nil {
		return err
	}
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	l.p.events = append(l.p.events, Event{Line: l.name, Level: v})
	switch l.name {
	case "cs":
		l.p.useCS = true
	case "rst":
		if v == gpio.Low {
			l.p.reset()
		}
	}
	return nil
}

// level returns the line level. The caller holds the panel lock.
func (l *line) level() gpio.Level {
	l.Pin.Lock()
	defer l.Pin.Unlock()
	return l.Pin.L
}
