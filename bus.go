package gc9a01

import (
	"github.com/flavioheleno/gc9a01/rgb565"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// bus is the command/data transport over SPI.
//
// Every transaction runs select, transfer, deselect. The D/C line is low
// while the opcode is transferred and high for arguments and pixels.
type bus struct {
	c     conn.Conn
	dc    gpio.PinOut
	cs    gpio.PinOut // nil when the SPI port drives chip select
	maxTx int         // 0 means unlimited
	buf   []byte      // encoded pixel scratch
}

func newBus(c conn.Conn, dc, cs gpio.PinOut) *bus {
	b := &bus{c: c, dc: dc, cs: cs}
	if l, ok := c.(conn.Limits); ok {
		b.maxTx = l.MaxTxSize()
	}
	return b
}

// command sends opcode op followed by args under one chip select assertion.
func (b *bus) command(op byte, args ...byte) error {
	if err := b.dc.Out(gpio.Low); err != nil {
		return &TransportError{Op: "command", Cmd: op, Err: err}
	}
	if err := b.selectDev(); err != nil {
		return &TransportError{Op: "command", Cmd: op, Err: err}
	}
	if err := b.c.Tx([]byte{op}, nil); err != nil {
		b.deselect()
		return &TransportError{Op: "command", Cmd: op, Err: err}
	}
	if len(args) != 0 {
		if err := b.dc.Out(gpio.High); err != nil {
			b.deselect()
			return &TransportError{Op: "data", Cmd: op, Err: err}
		}
		if err := b.write(args); err != nil {
			b.deselect()
			return &TransportError{Op: "data", Cmd: op, Err: err}
		}
	}
	if err := b.deselect(); err != nil {
		return &TransportError{Op: "command", Cmd: op, Err: err}
	}
	return nil
}

// pixels streams px big-endian as one burst.
func (b *bus) pixels(px []uint16) error {
	n := 2 * len(px)
	if cap(b.buf) < n {
		b.buf = make([]byte, n)
	}
	data := b.buf[:n]
	rgb565.PutBE(data, px)

	if err := b.dc.Out(gpio.High); err != nil {
		return &TransportError{Op: "pixels", Err: err}
	}
	if err := b.selectDev(); err != nil {
		return &TransportError{Op: "pixels", Err: err}
	}
	if err := b.write(data); err != nil {
		b.deselect()
		return &TransportError{Op: "pixels", Err: err}
	}
	if err := b.deselect(); err != nil {
		return &TransportError{Op: "pixels", Err: err}
	}
	return nil
}

// write transfers data, split at the connection's transaction limit.
func (b *bus) write(data []byte) error {
	for len(data) != 0 {
		chunk := data
		if b.maxTx > 0 && len(chunk) > b.maxTx {
			chunk = chunk[:b.maxTx]
		}
		if err := b.c.Tx(chunk, nil); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

func (b *bus) selectDev() error {
	if b.cs == nil {
		return nil
	}
	return b.cs.Out(gpio.Low)
}

func (b *bus) deselect() error {
	if b.cs == nil {
		return nil
	}
	return b.cs.Out(gpio.High)
}
