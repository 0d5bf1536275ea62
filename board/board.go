// Package board acquires the SPI port and GPIO lines a GC9A01 module is
// wired to.
//
// Hardware handles are exclusive: a Factory hands its peripherals out once.
package board

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// ErrAlreadyTaken is returned by Take after the peripherals were handed out.
var ErrAlreadyTaken = errors.New("board: peripherals already taken")

// Pins names the port and lines, as known to spireg and gpioreg.
type Pins struct {
	SPI string // SPI port (empty for the first one registered)
	DC  string // Data/Command line, required
	CS  string // Chip select line (empty if driven by the SPI port)
	RST string // Reset line (empty to use a software reset)
}

// DefaultPins is a common wiring on a Raspberry Pi header.
var DefaultPins = Pins{DC: "GPIO25", RST: "GPIO27"}

// Peripherals are the handles a display driver needs.
type Peripherals struct {
	Port spi.PortCloser
	DC   gpio.PinOut
	CS   gpio.PinOut // nil when not wired
	RST  gpio.PinOut // nil when not wired
}

// Close releases the SPI port.
func (p *Peripherals) Close() error {
	return p.Port.Close()
}

// Factory hands out the peripherals at most once.
type Factory struct {
	mu    sync.Mutex
	taken bool
	pins  Pins

	open   func(name string) (spi.PortCloser, error)
	byName func(name string) gpio.PinIO
}

// NewFactory initializes the host drivers and returns a Factory for pins.
func NewFactory(pins Pins) (*Factory, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("board: failed to initialize host: %w", err)
	}
	return newFactory(pins, spireg.Open, gpioreg.ByName), nil
}

func newFactory(pins Pins, open func(string) (spi.PortCloser, error), byName func(string) gpio.PinIO) *Factory {
	return &Factory{pins: pins, open: open, byName: byName}
}

// Take opens the port and looks up the lines. The first successful call
// wins; every later call returns ErrAlreadyTaken. A failed Take releases
// what it opened and may be retried.
func (f *Factory) Take() (*Peripherals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.taken {
		return nil, ErrAlreadyTaken
	}
	if f.pins.DC == "" {
		return nil, errors.New("board: DC pin is required")
	}

	dc := f.byName(f.pins.DC)
	if dc == nil {
		return nil, fmt.Errorf("board: GPIO pin %s not found", f.pins.DC)
	}
	p := &Peripherals{DC: dc}
	if f.pins.CS != "" {
		cs := f.byName(f.pins.CS)
		if cs == nil {
			return nil, fmt.Errorf("board: GPIO pin %s not found", f.pins.CS)
		}
		p.CS = cs
	}
	if f.pins.RST != "" {
		rst := f.byName(f.pins.RST)
		if rst == nil {
			return nil, fmt.Errorf("board: GPIO pin %s not found", f.pins.RST)
		}
		p.RST = rst
	}

	port, err := f.open(f.pins.SPI)
	if err != nil {
		return nil, fmt.Errorf("board: failed to open SPI port %q: %w", f.pins.SPI, err)
	}
	p.Port = port
	f.taken = true
	return p, nil
}
