// Package gc9a01 controls a GC9A01 round TFT display via SPI.
//
// The GC9A01 is a 262K color TFT controller used on 1.28" round 240×240
// modules. This driver uses the 4-wire SPI interface in RGB565 mode and
// implements the display.Drawer interface from periph.io.
//
// # Display Characteristics
//
// - 16-bit RGB565 color, sent big-endian
// - 240×240 frame memory; smaller visible areas via column/row offsets
// - Rotation in 90° steps via memory access control
// - Display inversion (on by default, as the panels require)
//
// # Hardware Connection
//
// Connect the GC9A01 module to your system via SPI:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCL         → SPI Clock (SCLK)
//	SDA         → SPI Data (MOSI)
//	DC          → GPIO (any available pin)
//	CS          → SPI Chip Select, or a GPIO
//	RST         → Optional: GPIO for hardware reset
//	BL          → 3.3V or a GPIO for the backlight
//
// # Basic Usage
//
// Example of creating and using the display:
//
//	package main
//
//	import (
//		"image"
//
//		"github.com/flavioheleno/gc9a01"
//		"github.com/flavioheleno/gc9a01/board"
//		"github.com/flavioheleno/gc9a01/rgb565"
//	)
//
//	func main() {
//		// Acquire the SPI port and GPIO lines
//		f, _ := board.NewFactory(board.DefaultPins)
//		p, _ := f.Take()
//		defer p.Close()
//
//		// Create device, reset and initialize it
//		dev, _ := gc9a01.NewSPI(p.Port, p.DC, &gc9a01.Opts{
//			Rotation: gc9a01.Rotate180,
//			RST:      p.RST,
//		})
//		defer dev.Halt()
//
//		dev.Clear(rgb565.White)
//		dev.FillRect(image.Rect(70, 70, 170, 170), rgb565.Red)
//	}
//
// # Lifecycle
//
// New only connects the SPI port. Reset restarts the controller, using the
// RST pin when one is given and a software reset otherwise. Init then sends
// the vendor configuration and turns the display on. NewSPI does all three.
//
// Drawing before Init has completed returns ErrNotReady. When Init fails it
// returns an *InitError naming the failing step; the device cannot resume
// and must be Reset again.
//
// # Drawing Modes
//
// ## Immediate
//
// The default. Every primitive sets an address window and streams its pixels
// right away. Lines and circles are split into horizontal or vertical runs,
// each sent as one window, so no pixel is written twice.
//
// ## Buffered
//
// With Opts.Buffered the driver keeps a W×H×2 byte frame. Primitives only
// update it; Flush sends the whole frame as one burst:
//
//	dev, _ := gc9a01.NewSPI(port, dc, &gc9a01.Opts{Buffered: true})
//	dev.FillCircle(image.Pt(120, 120), 60, rgb565.Blue)
//	dev.Flush()
//
// Both modes produce the same picture.
//
// ## Raw Windows
//
// SetWindow and WritePixels give direct access to the controller's memory
// write. WritePixels must follow SetWindow and carry exactly the window's
// number of pixels.
//
// # Colors
//
// Colors are rgb565.Color values; any color.Color is converted with rounding:
//
//	rgb565.FromRGB(255, 128, 0) // orange
//	rgb565.Red                  // 0xF800
//
// # Text
//
// WriteText renders TinyGo fonts, and Displayer adapts the device to the
// drivers.Displayer interface used by tinyfont and tinydraw.
//
// # Testing
//
// Package panelsim emulates the controller. It is an spi.Port that decodes
// the command stream into a picture, so programs can run without hardware.
//
// # Compatibility with periph.io
//
// This driver implements the display.Drawer interface from periph.io:
// https://pkg.go.dev/periph.io/x/conn/v3/display
//
// It can be used with any periph.io tool or library expecting a display.Drawer.
package gc9a01
