package gc9a01

import "time"

// Controller opcodes.
const (
	cmdSWRESET  = 0x01 // Software reset
	cmdSLPIN    = 0x10 // Enter sleep mode
	cmdSLPOUT   = 0x11 // Sleep out
	cmdNORON    = 0x13 // Normal display mode on
	cmdINVOFF   = 0x20 // Display inversion off
	cmdINVON    = 0x21 // Display inversion on
	cmdDISPOFF  = 0x28 // Display off
	cmdDISPON   = 0x29 // Display on
	cmdCASET    = 0x2A // Column address set
	cmdRASET    = 0x2B // Row address set
	cmdRAMWR    = 0x2C // Memory write
	cmdTEON     = 0x35 // Tearing effect line on
	cmdMADCTL   = 0x36 // Memory access control
	cmdCOLMOD   = 0x3A // Interface pixel format
	cmdDFUNCTR  = 0xB6 // Display function control
	cmdPWRCTRL2 = 0xC3 // Power control 2
	cmdPWRCTRL3 = 0xC4 // Power control 3
	cmdPWRCTRL4 = 0xC9 // Power control 4
	cmdFRAMERT  = 0xE8 // Frame rate
	cmdINREGEN1 = 0xFE // Inter register enable 1
	cmdINREGEN2 = 0xEF // Inter register enable 2
	cmdGAMMA1   = 0xF0 // Set gamma 1
	cmdGAMMA2   = 0xF1 // Set gamma 2
	cmdGAMMA3   = 0xF2 // Set gamma 3
	cmdGAMMA4   = 0xF3 // Set gamma 4
)

// MADCTL bits.
const (
	madctlMY  = 0x80 // Row address order
	madctlMX  = 0x40 // Column address order
	madctlMV  = 0x20 // Row/column exchange
	madctlBGR = 0x08 // BGR color filter panel
)

// colmodRGB565 selects 16 bits per pixel on the MCU interface.
const colmodRGB565 = 0x05

const (
	// ramSize is the edge of the square GC9A01 frame memory.
	ramSize = 240

	// resetPulse is how long RST is held low. The datasheet minimum is 10µs.
	resetPulse = 10 * time.Millisecond
	// bootWait follows a hardware or software reset before any command.
	bootWait = 120 * time.Millisecond
	// sleepOutWait follows SLPOUT before the display may be turned on.
	sleepOutWait = 120 * time.Millisecond
	// displayOnWait follows DISPON.
	displayOnWait = 20 * time.Millisecond
)

// step is one entry of the initialization table.
type step struct {
	cmd   byte
	args  []byte
	delay time.Duration
}

// initSequence returns the controller configuration in transmit order.
//
// Payloads of the undocumented vendor registers are the manufacturer
// defaults and must not be reordered. madctl is the memory access control
// value for the configured orientation.
func initSequence(madctl byte) []step {
	return []step{
		{cmd: cmdINREGEN2},
		{cmd: 0xEB, args: []byte{0x14}},
		{cmd: cmdINREGEN1},
		{cmd: cmdINREGEN2},
		{cmd: 0xEB, args: []byte{0x14}},
		{cmd: 0x84, args: []byte{0x40}},
		{cmd: 0x85, args: []byte{0xFF}},
		{cmd: 0x86, args: []byte{0xFF}},
		{cmd: 0x87, args: []byte{0xFF}},
		{cmd: 0x88, args: []byte{0x0A}},
		{cmd: 0x89, args: []byte{0x21}},
		{cmd: 0x8A, args: []byte{0x00}},
		{cmd: 0x8B, args: []byte{0x80}},
		{cmd: 0x8C, args: []byte{0x01}},
		{cmd: 0x8D, args: []byte{0x01}},
		{cmd: 0x8E, args: []byte{0xFF}},
		{cmd: 0x8F, args: []byte{0xFF}},
		{cmd: cmdDFUNCTR, args: []byte{0x00, 0x20}},
		{cmd: cmdMADCTL, args: []byte{madctl}},
		{cmd: cmdCOLMOD, args: []byte{colmodRGB565}},
		{cmd: 0x90, args: []byte{0x08, 0x08, 0x08, 0x08}},
		{cmd: 0xBD, args: []byte{0x06}},
		{cmd: 0xBC, args: []byte{0x00}},
		{cmd: 0xFF, args: []byte{0x60, 0x01, 0x04}},
		{cmd: cmdPWRCTRL2, args: []byte{0x13}},
		{cmd: cmdPWRCTRL3, args: []byte{0x13}},
		{cmd: cmdPWRCTRL4, args: []byte{0x22}},
		{cmd: 0xBE, args: []byte{0x11}},
		{cmd: 0xE1, args: []byte{0x10, 0x0E}},
		{cmd: 0xDF, args: []byte{0x21, 0x0C, 0x02}},
		{cmd: cmdGAMMA1, args: []byte{0x45, 0x09, 0x08, 0x08, 0x26, 0x2A}},
		{cmd: cmdGAMMA2, args: []byte{0x43, 0x70, 0x72, 0x36, 0x37, 0x6F}},
		{cmd: cmdGAMMA3, args: []byte{0x45, 0x09, 0x08, 0x08, 0x26, 0x2A}},
		{cmd: cmdGAMMA4, args: []byte{0x43, 0x70, 0x72, 0x36, 0x37, 0x6F}},
		{cmd: 0xED, args: []byte{0x1B, 0x0B}},
		{cmd: 0xAE, args: []byte{0x77}},
		{cmd: 0xCD, args: []byte{0x63}},
		{cmd: 0x70, args: []byte{0x07, 0x07, 0x04, 0x0E, 0x0F, 0x09, 0x07, 0x08, 0x03}},
		{cmd: cmdFRAMERT, args: []byte{0x34}},
		{cmd: 0x62, args: []byte{0x18, 0x0D, 0x71, 0xED, 0x70, 0x70, 0x18, 0x0F, 0x71, 0xEF, 0x70, 0x70}},
		{cmd: 0x63, args: []byte{0x18, 0x11, 0x71, 0xF1, 0x70, 0x70, 0x18, 0x13, 0x71, 0xF3, 0x70, 0x70}},
		{cmd: 0x64, args: []byte{0x28, 0x29, 0xF1, 0x01, 0xF1, 0x00, 0x07}},
		{cmd: 0x66, args: []byte{0x3C, 0x00, 0xCD, 0x67, 0x45, 0x45, 0x10, 0x00, 0x00, 0x00}},
		{cmd: 0x67, args: []byte{0x00, 0x3C, 0x00, 0x00, 0x00, 0x01, 0x54, 0x10, 0x32, 0x98}},
		{cmd: 0x74, args: []byte{0x10, 0x85, 0x80, 0x00, 0x00, 0x4E, 0x00}},
		{cmd: 0x98, args: []byte{0x3E, 0x07}},
		{cmd: cmdNORON},
		{cmd: cmdTEON, args: []byte{0x00}},
		{cmd: cmdINVON},
		{cmd: cmdSLPOUT, delay: sleepOutWait},
		{cmd: cmdDISPON, delay: displayOnWait},
	}
}

// Rotation is the clockwise orientation of the logical canvas.
type Rotation uint8

// Possible rotations.
const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

func (r Rotation) String() string {
	switch r {
	case Rotate0:
		return "0°"
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	}
	return "Rotation(?)"
}

// swapsAxes reports whether logical x runs along the panel's rows.
func (r Rotation) swapsAxes() bool {
	return r == Rotate90 || r == Rotate270
}

// madctl returns the memory access control value for r.
// GC9A01 modules mount the glass mirrored, so Rotate0 sets MX.
func (r Rotation) madctl(bgr bool) byte {
	var v byte
	switch r {
	case Rotate0:
		v = madctlMX
	case Rotate90:
		v = madctlMV
	case Rotate180:
		v = madctlMY
	case Rotate270:
		v = madctlMX | madctlMY | madctlMV
	}
	if bgr {
		v |= madctlBGR
	}
	return v
}
