// Package rgb565 provides the 16-bit RGB565 color and image format used by the GC9A01 controller.
//
// Each pixel is one uint16 holding 5 bits of red, 6 bits of green and 5 bits
// of blue:
//
//	bit:   15 ... 11 | 10 ... 5 | 4 ... 0
//	       R4 ... R0 | G5 ... G0| B4 ... B0
//
// On the wire every pixel is sent most significant byte first, so pure red
// (0xF800) travels as 0xF8 0x00.
//
// This package provides:
//
// - Color: a color.Color holding one RGB565 value
// - Model: a color model converting standard Go colors to Color
// - Image: a draw.Image backed by a row-major []uint16
// - PutBE: the big-endian encoding used on the SPI bus
//
// Example usage:
//
//	img := rgb565.NewImage(image.Rect(0, 0, 240, 240))
//	img.Fill(img.Bounds(), rgb565.Blue)
//	img.SetRGB565(10, 20, rgb565.FromRGB(0xFF, 0x80, 0x00))
//
//	buf := make([]byte, 2*len(img.Pix))
//	rgb565.PutBE(buf, img.Pix)
package rgb565
