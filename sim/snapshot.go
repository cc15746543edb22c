// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sim

import (
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
	"periph.io/x/conn/v3/gpio"
)

const (
	cellW  = 10
	cellH  = 18
	margin = 8
)

// Image renders the panel the way it looks: dark glyphs on a green
// backlit background, or a grey panel when the backlight is off. Nothing is
// drawn while the display is turned off.
func (l *LCD) Image() image.Image {
	w := l.cols*cellW + 2*margin
	h := l.rows*cellH + 2*margin
	dc := gg.NewContext(w, h)
	if l.Backlight.Read() == gpio.High {
		dc.SetRGB255(0x9b, 0xc6, 0x3b)
	} else {
		dc.SetRGB255(0x6e, 0x74, 0x6a)
	}
	dc.Clear()
	if !l.DisplayOn() {
		return dc.Image()
	}
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetRGB255(0x1e, 0x2a, 0x14)
	for row := 1; row <= l.rows; row++ {
		y := float64(margin + row*cellH - 5)
		for col, c := range []byte(l.Line(row)) {
			if c == ' ' {
				continue
			}
			x := float64(margin + col*cellW + 1)
			dc.DrawString(string(rune(c)), x, y)
		}
	}
	return dc.Image()
}

// Snapshot saves the panel as a PNG file.
func (l *LCD) Snapshot(path string) error {
	return gg.SavePNG(path, l.Image())
}
