// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package typeset chooses a font size and line wrap for a string that must
// land inside a fixed bounding box on a document page.
//
// The fitter never drops characters: when no candidate size makes the text
// fit, it falls back to the minimum size and reports vertical overflow so
// the caller can log a warning instead of losing information.
package typeset

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Face supplies per-rune advance widths for one font at an arbitrary size.
type Face interface {
	// Name returns the font's PostScript name as referenced in page
	// resources.
	Name() string

	// Advance returns the horizontal advance of r rendered at the given
	// font size, in the same unit as the size (points).
	Advance(r rune, size float64) float64
}

// StringWidth measures s rendered on face at the given size.
func StringWidth(face Face, s string, size float64) float64 {
	var w float64
	for _, r := range s {
		w += face.Advance(r, size)
	}
	return w
}

// ttfFace is a Face backed by parsed TrueType metrics. Used when a deployment
// configures a TTF for scripts the built-in Helvetica table cannot measure.
type ttfFace struct {
	name        string
	unitsPerEm  int
	glyphWidths map[rune]int
}

// ParseTTF parses a TrueType font file and extracts glyph advance metrics
// for accurate text measurement. The glyph range 32..0xFFFF is probed lazily
// up front for the Basic Multilingual Plane's populated glyphs.
func ParseTTF(name string, data []byte) (Face, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, err
	}

	unitsPerEm := f.UnitsPerEm()
	ppem := fixed.Int26_6(unitsPerEm) << 6

	glyphWidths := make(map[rune]int)
	var buf sfnt.Buffer
	for r := rune(32); r <= rune(0xFFFF); r++ {
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil || idx == 0 {
			continue
		}
		advance, err := f.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
		if err != nil {
			continue
		}
		glyphWidths[r] = int(advance >> 6)
	}

	return &ttfFace{
		name:        name,
		unitsPerEm:  int(unitsPerEm),
		glyphWidths: glyphWidths,
	}, nil
}

func (f *ttfFace) Name() string { return f.name }

func (f *ttfFace) Advance(r rune, size float64) float64 {
	w, ok := f.glyphWidths[r]
	if !ok {
		// missing glyph: assume an em box, the widest realistic advance
		w = f.unitsPerEm
	}
	return float64(w) / float64(f.unitsPerEm) * size
}
