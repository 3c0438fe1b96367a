// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package geom converts designer-authored normalized field geometry into
// absolute page coordinates.
//
// Field positions are persisted as fractions of the reference page size in
// [0,1], measured from the page's top-left corner the way the layout
// authoring tool draws them. The stamping target is a PDF content stream
// whose coordinate origin is the bottom-left corner, so mapping flips the
// vertical axis.
package geom

// Reference page size shared between the layout authoring tool and the
// renderer: A4 in PDF points. Normalized coordinates are unit-free, so only
// the rendering side needs the constant, but it must be the single one used
// system-wide.
const (
	RefPageWidth  = 595.28
	RefPageHeight = 841.89
)

// NormRect is a field's normalized bounding box: top-left anchored fractions
// of the page width/height, each in [0,1].
type NormRect struct {
	RelX      float64
	RelY      float64
	RelWidth  float64
	RelHeight float64
}

// PageSize is the absolute size of one page in the target's native units.
type PageSize struct {
	Width  float64
	Height float64
}

// AbsRect is an absolute rectangle in the target page's native coordinate
// system (bottom-left origin). X/Y anchor the rectangle's bottom-left corner.
type AbsRect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Top returns the rectangle's top edge coordinate.
func (r AbsRect) Top() float64 { return r.Y + r.Height }

// Right returns the rectangle's right edge coordinate.
func (r AbsRect) Right() float64 { return r.X + r.Width }

// Map converts a normalized rectangle into absolute page coordinates.
//
// absX = pageWidth * relX, absWidth = pageWidth * relWidth, and likewise for
// the vertical axis; the top-down relY is then converted to the page's
// bottom-left origin: absY = pageHeight - pageHeight*relY - absHeight.
// Pure function, no side effects.
func Map(rect NormRect, page PageSize) AbsRect {
	width := page.Width * rect.RelWidth
	height := page.Height * rect.RelHeight
	topDownY := page.Height * rect.RelY

	return AbsRect{
		X:      page.Width * rect.RelX,
		Y:      page.Height - topDownY - height,
		Width:  width,
		Height: height,
	}
}
