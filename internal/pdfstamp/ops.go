// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package pdfstamp

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/veridoc/signcore/internal/geom"
	"github.com/veridoc/signcore/internal/typeset"
)

// Resource names used by stamp operators. The "SC" prefix keeps them clear
// of any names the source document already defines.
const (
	textFontName  = "SCF1"
	checkFontName = "SCF2"
)

// textPadding is the inset between a field box edge and its text, in points.
const textPadding = 2.0

// ZapfDingbats check mark (a19): character code, advance width and cap
// height as fractions of the font size. Used to center the glyph.
const (
	checkChar        = "3"
	checkGlyphWidth  = 0.790
	checkGlyphHeight = 0.705
)

// textOps emits the operators for a fitted block of text: left-aligned,
// anchored to the box top, one Td step per wrapped line.
func textOps(fit typeset.Fitted, rect geom.AbsRect) []byte {
	var buf bytes.Buffer
	buf.WriteString("BT\n")
	fmt.Fprintf(&buf, "/%s %s Tf\n", textFontName, formatFloat(fit.FontSize))

	// First baseline sits one font size below the padded top edge.
	x := rect.X + textPadding
	y := rect.Top() - textPadding - fit.FontSize
	fmt.Fprintf(&buf, "%s %s Td\n", formatFloat(x), formatFloat(y))

	step := fit.FontSize + typeset.LineGap
	for i, line := range fit.Lines {
		if i > 0 {
			fmt.Fprintf(&buf, "0 %s Td\n", formatFloat(-step))
		}
		fmt.Fprintf(&buf, "%s Tj\n", pdfString(line))
	}

	buf.WriteString("ET\n")
	return buf.Bytes()
}

// imageOps emits the operators placing a decoded image: scaled to fit the
// box proportionally, then enlarged 1.2x about the box center so the
// signature visually fills its blank.
func imageOps(rect geom.AbsRect, imgWidth, imgHeight int, name string) []byte {
	scale := rect.Width / float64(imgWidth)
	if s := rect.Height / float64(imgHeight); s < scale {
		scale = s
	}
	scale *= 1.2

	drawWidth := float64(imgWidth) * scale
	drawHeight := float64(imgHeight) * scale
	x := rect.X + (rect.Width-drawWidth)/2
	y := rect.Y + (rect.Height-drawHeight)/2

	var buf bytes.Buffer
	buf.WriteString("q\n")
	fmt.Fprintf(&buf, "%s 0 0 %s %s %s cm\n",
		formatFloat(drawWidth), formatFloat(drawHeight), formatFloat(x), formatFloat(y))
	fmt.Fprintf(&buf, "/%s Do\n", name)
	buf.WriteString("Q\n")
	return buf.Bytes()
}

// checkboxOps emits a single check mark centered in the box, sized to 0.8 of
// the box's smaller dimension. An unchecked box emits nothing; the caller
// never invokes this for false values.
func checkboxOps(rect geom.AbsRect) []byte {
	size := 0.8 * rect.Width
	if rect.Height < rect.Width {
		size = 0.8 * rect.Height
	}

	x := rect.X + (rect.Width-checkGlyphWidth*size)/2
	y := rect.Y + (rect.Height-checkGlyphHeight*size)/2

	var buf bytes.Buffer
	buf.WriteString("BT\n")
	fmt.Fprintf(&buf, "/%s %s Tf\n", checkFontName, formatFloat(size))
	fmt.Fprintf(&buf, "%s %s Td\n", formatFloat(x), formatFloat(y))
	fmt.Fprintf(&buf, "%s Tj\n", pdfString(checkChar))
	buf.WriteString("ET\n")
	return buf.Bytes()
}

// footerFontSize is the fixed size of the completion footer line.
const footerFontSize = 8.0

// footerOps emits the completion footer centered near the bottom edge of a
// page.
func footerOps(line string, page geom.PageSize, face typeset.Face) []byte {
	width := typeset.StringWidth(face, line, footerFontSize)
	x := (page.Width - width) / 2
	if x < textPadding {
		x = textPadding
	}

	var buf bytes.Buffer
	buf.WriteString("BT\n")
	fmt.Fprintf(&buf, "/%s %s Tf\n", textFontName, formatFloat(footerFontSize))
	fmt.Fprintf(&buf, "%s %s Td\n", formatFloat(x), formatFloat(footerFontSize))
	fmt.Fprintf(&buf, "%s Tj\n", pdfString(line))
	buf.WriteString("ET\n")
	return buf.Bytes()
}

// pdfString emits a literal PDF string with delimiter and escape characters
// escaped. Runes outside Latin-1 are substituted, matching the WinAnsi
// encoding of the stamped fonts.
func pdfString(text string) string {
	var buf strings.Builder
	buf.WriteByte('(')
	for _, r := range text {
		switch r {
		case '\\':
			buf.WriteString(`\\`)
		case '(':
			buf.WriteString(`\(`)
		case ')':
			buf.WriteString(`\)`)
		case '\r':
			buf.WriteString(`\r`)
		case '\n':
			buf.WriteString(`\n`)
		default:
			if r > 0xFF {
				buf.WriteByte('?')
			} else {
				buf.WriteByte(byte(r))
			}
		}
	}
	buf.WriteByte(')')
	return buf.String()
}

// formatFloat trims trailing zeros so operator streams stay compact.
func formatFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func sortedKeys(m map[string]uint32) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
