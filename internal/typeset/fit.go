// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package typeset

import "strings"

// LineGap is the fixed vertical gap between wrapped lines, in points.
// Wrapped block height is len(lines) * (fontSize + LineGap).
const LineGap = 2.0

// sizeStep is the fixed decrement between candidate font sizes.
const sizeStep = 1.0

// Box is the bounding box a string must be fitted into, in points.
type Box struct {
	Width  float64
	Height float64
}

// Fitted is the fitter's result: the chosen font size and the wrapped lines.
// Overflow is true when even the minimum size could not satisfy the height
// constraint and the block will extend below the box; the renderer draws it
// anyway and logs a warning, because showing complete information wins over
// strict geometric containment.
type Fitted struct {
	FontSize float64
	Lines    []string
	Overflow bool
}

// Fit chooses the largest font size in [minSize, maxSize] (descending in
// fixed decrements) at which text fits the box, wrapping greedily at word
// boundaries when a single line is too wide. Deterministic for a given face.
//
// Candidate acceptance, per size:
//  1. the whole string fits the box width on one line, or
//  2. the greedy word wrap's total height fits the box height.
//
// If no candidate passes, the text is wrapped at minSize and returned with
// Overflow set. No path drops characters.
func Fit(text string, box Box, face Face, maxSize, minSize float64) Fitted {
	words := strings.Fields(text)
	if len(words) == 0 {
		return Fitted{FontSize: maxSize}
	}
	if minSize > maxSize {
		minSize = maxSize
	}

	single := strings.Join(words, " ")
	for size := maxSize; size >= minSize-1e-9; size -= sizeStep {
		if StringWidth(face, single, size) <= box.Width {
			return Fitted{FontSize: size, Lines: []string{single}}
		}

		lines := wrap(words, face, size, box.Width)
		if float64(len(lines))*(size+LineGap) <= box.Height {
			return Fitted{FontSize: size, Lines: lines}
		}
	}

	return Fitted{
		FontSize: minSize,
		Lines:    wrap(words, face, minSize, box.Width),
		Overflow: true,
	}
}

// wrap greedily packs words into lines no wider than boxWidth at the given
// size. A single word wider than the box still becomes its own (overflowing)
// line: the fitter never splits or truncates a word.
func wrap(words []string, face Face, size, boxWidth float64) []string {
	var lines []string
	current := words[0]

	for _, word := range words[1:] {
		candidate := current + " " + word
		if StringWidth(face, candidate, size) <= boxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}

	return append(lines, current)
}
