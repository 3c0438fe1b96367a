// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package pdfstamp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veridoc/signcore/internal/geom"
	"github.com/veridoc/signcore/internal/typeset"
)

func TestPdfString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Hello", want: "(Hello)"},
		{name: "parens escaped", in: "a(b)c", want: `(a\(b\)c)`},
		{name: "backslash escaped", in: `a\b`, want: `(a\\b)`},
		{name: "newline escaped", in: "a\nb", want: `(a\nb)`},
		{name: "non latin substituted", in: "서울", want: "(??)"},
		{name: "latin1 kept", in: "café", want: "(caf\xe9)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pdfString(tt.in))
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 14, want: "14"},
		{in: 14.5, want: "14.5"},
		{in: 14.25, want: "14.25"},
		{in: 0, want: "0"},
		{in: -3.4, want: "-3.4"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatFloat(tt.in))
	}
}

func TestTextOpsAnchorsToBoxTop(t *testing.T) {
	rect := geom.AbsRect{X: 100, Y: 700, Width: 200, Height: 40}
	fit := typeset.Fitted{FontSize: 12, Lines: []string{"first", "second"}}

	ops := string(textOps(fit, rect))

	// Baseline of the first line: top edge minus padding minus font size.
	assert.Contains(t, ops, "102 726 Td")
	// Subsequent lines step down by font size plus the line gap.
	assert.Contains(t, ops, "0 -14 Td")
	assert.Contains(t, ops, "(first) Tj")
	assert.Contains(t, ops, "(second) Tj")
}

func TestImageOpsScalesAboutCenter(t *testing.T) {
	rect := geom.AbsRect{X: 0, Y: 0, Width: 100, Height: 100}

	// Square image in a square box: fits at 100, drawn at 120, centered.
	ops := string(imageOps(rect, 50, 50, "SCim1"))
	assert.Contains(t, ops, "120 0 0 120 -10 -10 cm")
	assert.Contains(t, ops, "/SCim1 Do")
}

func TestCheckboxOpsSizedToSmallerDimension(t *testing.T) {
	rect := geom.AbsRect{X: 0, Y: 0, Width: 40, Height: 20}

	ops := string(checkboxOps(rect))
	// 0.8 * min(40, 20) = 16.
	assert.Contains(t, ops, "/"+checkFontName+" 16 Tf")
	assert.Contains(t, ops, "("+checkChar+") Tj")
}
