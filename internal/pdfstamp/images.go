// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package pdfstamp

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
)

// registerImage decodes PNG or JPEG data and appends it as an image XObject,
// returning the object number and pixel dimensions. Images with an alpha
// channel get a soft mask so transparent signature backgrounds stay
// transparent on the page.
func (c *stampContext) registerImage(data []byte) (id uint32, width, height int, err error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %v", ErrRenderDecode, err)
	}

	bounds := src.Bounds()
	width, height = bounds.Dx(), bounds.Dy()

	var rgbBuf, alphaBuf bytes.Buffer
	rgbWriter := zlib.NewWriter(&rgbBuf)
	alphaWriter := zlib.NewWriter(&alphaBuf)

	hasAlpha := false
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := src.At(x, y).RGBA()
			a8 := uint8(a >> 8)
			if a8 < 255 {
				hasAlpha = true
			}
			_, _ = alphaWriter.Write([]byte{a8})
			_, _ = rgbWriter.Write([]byte{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)})
		}
	}
	_ = rgbWriter.Close()
	_ = alphaWriter.Close()

	var smaskID uint32
	if hasAlpha {
		var smask bytes.Buffer
		fmt.Fprintf(&smask, "<< /Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /DeviceGray /BitsPerComponent 8 /Filter /FlateDecode /Length %d >>\nstream\n",
			width, height, alphaBuf.Len())
		smask.Write(alphaBuf.Bytes())
		smask.WriteString("\nendstream")
		if smaskID, err = c.addObject(smask.Bytes()); err != nil {
			return 0, 0, 0, err
		}
	}

	var obj bytes.Buffer
	obj.WriteString("<< /Type /XObject /Subtype /Image\n")
	fmt.Fprintf(&obj, "  /Width %d /Height %d /ColorSpace /DeviceRGB /BitsPerComponent 8\n", width, height)
	if smaskID != 0 {
		fmt.Fprintf(&obj, "  /SMask %d 0 R\n", smaskID)
	}

	// JPEG without transparency passes through as-is under DCTDecode.
	if format == "jpeg" && !hasAlpha {
		fmt.Fprintf(&obj, "  /Filter /DCTDecode /Length %d >>\nstream\n", len(data))
		obj.Write(data)
	} else {
		fmt.Fprintf(&obj, "  /Filter /FlateDecode /Length %d >>\nstream\n", rgbBuf.Len())
		obj.Write(rgbBuf.Bytes())
	}
	obj.WriteString("\nendstream")

	id, err = c.addObject(obj.Bytes())
	return id, width, height, err
}

// registerTextFont appends the standard Helvetica font dictionary used for
// text fields and the footer.
func (c *stampContext) registerTextFont() (uint32, error) {
	return c.addObject([]byte("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"))
}

// registerCheckFont appends the ZapfDingbats font dictionary used for
// checkbox marks. The font keeps its built-in encoding so the check glyph
// stays addressable by its standard character code.
func (c *stampContext) registerCheckFont() (uint32, error) {
	return c.addObject([]byte("<< /Type /Font /Subtype /Type1 /BaseFont /ZapfDingbats >>"))
}
