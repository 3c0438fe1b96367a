// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package pdfstamp renders submitted field values into a PDF document as an
// incremental update: the original bytes are preserved verbatim and the
// stamped content, rewritten page objects and a chained cross-reference
// section are appended after them.
package pdfstamp

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/digitorus/pdf"

	"github.com/veridoc/signcore/internal/geom"
	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/internal/typeset"
	"github.com/veridoc/signcore/internal/utils"
	"github.com/veridoc/signcore/models"
)

// Default font size bounds for the text fitter, in points.
const (
	DefaultMaxFontSize = 14.0
	DefaultMinFontSize = 6.0
)

// Footer describes the completion line stamped near the bottom of every
// page: when the document was completed and its traceable serial number.
type Footer struct {
	CompletedAt time.Time
	Serial      string
}

// StampOptions tunes one Stamp call.
type StampOptions struct {
	// Footer, when set, is stamped onto every page.
	Footer *Footer

	// Decrypt recovers the plaintext of sensitive field values right before
	// they are drawn. When nil, sensitive values are treated as plaintext.
	Decrypt func(ciphertext string) (string, error)
}

// SkippedField records one field that could not be rendered and why.
type SkippedField struct {
	FieldKey string
	Err      error
}

// StampReport summarizes a Stamp call: which fields made it onto the page
// and which were skipped. A skip never aborts the rest of the document.
type StampReport struct {
	Stamped []string
	Skipped []SkippedField
}

func (r *StampReport) skip(key string, err error) {
	r.Skipped = append(r.Skipped, SkippedField{FieldKey: key, Err: err})
}

// Stamper renders field values into documents. Safe for concurrent use; all
// per-call state lives in the stamp context.
type Stamper struct {
	face        typeset.Face
	maxFontSize float64
	minFontSize float64
	log         *logger.Logger
}

// NewStamper returns a Stamper measuring text with face. Zero font size
// bounds fall back to the defaults.
func NewStamper(face typeset.Face, maxFontSize, minFontSize float64, log *logger.Logger) *Stamper {
	if face == nil {
		face = typeset.Helvetica()
	}
	if maxFontSize <= 0 {
		maxFontSize = DefaultMaxFontSize
	}
	if minFontSize <= 0 {
		minFontSize = DefaultMinFontSize
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Stamper{face: face, maxFontSize: maxFontSize, minFontSize: minFontSize, log: log}
}

// Stamp renders the given fields into raw and returns the stamped document.
//
// Pages are processed in order; every page that receives content, carries a
// layout-preview marker, or needs the footer is rewritten. Per-field
// failures (bad page, undecodable image, failed decryption) are isolated:
// the field is skipped, recorded in the report, and the rest of the
// document still renders. Only document-level failures return an error, and
// then no output is produced.
func (s *Stamper) Stamp(raw []byte, fields []models.Field, opts StampOptions) ([]byte, *StampReport, error) {
	ctx, err := newStampContext(raw)
	if err != nil {
		return nil, nil, err
	}

	report := &StampReport{}
	numPages := ctx.reader.NumPage()

	pageFields := make(map[int][]models.Field)
	for _, field := range fields {
		if !field.Filled() {
			continue
		}
		if field.Page < 1 || field.Page > numPages {
			s.log.Warn().Str("field_key", field.FieldKey).Int("page", field.Page).Msg("field page out of range")
			report.skip(field.FieldKey, fmt.Errorf("%w: page %d of %d", ErrInvalidFieldPage, field.Page, numPages))
			continue
		}
		pageFields[field.Page] = append(pageFields[field.Page], field)
	}

	// Resolve every page up front: marker annotations must be stripped even
	// from pages that receive no content.
	pages := make(map[int]*pageInfo, numPages)
	touched := make(map[int]bool)
	for n := 1; n <= numPages; n++ {
		info, err := ctx.page(n)
		if err != nil {
			return nil, nil, err
		}
		pages[n] = info
		if len(pageFields[n]) > 0 || opts.Footer != nil || hasMarkerAnnots(info) {
			touched[n] = true
		}
	}

	if len(touched) == 0 {
		return raw, report, nil
	}

	var textFontID, checkFontID uint32
	imageCount := 0

	pageNumbers := make([]int, 0, len(touched))
	for n := range touched {
		pageNumbers = append(pageNumbers, n)
	}
	sort.Ints(pageNumbers)

	for _, n := range pageNumbers {
		info := pages[n]
		update := pageUpdate{fonts: map[string]uint32{}, images: map[string]uint32{}}

		var ops []byte
		for _, field := range pageFields[n] {
			rect := geom.Map(geom.NormRect{
				RelX:      field.RelX,
				RelY:      field.RelY,
				RelWidth:  field.RelWidth,
				RelHeight: field.RelHeight,
			}, info.size)

			value := *field.Value
			if field.Sensitive() && opts.Decrypt != nil {
				value, err = opts.Decrypt(value)
				if err != nil {
					s.log.Warn().Str("field_key", field.FieldKey).Err(err).Msg("field decryption failed, skipping")
					report.skip(field.FieldKey, err)
					continue
				}
			}

			switch field.Type {
			case models.FieldTypeText, models.FieldTypeConfirmText:
				box := typeset.Box{Width: rect.Width - 2*textPadding, Height: rect.Height - 2*textPadding}
				fit := typeset.Fit(value, box, s.face, s.maxFontSize, s.minFontSize)
				if fit.Overflow {
					s.log.Warn().Str("field_key", field.FieldKey).Msg("text overflows field box at minimum font size")
				}
				if textFontID == 0 {
					if textFontID, err = ctx.registerTextFont(); err != nil {
						return nil, nil, err
					}
				}
				update.fonts[textFontName] = textFontID
				ops = append(ops, textOps(fit, rect)...)

			case models.FieldTypeSignatureImage:
				data, decErr := base64.StdEncoding.DecodeString(value)
				if decErr != nil {
					s.log.Warn().Str("field_key", field.FieldKey).Err(decErr).Msg("signature image is not valid base64")
					report.skip(field.FieldKey, fmt.Errorf("%w: %v", ErrRenderDecode, decErr))
					continue
				}
				id, w, h, regErr := ctx.registerImage(data)
				if regErr != nil {
					if errors.Is(regErr, ErrRenderDecode) {
						s.log.Warn().Str("field_key", field.FieldKey).Err(regErr).Msg("signature image decode failed")
						report.skip(field.FieldKey, regErr)
						continue
					}
					return nil, nil, regErr
				}
				imageCount++
				name := fmt.Sprintf("SCim%d", imageCount)
				update.images[name] = id
				ops = append(ops, imageOps(rect, w, h, name)...)

			case models.FieldTypeCheckbox:
				checked, parseErr := strconv.ParseBool(value)
				if parseErr != nil {
					report.skip(field.FieldKey, fmt.Errorf("invalid checkbox value %q", value))
					continue
				}
				if checked {
					if checkFontID == 0 {
						if checkFontID, err = ctx.registerCheckFont(); err != nil {
							return nil, nil, err
						}
					}
					update.fonts[checkFontName] = checkFontID
					ops = append(ops, checkboxOps(rect)...)
				}

			default:
				report.skip(field.FieldKey, fmt.Errorf("unknown field type %q", field.Type))
				continue
			}

			report.Stamped = append(report.Stamped, field.FieldKey)
		}

		if opts.Footer != nil {
			if textFontID == 0 {
				if textFontID, err = ctx.registerTextFont(); err != nil {
					return nil, nil, err
				}
			}
			update.fonts[textFontName] = textFontID
			line := utils.FooterLine(opts.Footer.CompletedAt, opts.Footer.Serial)
			ops = append(ops, footerOps(line, info.size, s.face)...)
		}

		// The original streams run between a state save and restore so the
		// stamp operators always start from the default graphics state.
		if update.prependStream, err = ctx.addStream([]byte("q\n")); err != nil {
			return nil, nil, err
		}
		if update.appendStream, err = ctx.addStream(append([]byte("Q\n"), ops...)); err != nil {
			return nil, nil, err
		}

		if err := ctx.rewritePage(info, update); err != nil {
			return nil, nil, err
		}
	}

	if err := ctx.writeXrefTable(); err != nil {
		return nil, nil, err
	}
	if err := ctx.writeTrailer(); err != nil {
		return nil, nil, err
	}

	return ctx.bytes(), report, nil
}

func hasMarkerAnnots(info *pageInfo) bool {
	annots := info.value.Key("Annots")
	if annots.Kind() != pdf.Array {
		return false
	}
	for i := 0; i < annots.Len(); i++ {
		if strings.HasPrefix(annots.Index(i).Key("T").RawString(), markerTitlePrefix) {
			return true
		}
	}
	return false
}
