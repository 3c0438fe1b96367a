// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package pdfstamp

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/digitorus/pdf"

	"github.com/veridoc/signcore/internal/geom"
)

// markerTitlePrefix marks layout-preview widget annotations left behind by
// the authoring tool. They exist only to show designers where blanks sit and
// must not survive into a rendered document.
const markerTitlePrefix = "vdoc-field:"

// pageInfo carries one resolved page: its dictionary value, its object
// number, and its absolute media box size.
type pageInfo struct {
	value pdf.Value
	id    uint32
	gen   uint16
	size  geom.PageSize
}

func (c *stampContext) page(number int) (*pageInfo, error) {
	if number < 1 || number > c.reader.NumPage() {
		return nil, fmt.Errorf("%w: page %d of %d", ErrInvalidFieldPage, number, c.reader.NumPage())
	}

	node, err := findPage(c.reader.Trailer().Key("Root").Key("Pages"), number)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentLoad, err)
	}

	ptr := node.GetPtr()
	info := &pageInfo{
		value: node,
		id:    ptr.GetID(),
		gen:   ptr.GetGen(),
		size:  geom.PageSize{Width: geom.RefPageWidth, Height: geom.RefPageHeight},
	}

	if mb := inherited(node, "MediaBox"); mb.Kind() == pdf.Array && mb.Len() >= 4 {
		info.size.Width = mb.Index(2).Float64() - mb.Index(0).Float64()
		info.size.Height = mb.Index(3).Float64() - mb.Index(1).Float64()
	}

	return info, nil
}

// findPage walks the page tree counting leaves until it reaches the 1-based
// target number.
func findPage(node pdf.Value, number int) (pdf.Value, error) {
	page, remaining, err := findPageRec(node, number)
	if err != nil {
		return pdf.Value{}, err
	}
	if remaining != 0 {
		return pdf.Value{}, fmt.Errorf("page %d not found", number)
	}
	return page, nil
}

func findPageRec(node pdf.Value, remaining int) (pdf.Value, int, error) {
	switch node.Key("Type").Name() {
	case "Page":
		if remaining == 1 {
			return node, 0, nil
		}
		return pdf.Value{}, remaining - 1, nil
	case "Pages":
		kids := node.Key("Kids")
		for i := 0; i < kids.Len(); i++ {
			page, left, err := findPageRec(kids.Index(i), remaining)
			if err != nil {
				return pdf.Value{}, 0, err
			}
			if left == 0 {
				return page, 0, nil
			}
			remaining = left
		}
		return pdf.Value{}, remaining, nil
	}
	return pdf.Value{}, 0, fmt.Errorf("unexpected page tree node %q", node.Key("Type").Name())
}

// inherited resolves a page attribute that may live on an ancestor Pages
// node. The walk is bounded in case of a malformed parent cycle.
func inherited(page pdf.Value, key string) pdf.Value {
	node := page
	for depth := 0; depth < 32; depth++ {
		if v := node.Key(key); !v.IsNull() {
			return v
		}
		node = node.Key("Parent")
		if node.IsNull() {
			break
		}
	}
	return pdf.Value{}
}

// pageUpdate describes how one page object is rewritten: content streams to
// splice around the original ones and resources to merge in.
type pageUpdate struct {
	prependStream uint32
	appendStream  uint32
	fonts         map[string]uint32
	images        map[string]uint32
}

// rewritePage re-emits the page dictionary with the update applied: the
// original content streams are sandwiched between a graphics-state save and
// the stamp operators, stamp resources are merged in, and layout-preview
// marker annotations are dropped.
func (c *stampContext) rewritePage(page *pageInfo, update pageUpdate) error {
	var buf bytes.Buffer
	buf.WriteString("<<\n")

	seenResources := false
	for _, key := range page.value.Keys() {
		switch key {
		case "Contents":
			fmt.Fprintf(&buf, "  /Contents %s\n", c.spliceContents(page, update))
		case "Resources":
			seenResources = true
			fmt.Fprintf(&buf, "  /Resources %s\n", mergeResources(page.value.Key("Resources"), page.id, update))
		case "Annots":
			if annots := filterAnnots(page.value.Key("Annots"), page.id); annots != "" {
				fmt.Fprintf(&buf, "  /Annots %s\n", annots)
			}
		default:
			fmt.Fprintf(&buf, "  /%s %s\n", key, serializeValue(page.value.Key(key), page.id))
		}
	}

	// Pages without their own Resources inherit them; the merged dictionary
	// has to land on the page itself to stay a pure incremental update.
	if !seenResources {
		fmt.Fprintf(&buf, "  /Resources %s\n", mergeResources(inherited(page.value, "Resources"), page.id, update))
	}

	buf.WriteString(">>")
	return c.updateObject(page.id, buf.Bytes())
}

// spliceContents builds the new Contents array: save-state stream, original
// streams in order, stamp stream.
func (c *stampContext) spliceContents(page *pageInfo, update pageUpdate) string {
	var refs []string
	refs = append(refs, fmt.Sprintf("%d 0 R", update.prependStream))

	contents := page.value.Key("Contents")
	switch contents.Kind() {
	case pdf.Array:
		for i := 0; i < contents.Len(); i++ {
			ptr := contents.Index(i).GetPtr()
			refs = append(refs, fmt.Sprintf("%d %d R", ptr.GetID(), ptr.GetGen()))
		}
	case pdf.Stream:
		ptr := contents.GetPtr()
		refs = append(refs, fmt.Sprintf("%d %d R", ptr.GetID(), ptr.GetGen()))
	}

	refs = append(refs, fmt.Sprintf("%d 0 R", update.appendStream))
	return "[ " + strings.Join(refs, " ") + " ]"
}

// mergeResources re-emits the page's resource dictionary with the stamp's
// fonts and image XObjects added under fresh names.
func mergeResources(resources pdf.Value, pageID uint32, update pageUpdate) string {
	parentID := pageID
	if ptr := resources.GetPtr(); ptr.GetID() != 0 {
		parentID = ptr.GetID()
	}

	var buf bytes.Buffer
	buf.WriteString("<< ")

	for _, key := range resources.Keys() {
		switch key {
		case "Font":
			fmt.Fprintf(&buf, "/Font %s ", mergeResourceClass(resources.Key("Font"), parentID, update.fonts))
		case "XObject":
			fmt.Fprintf(&buf, "/XObject %s ", mergeResourceClass(resources.Key("XObject"), parentID, update.images))
		default:
			fmt.Fprintf(&buf, "/%s %s ", key, serializeValue(resources.Key(key), parentID))
		}
	}

	if !hasKey(resources, "Font") && len(update.fonts) > 0 {
		fmt.Fprintf(&buf, "/Font %s ", mergeResourceClass(pdf.Value{}, parentID, update.fonts))
	}
	if !hasKey(resources, "XObject") && len(update.images) > 0 {
		fmt.Fprintf(&buf, "/XObject %s ", mergeResourceClass(pdf.Value{}, parentID, update.images))
	}

	buf.WriteString(">>")
	return buf.String()
}

// mergeResourceClass re-emits one resource sub-dictionary (Font, XObject)
// with extra name-to-object entries appended. Stamp resource names carry an
// "SC" prefix to stay clear of the document's own names.
func mergeResourceClass(class pdf.Value, parentID uint32, extra map[string]uint32) string {
	if ptr := class.GetPtr(); ptr.GetID() != 0 && ptr.GetID() != parentID {
		parentID = ptr.GetID()
	}

	var buf bytes.Buffer
	buf.WriteString("<< ")
	if class.Kind() == pdf.Dict {
		for _, key := range class.Keys() {
			fmt.Fprintf(&buf, "/%s %s ", key, serializeValue(class.Key(key), parentID))
		}
	}
	for _, name := range sortedKeys(extra) {
		fmt.Fprintf(&buf, "/%s %d 0 R ", name, extra[name])
	}
	buf.WriteString(">>")
	return buf.String()
}

// filterAnnots re-emits the page's annotation array without layout-preview
// markers. Returns "" when nothing survives so the key can be dropped.
func filterAnnots(annots pdf.Value, pageID uint32) string {
	if annots.Kind() != pdf.Array {
		return ""
	}

	var refs []string
	for i := 0; i < annots.Len(); i++ {
		annot := annots.Index(i)
		if strings.HasPrefix(annot.Key("T").RawString(), markerTitlePrefix) {
			continue
		}
		ptr := annot.GetPtr()
		if ptr.GetID() != 0 && ptr.GetID() != pageID {
			refs = append(refs, fmt.Sprintf("%d %d R", ptr.GetID(), ptr.GetGen()))
		} else {
			refs = append(refs, serializeValue(annot, pageID))
		}
	}

	if len(refs) == 0 {
		return ""
	}
	return "[ " + strings.Join(refs, " ") + " ]"
}

// serializeValue re-emits a parsed value in PDF syntax. Values resolved
// through an indirect reference come back as "N G R"; direct values are
// re-emitted inline. A direct value shares its containing object's number,
// which is how the two cases are told apart.
func serializeValue(v pdf.Value, parentID uint32) string {
	if ptr := v.GetPtr(); ptr.GetID() != 0 && ptr.GetID() != parentID {
		return fmt.Sprintf("%d %d R", ptr.GetID(), ptr.GetGen())
	}

	switch v.Kind() {
	case pdf.Bool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case pdf.Integer:
		return strconv.FormatInt(v.Int64(), 10)
	case pdf.Real:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case pdf.String:
		return pdfString(v.RawString())
	case pdf.Name:
		return "/" + v.Name()
	case pdf.Array:
		parts := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			parts = append(parts, serializeValue(v.Index(i), parentID))
		}
		return "[ " + strings.Join(parts, " ") + " ]"
	case pdf.Dict:
		var buf bytes.Buffer
		buf.WriteString("<< ")
		for _, key := range v.Keys() {
			fmt.Fprintf(&buf, "/%s %s ", key, serializeValue(v.Key(key), parentID))
		}
		buf.WriteString(">>")
		return buf.String()
	}
	return "null"
}

func hasKey(v pdf.Value, key string) bool {
	for _, k := range v.Keys() {
		if k == key {
			return true
		}
	}
	return false
}
