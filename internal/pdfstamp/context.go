// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package pdfstamp

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/digitorus/pdf"
	"github.com/mattetti/filebuffer"
)

// xrefEntry tracks one object written by the incremental update: its object
// number and byte offset inside the output buffer.
type xrefEntry struct {
	ID     uint32
	Offset int64
}

// stampContext accumulates one incremental update over a parsed document:
// the original bytes verbatim, appended objects, rewritten page objects, and
// finally a cross-reference section chaining back to the previous one.
type stampContext struct {
	reader *pdf.Reader
	output *filebuffer.Buffer

	lastXrefID         uint32
	newXrefEntries     []xrefEntry
	updatedXrefEntries []xrefEntry
	newXrefStart       int64
}

func newStampContext(raw []byte) (*stampContext, error) {
	input := filebuffer.New(raw)
	reader, err := pdf.NewReader(input, int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentLoad, err)
	}
	if reader.XrefInformation.Type != "table" {
		return nil, fmt.Errorf("%w: unsupported xref type %q", ErrDocumentLoad, reader.XrefInformation.Type)
	}

	output := filebuffer.New(nil)
	if _, err := output.Write(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentSave, err)
	}
	// The update block must start on its own line after %%EOF.
	if _, err := output.Write([]byte("\n")); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentSave, err)
	}

	return &stampContext{
		reader:     reader,
		output:     output,
		lastXrefID: uint32(reader.XrefInformation.ItemCount) - 1,
	}, nil
}

// addObject appends obj to the output as the next free object number and
// returns that number.
func (c *stampContext) addObject(obj []byte) (uint32, error) {
	c.lastXrefID++
	id := c.lastXrefID

	c.newXrefEntries = append(c.newXrefEntries, xrefEntry{ID: id, Offset: int64(c.output.Buff.Len())})

	body := fmt.Sprintf("%d 0 obj\n%s\nendobj\n", id, bytes.TrimSpace(obj))
	if _, err := c.output.Write([]byte(body)); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDocumentSave, err)
	}
	return id, nil
}

// updateObject appends a replacement body for an object that already exists
// in the original document, keeping its number.
func (c *stampContext) updateObject(id uint32, obj []byte) error {
	c.updatedXrefEntries = append(c.updatedXrefEntries, xrefEntry{ID: id, Offset: int64(c.output.Buff.Len())})

	body := fmt.Sprintf("%d 0 obj\n%s\nendobj\n", id, bytes.TrimSpace(obj))
	if _, err := c.output.Write([]byte(body)); err != nil {
		return fmt.Errorf("%w: %v", ErrDocumentSave, err)
	}
	return nil
}

// addStream appends a content stream object wrapping ops.
func (c *stampContext) addStream(ops []byte) (uint32, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<< /Length %d >>\nstream\n", len(ops))
	buf.Write(ops)
	buf.WriteString("\nendstream")
	return c.addObject(buf.Bytes())
}

// writeXrefTable appends the incremental cross-reference section: one
// single-entry subsection per rewritten object, then one subsection covering
// the appended objects.
func (c *stampContext) writeXrefTable() error {
	c.newXrefStart = int64(c.output.Buff.Len())

	var buf bytes.Buffer
	buf.WriteString("xref\n")

	for _, entry := range c.updatedXrefEntries {
		fmt.Fprintf(&buf, "%d 1\n", entry.ID)
		fmt.Fprintf(&buf, "%010d 00000 n\r\n", entry.Offset)
	}

	if len(c.newXrefEntries) > 0 {
		fmt.Fprintf(&buf, "%d %d\n", c.newXrefEntries[0].ID, len(c.newXrefEntries))
		for _, entry := range c.newXrefEntries {
			fmt.Fprintf(&buf, "%010d 00000 n\r\n", entry.Offset)
		}
	}

	if _, err := c.output.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %v", ErrDocumentSave, err)
	}
	return nil
}

// writeTrailer appends a fresh trailer dictionary pointing back at the
// previous cross-reference section, then the startxref marker.
func (c *stampContext) writeTrailer() error {
	size := c.reader.XrefInformation.ItemCount + int64(len(c.newXrefEntries))

	var buf bytes.Buffer
	buf.WriteString("trailer\n<<\n")
	fmt.Fprintf(&buf, "  /Size %d\n", size)

	rootPtr := c.reader.Trailer().Key("Root").GetPtr()
	fmt.Fprintf(&buf, "  /Root %d %d R\n", rootPtr.GetID(), rootPtr.GetGen())

	if infoPtr := c.reader.Trailer().Key("Info").GetPtr(); infoPtr.GetID() != 0 {
		fmt.Fprintf(&buf, "  /Info %d %d R\n", infoPtr.GetID(), infoPtr.GetGen())
	}

	fmt.Fprintf(&buf, "  /Prev %d\n", c.reader.XrefInformation.StartPos)
	buf.WriteString(">>\nstartxref\n")
	buf.WriteString(strconv.FormatInt(c.newXrefStart, 10))
	buf.WriteString("\n%%EOF\n")

	if _, err := c.output.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %v", ErrDocumentSave, err)
	}
	return nil
}

func (c *stampContext) bytes() []byte {
	return c.output.Buff.Bytes()
}
