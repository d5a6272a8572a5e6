// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notes

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"strings"

	"google.golang.org/protobuf/encoding/protowire"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Field numbers of the note document stored in ZICNOTEBODY.ZDATA once it
// has been gunzipped: document(2) -> note(3) -> note_text(2).
const (
	fieldDocument protowire.Number = 2
	fieldNote     protowire.Number = 3
	fieldNoteText protowire.Number = 2
)

// maxBodySize bounds the decompressed size of a single note body.
const maxBodySize = 64 << 20

var errNoNoteText = errors.New("no note text in document")

// decodeBody turns the raw ZDATA blob into plain text. Compressed
// documents are unpacked and their text field returned; anything else is
// read as markup-bearing UTF-8 and cleaned. Only the compressed path can
// fail.
func decodeBody(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if !bytes.HasPrefix(data, gzipMagic) {
		return CleanMarkup(strings.ToValidUTF8(string(data), "")), nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("opening compressed body: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(io.LimitReader(zr, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("decompressing body: %w", err)
	}

	text, err := noteText(raw)
	if err != nil {
		return "", err
	}
	return normalizeWhitespace(strings.ToValidUTF8(text, "")), nil
}

// noteText walks the document message down to the note text string.
func noteText(doc []byte) (string, error) {
	document, err := findField(doc, fieldDocument)
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	note, err := findField(document, fieldNote)
	if err != nil {
		return "", fmt.Errorf("reading note: %w", err)
	}
	text, err := findField(note, fieldNoteText)
	if err != nil {
		return "", fmt.Errorf("reading note text: %w", err)
	}
	return string(text), nil
}

// findField returns the payload of the first length-delimited field num
// in msg.
func findField(msg []byte, num protowire.Number) ([]byte, error) {
	for len(msg) > 0 {
		n, typ, tagLen := protowire.ConsumeTag(msg)
		if tagLen < 0 {
			return nil, protowire.ParseError(tagLen)
		}
		msg = msg[tagLen:]

		if n == num && typ == protowire.BytesType {
			v, vLen := protowire.ConsumeBytes(msg)
			if vLen < 0 {
				return nil, protowire.ParseError(vLen)
			}
			return v, nil
		}

		vLen := protowire.ConsumeFieldValue(n, typ, msg)
		if vLen < 0 {
			return nil, protowire.ParseError(vLen)
		}
		msg = msg[vLen:]
	}
	return nil, errNoNoteText
}
