package core

import "unicode/utf8"

// TruncatedMarker is the literal suffix appended when flattening a
// Truncated node.
const TruncatedMarker = " (truncated)"

// CharData is recursively nested textual data: a flat byte string, a
// single codepoint, an ordered sequence, or a deferred producer.
// Values are read-only once constructed.
type CharData interface {
	isCharData()
}

// Text is a flat string leaf.
type Text string

// Rune is a single codepoint leaf. Its byte weight is the UTF-8
// encoded width of the codepoint.
type Rune rune

// List is an ordered sequence of CharData.
type List []CharData

// Thunk is a deferred producer of CharData. The pipeline always forces
// thunks before truncation; a thunk may therefore be invoked more than
// once along a single event's path and must be side-effect free.
type Thunk func() CharData

// Truncated marks data cut by formatter.Truncate. Prefix holds the
// kept text; flattening appends TruncatedMarker after it. ByteLen
// counts only the prefix, so a Truncated value that fit its limit once
// keeps fitting it.
type Truncated struct {
	Prefix CharData
}

func (Text) isCharData()      {}
func (Rune) isCharData()      {}
func (List) isCharData()      {}
func (Thunk) isCharData()     {}
func (Truncated) isCharData() {}

// RuneWidth returns the UTF-8 encoded width of r. Invalid codepoints
// weigh as the replacement character, matching what Append emits.
func RuneWidth(r rune) int {
	if n := utf8.RuneLen(r); n > 0 {
		return n
	}
	return utf8.RuneLen(utf8.RuneError)
}

// ByteLen returns the UTF-8 byte length of d, forcing thunks. The
// marker of a Truncated node is not counted.
func ByteLen(d CharData) int {
	switch v := d.(type) {
	case nil:
		return 0
	case Text:
		return len(v)
	case Rune:
		return RuneWidth(rune(v))
	case List:
		n := 0
		for _, e := range v {
			n += ByteLen(e)
		}
		return n
	case Thunk:
		if v == nil {
			return 0
		}
		return ByteLen(v())
	case Truncated:
		return ByteLen(v.Prefix)
	}
	return 0
}

// Append flattens d onto dst, forcing thunks.
func Append(dst []byte, d CharData) []byte {
	switch v := d.(type) {
	case nil:
	case Text:
		dst = append(dst, v...)
	case Rune:
		dst = utf8.AppendRune(dst, rune(v))
	case List:
		for _, e := range v {
			dst = Append(dst, e)
		}
	case Thunk:
		if v != nil {
			dst = Append(dst, v())
		}
	case Truncated:
		dst = Append(dst, v.Prefix)
		dst = append(dst, TruncatedMarker...)
	}
	return dst
}

// Flatten returns d as a plain string.
func Flatten(d CharData) string {
	if t, ok := d.(Text); ok {
		return string(t)
	}
	return string(Append(nil, d))
}
