package xcf

import (
	"strings"

	"github.com/gimpxcf/xcfcore/internal/binreader"
)

// parsePropertyList reads a sequence of (tag, length, payload) records until
// the END property (tag 0), per spec §4.3. It checks no per-tag payload
// length: every payload is consumed as exactly length opaque bytes and
// retained verbatim, preserving forward compatibility with unknown tags.
// The accessors that later interpret a payload read only what they need: a
// u32 field with fewer than 4 bytes decodes as 0, and an OFFSETS payload
// shorter than 8 bytes is ignored.
func parsePropertyList(r *binreader.Reader) ([]Property, error) {
	var props []Property
	for {
		tagRaw, err := r.ReadU32BE()
		if err != nil {
			return nil, wrapErr(KindUnexpectedEOF, "reading property tag", err)
		}
		tag := PropertyTag(tagRaw)
		if tag == PropEnd {
			// A well-formed END carries a zero length word, which is consumed
			// here. An END tag with no length word is also accepted when the
			// next word is nonzero; a following zero word is always taken as
			// END's length.
			if n, err := r.PeekU32BE(); err == nil && n == 0 {
				_, _ = r.ReadU32BE()
			}
			return props, nil
		}

		length, err := r.ReadU32BE()
		if err != nil {
			return nil, wrapErr(KindUnexpectedEOF, "reading property length", err)
		}
		payload, err := r.ReadBytes(int(length))
		if err != nil {
			return nil, wrapErr(KindUnexpectedEOF, "reading property payload", err)
		}
		props = append(props, Property{Tag: tag, Payload: payload})
	}
}

// parseParasites decodes the PARASITES property's sub-format: a stream of
// (name_length, NUL-terminated name, flags, payload_length, payload) items
// until the outer blob ends.
func parseParasites(blob []byte) ([]Parasite, error) {
	r := binreader.New(blob)
	var out []Parasite
	for r.Remaining() > 0 {
		nameLen, err := r.ReadU32BE()
		if err != nil {
			return nil, wrapErr(KindMalformed, "reading parasite name length", err)
		}
		nameRaw, err := r.ReadBytes(int(nameLen))
		if err != nil {
			return nil, wrapErr(KindMalformed, "reading parasite name", err)
		}
		name := strings.TrimRight(string(nameRaw), "\x00")

		flags, err := r.ReadU32BE()
		if err != nil {
			return nil, wrapErr(KindMalformed, "reading parasite flags", err)
		}
		payloadLen, err := r.ReadU32BE()
		if err != nil {
			return nil, wrapErr(KindMalformed, "reading parasite payload length", err)
		}
		payload, err := r.ReadBytes(int(payloadLen))
		if err != nil {
			return nil, wrapErr(KindMalformed, "reading parasite payload", err)
		}
		out = append(out, Parasite{Name: name, Flags: flags, Payload: payload})
	}
	return out, nil
}

// parseTextLayerAttrs interprets a "gimp-text-layer" parasite payload: a
// NUL-terminated ASCII string of Lisp-like "(key value ...)" groups. Each
// group is split on ASCII space; the first token is the key, the remaining
// tokens rejoined (with spaces) are the value, with surrounding double
// quotes stripped.
func parseTextLayerAttrs(payload []byte) map[string]string {
	s := strings.TrimRight(string(payload), "\x00")
	attrs := make(map[string]string)

	depth := 0
	start := -1
	for i, c := range s {
		switch c {
		case '(':
			if depth == 0 {
				start = i + 1
			}
			depth++
		case ')':
			depth--
			if depth == 0 && start >= 0 {
				group := s[start:i]
				if key, value, ok := splitTextLayerGroup(group); ok {
					attrs[key] = value
				}
				start = -1
			}
		}
	}
	return attrs
}

func splitTextLayerGroup(group string) (key, value string, ok bool) {
	fields := strings.Fields(group)
	if len(fields) == 0 {
		return "", "", false
	}
	key = fields[0]
	value = strings.TrimSpace(strings.TrimPrefix(group, key))
	value = strings.Trim(value, "\"")
	return key, value, true
}
