package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/relogd/relog/core"
)

// Render applies a directive string to its arguments, producing the
// final message text. It understands the pass-through classes only;
// inspect directives must have been replaced by Rewrite first, and
// meeting one here is an error.
func Render(format string, args []any) (string, error) {
	buf := getBuffer()
	defer putBuffer(buf)
	ai := 0

	for i := 0; i < len(format); {
		c := format[i]
		if c != '~' {
			buf.WriteByte(c)
			i++
			continue
		}
		d, next, err := parseDirective(format, i+1)
		if err != nil {
			return "", err
		}
		i = next

		if d.Inspect() {
			return "", errors.Errorf("format %q: inspect directive ~%c not rewritten", format, d.Control)
		}
		if d.WidthArg {
			w, err := takeIntArg(format, args, &ai)
			if err != nil {
				return "", err
			}
			d.Width, d.HasWidth = w, true
		}
		if d.PrecArg {
			p, err := takeIntArg(format, args, &ai)
			if err != nil {
				return "", err
			}
			d.Prec, d.HasPrec = p, true
		}
		if d.PadArg {
			arg, err := takeArg(format, args, &ai)
			if err != nil {
				return "", err
			}
			r, ok := asRune(arg)
			if !ok {
				return "", errors.Errorf("format %q: argument %d: expected pad character, got %T", format, ai, arg)
			}
			d.Pad = r
		}

		switch d.Control {
		case 'n':
			buf.WriteByte('\n')
			continue
		case '~':
			buf.WriteByte('~')
			continue
		}

		arg, err := takeArg(format, args, &ai)
		if err != nil {
			return "", err
		}
		text, err := renderArg(d, arg)
		if err != nil {
			return "", errors.Wrapf(err, "format %q: argument %d", format, ai)
		}
		buf.WriteString(text)
	}

	return buf.String(), nil
}

func renderArg(d Directive, arg any) (string, error) {
	switch d.Control {
	case 's':
		s, ok := asString(arg)
		if !ok {
			return "", errors.Errorf("expected string data, got %T", arg)
		}
		if d.HasPrec && utf8.RuneCountInString(s) > d.Prec {
			s = string([]rune(s)[:d.Prec])
		}
		return padLeft(s, d), nil
	case 'c':
		r, ok := asRune(arg)
		if !ok {
			return "", errors.Errorf("expected character, got %T", arg)
		}
		// width repeats the character, per the char class
		n := 1
		if d.HasWidth {
			n = d.Width
		}
		return strings.Repeat(string(r), n), nil
	case 'd':
		n, ok := asInt(arg)
		if !ok {
			return "", errors.Errorf("expected integer, got %T", arg)
		}
		return padLeft(strconv.FormatInt(n, 10), d), nil
	case 'x':
		n, ok := asInt(arg)
		if !ok {
			return "", errors.Errorf("expected integer, got %T", arg)
		}
		return padLeft(strconv.FormatInt(n, 16), d), nil
	case 'f':
		f, ok := asFloat(arg)
		if !ok {
			return "", errors.Errorf("expected float, got %T", arg)
		}
		prec := 6
		if d.HasPrec {
			prec = d.Prec
		}
		return padLeft(strconv.FormatFloat(f, 'f', prec, 64), d), nil
	case 'i':
		// consume and ignore
		return "", nil
	}
	return "", errors.Errorf("unhandled control character %q", d.Control)
}

// padLeft right-justifies s in a field of the directive's width using
// its pad character (space when unset). Wider text is left alone.
func padLeft(s string, d Directive) string {
	if !d.HasWidth {
		return s
	}
	n := d.Width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	pad := " "
	if d.HasPad {
		pad = string(d.Pad)
	}
	return strings.Repeat(pad, n) + s
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	case core.CharData:
		return core.Flatten(s), true
	case fmt.Stringer:
		return s.String(), true
	case error:
		return s.Error(), true
	}
	return "", false
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float32:
		return float64(f), true
	case float64:
		return f, true
	}
	if n, ok := asInt(v); ok {
		return float64(n), true
	}
	return 0, false
}

func asRune(v any) (rune, bool) {
	switch r := v.(type) {
	case rune:
		return r, true
	case byte:
		return rune(r), true
	case string:
		if utf8.RuneCountInString(r) == 1 {
			c, _ := utf8.DecodeRuneInString(r)
			return c, true
		}
	case int:
		return rune(r), true
	}
	return 0, false
}
