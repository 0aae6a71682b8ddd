package formatter

import "github.com/pkg/errors"

// Directive is one parsed control sequence from a format string. It is
// built during a single left-to-right scan and discarded after the
// scan's consumer (Rewrite or Render) has acted on it.
//
// The concrete syntax after the ~ marker is, in order: an optional
// width (a decimal run, or * to take it from the next argument), an
// optional precision introduced by a dot (digits or *), an optional
// pad character introduced by a second dot (a literal character or *),
// an optional encoding flag (t or l), and the mandatory control
// character.
type Directive struct {
	Control byte

	Width    int
	HasWidth bool
	WidthArg bool

	Prec    int
	HasPrec bool
	PrecArg bool

	Pad    rune
	HasPad bool
	PadArg bool

	// Flag is the encoding flag letter (t or l), 0 when absent.
	Flag byte
}

// ArgCount reports how many arguments the directive consumes,
// including a *-width, *-precision and *-pad.
func (d Directive) ArgCount() int {
	n := 0
	if d.WidthArg {
		n++
	}
	if d.PrecArg {
		n++
	}
	if d.PadArg {
		n++
	}
	switch d.Control {
	case 'n', '~':
		// literal-escape and newline classes take no data argument
	case 'P', 'W':
		n += 2
	default:
		n++
	}
	return n
}

// Inspect reports whether the directive belongs to the inspect family
// that Rewrite replaces with a rendered string.
func (d Directive) Inspect() bool {
	switch d.Control {
	case 'p', 'w', 'P', 'W':
		return true
	}
	return false
}

// parseDirective parses the directive whose ~ marker sits just before
// format[i]. It returns the directive and the index one past its
// control character. Incomplete or unknown directives are programming
// errors in the caller-supplied format string; there is no recovery.
func parseDirective(format string, i int) (Directive, int, error) {
	var d Directive

	if i < len(format) && format[i] == '*' {
		d.HasWidth, d.WidthArg = true, true
		i++
	} else {
		for i < len(format) && format[i] >= '0' && format[i] <= '9' {
			d.Width = d.Width*10 + int(format[i]-'0')
			d.HasWidth = true
			i++
		}
	}

	if i < len(format) && format[i] == '.' {
		i++
		if i < len(format) && format[i] == '*' {
			d.HasPrec, d.PrecArg = true, true
			i++
		} else {
			for i < len(format) && format[i] >= '0' && format[i] <= '9' {
				d.Prec = d.Prec*10 + int(format[i]-'0')
				d.HasPrec = true
				i++
			}
		}
		if i < len(format) && format[i] == '.' {
			i++
			if i >= len(format) {
				return d, i, errors.New("incomplete format directive: missing pad character")
			}
			if format[i] == '*' {
				d.HasPad, d.PadArg = true, true
			} else {
				d.Pad, d.HasPad = rune(format[i]), true
			}
			i++
		}
	}

	if i < len(format) && (format[i] == 't' || format[i] == 'l') {
		d.Flag = format[i]
		i++
	}

	if i >= len(format) {
		return d, i, errors.New("incomplete format directive: missing control character")
	}
	d.Control = format[i]
	i++

	switch d.Control {
	case 's', 'c', 'd', 'f', 'x', 'i', 'n', '~', 'p', 'w', 'P', 'W':
	default:
		return d, i, errors.Errorf("unknown format control character %q", d.Control)
	}
	return d, i, nil
}
