package formatter

import (
	"strings"

	"github.com/pkg/errors"
)

// Rewrite scans format left to right and replaces every
// inspect-family directive (~p, ~w, ~P, ~W) with a plain ~s whose
// argument is the pretty-printed rendering of the consumed term. All
// other directives pass through verbatim, together with exactly the
// arguments they consume, so the returned format and argument list
// stay aligned with the original ordering.
//
// The depth-limited forms ~P and ~W additionally consume the limit
// argument immediately following their term and fold it into the
// printer's depth bound. A *-width on an inspect directive is likewise
// consumed and folded into the printer's width.
func Rewrite(format string, args []any) (string, []any, error) {
	return RewriteWith(DefaultPrinter, format, args)
}

// RewriteWith is Rewrite with an explicit printer collaborator.
func RewriteWith(pr Printer, format string, args []any) (string, []any, error) {
	var out strings.Builder
	out.Grow(len(format))
	rewritten := make([]any, 0, len(args))
	ai := 0

	for i := 0; i < len(format); {
		c := format[i]
		if c != '~' {
			out.WriteByte(c)
			i++
			continue
		}
		start := i
		d, next, err := parseDirective(format, i+1)
		if err != nil {
			return "", nil, err
		}
		i = next

		if !d.Inspect() {
			out.WriteString(format[start:i])
			for k := 0; k < d.ArgCount(); k++ {
				arg, err := takeArg(format, args, &ai)
				if err != nil {
					return "", nil, err
				}
				rewritten = append(rewritten, arg)
			}
			continue
		}

		opts := PrintOptions{}
		if d.WidthArg {
			w, err := takeIntArg(format, args, &ai)
			if err != nil {
				return "", nil, err
			}
			opts.Width = w
		} else if d.HasWidth {
			opts.Width = d.Width
		}
		if d.PrecArg {
			if _, err := takeIntArg(format, args, &ai); err != nil {
				return "", nil, err
			}
		}
		if d.PadArg {
			// padding has no meaning for a pretty-printed splice;
			// consume the argument to keep the list aligned
			if _, err := takeArg(format, args, &ai); err != nil {
				return "", nil, err
			}
		}
		term, err := takeArg(format, args, &ai)
		if err != nil {
			return "", nil, err
		}
		if d.Control == 'P' || d.Control == 'W' {
			depth, err := takeIntArg(format, args, &ai)
			if err != nil {
				return "", nil, err
			}
			opts.Depth = depth
		}

		out.WriteString("~s")
		rewritten = append(rewritten, pr.Print(term, opts))
	}

	return out.String(), rewritten, nil
}

func takeArg(format string, args []any, ai *int) (any, error) {
	if *ai >= len(args) {
		return nil, errors.Errorf("format %q: not enough arguments (have %d)", format, len(args))
	}
	arg := args[*ai]
	*ai++
	return arg, nil
}

func takeIntArg(format string, args []any, ai *int) (int, error) {
	arg, err := takeArg(format, args, ai)
	if err != nil {
		return 0, err
	}
	n, ok := asInt(arg)
	if !ok {
		return 0, errors.Errorf("format %q: argument %d: expected integer, got %T", format, *ai, arg)
	}
	return int(n), nil
}
