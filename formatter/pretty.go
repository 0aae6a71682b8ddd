package formatter

import (
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// PrintOptions bound a single pretty-print call. Zero values mean the
// printer's defaults.
type PrintOptions struct {
	// Width is the target rendering width in characters. Advisory; a
	// printer may ignore it.
	Width int
	// Depth bounds how deep nested structures are descended. The
	// depth-limited inspect directives (~P, ~W) set this from their
	// limit argument.
	Depth int
}

// Printer renders an arbitrary value to width-bounded text. The
// pipeline treats the printer as an external collaborator: the
// dispatcher and rewriter only call it, and tests substitute their
// own.
type Printer interface {
	Print(v any, opts PrintOptions) string
}

// DefaultPrinter is used wherever no explicit printer is configured.
var DefaultPrinter Printer = SpewPrinter{}

// SpewPrinter renders values with go-spew in a compact single-line
// style. Map keys are sorted so output is deterministic.
type SpewPrinter struct{}

// Print implements Printer.
func (SpewPrinter) Print(v any, opts PrintOptions) string {
	cfg := spew.ConfigState{
		Indent:                  " ",
		MaxDepth:                opts.Depth,
		SortKeys:                true,
		DisableMethods:          true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	return strings.TrimRight(cfg.Sprintf("%v", v), "\n")
}
