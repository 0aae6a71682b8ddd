package formatter

import (
	"fmt"
	"reflect"
	"testing"
)

// recordingPrinter returns a fixed rendering and records the options
// it was called with.
type recordingPrinter struct {
	out   string
	calls []PrintOptions
	terms []any
}

func (p *recordingPrinter) Print(v any, opts PrintOptions) string {
	p.calls = append(p.calls, opts)
	p.terms = append(p.terms, v)
	if p.out != "" {
		return p.out
	}
	return fmt.Sprintf("%v", v)
}

func TestRewrite_Passthrough(t *testing.T) {
	format := "user ~s logged in ~d times~n"
	args := []any{"alice", 3}

	gotFormat, gotArgs, err := Rewrite(format, args)
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	if gotFormat != format {
		t.Errorf("format = %q, want unchanged %q", gotFormat, format)
	}
	if !reflect.DeepEqual(gotArgs, args) {
		t.Errorf("args = %#v, want unchanged %#v", gotArgs, args)
	}
}

func TestRewrite_InspectBecomesString(t *testing.T) {
	pr := &recordingPrinter{}
	gotFormat, gotArgs, err := RewriteWith(pr, "value: ~p", []any{[]int{1, 2, 3}})
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	if gotFormat != "value: ~s" {
		t.Errorf("format = %q, want %q", gotFormat, "value: ~s")
	}
	if len(gotArgs) != 1 {
		t.Fatalf("args = %#v, want a single rendered string", gotArgs)
	}
	if _, ok := gotArgs[0].(string); !ok {
		t.Errorf("arg = %T, want string", gotArgs[0])
	}
	if len(pr.terms) != 1 || !reflect.DeepEqual(pr.terms[0], []int{1, 2, 3}) {
		t.Errorf("printer saw %#v", pr.terms)
	}
}

func TestRewrite_DepthLimitedConsumesLimitArg(t *testing.T) {
	pr := &recordingPrinter{out: "<term>"}
	gotFormat, gotArgs, err := RewriteWith(pr, "~P after", []any{map[string]int{"a": 1}, 2})
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	if gotFormat != "~s after" {
		t.Errorf("format = %q", gotFormat)
	}
	if !reflect.DeepEqual(gotArgs, []any{"<term>"}) {
		t.Errorf("args = %#v, want the rendered string only", gotArgs)
	}
	if len(pr.calls) != 1 || pr.calls[0].Depth != 2 {
		t.Errorf("printer options = %+v, want Depth 2", pr.calls)
	}
}

func TestRewrite_StarWidthFoldedIntoPrinter(t *testing.T) {
	pr := &recordingPrinter{out: "x"}
	gotFormat, gotArgs, err := RewriteWith(pr, "~*p", []any{40, "term"})
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	if gotFormat != "~s" {
		t.Errorf("format = %q", gotFormat)
	}
	if !reflect.DeepEqual(gotArgs, []any{"x"}) {
		t.Errorf("args = %#v", gotArgs)
	}
	if len(pr.calls) != 1 || pr.calls[0].Width != 40 {
		t.Errorf("printer options = %+v, want Width 40", pr.calls)
	}
}

func TestRewrite_StarPadOnInspectConsumed(t *testing.T) {
	pr := &recordingPrinter{out: "x"}
	gotFormat, gotArgs, err := RewriteWith(pr, "~..*p", []any{'0', "term"})
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	if gotFormat != "~s" {
		t.Errorf("format = %q", gotFormat)
	}
	if len(gotArgs) != 1 {
		t.Fatalf("args = %#v, pad argument must be consumed", gotArgs)
	}
	if len(pr.terms) != 1 || pr.terms[0] != "term" {
		t.Errorf("printer saw %#v, want the term after the pad arg", pr.terms)
	}
}

func TestRewrite_OrderingAroundUntouchedDirectives(t *testing.T) {
	pr := &recordingPrinter{out: "R"}
	gotFormat, gotArgs, err := RewriteWith(pr, "~s=~p (~d)", []any{"key", []int{1}, 7})
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	if gotFormat != "~s=~s (~d)" {
		t.Errorf("format = %q", gotFormat)
	}
	if !reflect.DeepEqual(gotArgs, []any{"key", "R", 7}) {
		t.Errorf("args = %#v, want order preserved", gotArgs)
	}
}

func TestRewrite_ArgCountInvariant(t *testing.T) {
	formats := []struct {
		format string
		args   []any
	}{
		{"~s ~d ~p ~P", []any{"a", 1, "t1", "t2", 5}},
		{"~n~~no args", nil},
		{"~*d", []any{8, 42}},
		{"~5..*d", []any{'0', 42}},
		{"~i~s", []any{"dropped", "kept"}},
	}
	for _, tc := range formats {
		gotFormat, gotArgs, err := Rewrite(tc.format, tc.args)
		if err != nil {
			t.Fatalf("Rewrite(%q) error = %v", tc.format, err)
		}
		want := 0
		for i := 0; i < len(gotFormat); {
			if gotFormat[i] != '~' {
				i++
				continue
			}
			d, next, err := parseDirective(gotFormat, i+1)
			if err != nil {
				t.Fatalf("rewritten format %q does not parse: %v", gotFormat, err)
			}
			want += d.ArgCount()
			i = next
		}
		if len(gotArgs) != want {
			t.Errorf("Rewrite(%q): %d args, directives consume %d", tc.format, len(gotArgs), want)
		}
	}
}

func TestRewrite_MalformedTrailingDirective(t *testing.T) {
	for _, format := range []string{"oops ~", "bad ~3", "bad ~3.", "bad ~q"} {
		if _, _, err := Rewrite(format, nil); err == nil {
			t.Errorf("Rewrite(%q): expected error", format)
		}
	}
}

func TestRewrite_NotEnoughArguments(t *testing.T) {
	if _, _, err := Rewrite("~s ~s", []any{"only one"}); err == nil {
		t.Error("expected error for missing argument")
	}
}

func TestParseDirective_Shapes(t *testing.T) {
	cases := []struct {
		in   string
		want Directive
	}{
		{"s", Directive{Control: 's'}},
		{"10s", Directive{Control: 's', Width: 10, HasWidth: true}},
		{"*s", Directive{Control: 's', HasWidth: true, WidthArg: true}},
		{"10.3s", Directive{Control: 's', Width: 10, HasWidth: true, Prec: 3, HasPrec: true}},
		{"10.3.0d", Directive{Control: 'd', Width: 10, HasWidth: true, Prec: 3, HasPrec: true, Pad: '0', HasPad: true}},
		{"10.3.*d", Directive{Control: 'd', Width: 10, HasWidth: true, Prec: 3, HasPrec: true, HasPad: true, PadArg: true}},
		{"5..*d", Directive{Control: 'd', Width: 5, HasWidth: true, HasPad: true, PadArg: true}},
		{"tp", Directive{Control: 'p', Flag: 't'}},
		{"lw", Directive{Control: 'w', Flag: 'l'}},
		{".2f", Directive{Control: 'f', Prec: 2, HasPrec: true}},
	}
	for _, tc := range cases {
		d, next, err := parseDirective(tc.in, 0)
		if err != nil {
			t.Errorf("parseDirective(%q) error = %v", tc.in, err)
			continue
		}
		if next != len(tc.in) {
			t.Errorf("parseDirective(%q) stopped at %d", tc.in, next)
		}
		if d != tc.want {
			t.Errorf("parseDirective(%q) = %+v, want %+v", tc.in, d, tc.want)
		}
	}
}

func TestDirectiveArgCount(t *testing.T) {
	cases := map[string]int{
		"s":       1,
		"n":       0,
		"~":       0,
		"P":       2,
		"W":       2,
		"*s":      2,
		"*.*d":    3,
		"*.*.*d":  4,
		"5..*s":   2,
		"10.3.0d": 1,
	}
	for in, want := range cases {
		d, _, err := parseDirective(in, 0)
		if err != nil {
			t.Fatalf("parseDirective(%q) error = %v", in, err)
		}
		if got := d.ArgCount(); got != want {
			t.Errorf("ArgCount(%q) = %d, want %d", in, got, want)
		}
	}
}
