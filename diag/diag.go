// Package diag carries shadyc's error and warning reporting: the
// fatal diagnostic kinds of spec.md §7 (parse/binding/type/structural/
// lowering-precondition/unimplemented), plus a colorized CLI renderer
// grounded on kanso-lang/kanso's internal/errors.ErrorReporter.
//
// Every diag.Error is fatal per spec.md §7 ("all errors are fatal and
// abort compilation"); there is no local recovery, only recompilation.
// Warnings are informational and never abort a compilation.
package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Kind discriminates the fatal diagnostic kinds named in spec.md §7.
type Kind string

const (
	KindParse                Kind = "parse"
	KindBinding              Kind = "binding"
	KindType                 Kind = "type"
	KindStructural           Kind = "structural"
	KindLoweringPrecondition Kind = "lowering-precondition"
	KindUnimplemented        Kind = "unimplemented"
)

// Position is a source or node location a diagnostic attaches to.
// Line/Column are 1-based; both are zero when the diagnostic has no
// source position (e.g. one raised deep in the pipeline, over IR that
// carries no source offsets per spec.md's Non-goals).
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" && p.Line == 0 {
		return "<generated>"
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Error is a fatal compiler diagnostic. It implements the standard
// error interface, so it can be returned and wrapped with
// fmt.Errorf("...: %w", err) the way the rest of the codebase reports
// failure.
type Error struct {
	Kind    Kind
	Message string
	Pos     Position
	Node    string // name or tag of the offending IR node, if any
	Notes   []string
}

func (e *Error) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s error at %s (%s): %s", e.Kind, e.Pos, e.Node, e.Message)
	}
	return fmt.Sprintf("%s error at %s: %s", e.Kind, e.Pos, e.Message)
}

// New constructs a Kind-tagged fatal error.
func New(kind Kind, pos Position, node, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos, Node: node}
}

// Unimplemented constructs the "TODO" fatal error of spec.md §7 for a
// construct the pipeline has not yet handled.
func Unimplemented(pos Position, construct string) *Error {
	return &Error{
		Kind:    KindUnimplemented,
		Message: fmt.Sprintf("TODO: %s not yet handled", construct),
		Pos:     pos,
	}
}

// LoweringPrecondition constructs the emitter's "should have been
// lowered before" fatal error (spec.md §7, §4.G preconditions).
func LoweringPrecondition(pos Position, node, what string) *Error {
	return &Error{
		Kind:    KindLoweringPrecondition,
		Message: fmt.Sprintf("%s should have been lowered before SPIR-V emission", what),
		Pos:     pos,
		Node:    node,
	}
}

// Warning is informational and never aborts compilation (spec.md §7
// "Warnings are informational and written to the log sink").
type Warning struct {
	Message string
	Pos     Position
}

// Reporter renders diagnostics in a Rust-style `kind: message`
// format with a `-->` location line, colorized via fatih/color exactly
// as kanso's ErrorReporter does. Unlike kanso's reporter it has no
// source text to quote (IR carries no source offsets, spec.md §1
// Non-goals), so it renders the node/position summary only.
type Reporter struct {
	out           *strings.Builder
	SkipInternal  bool // mirrors pipeline.Config.Logging.SkipInternal
	SkipGenerated bool // mirrors pipeline.Config.Logging.SkipGenerated
}

// NewReporter creates an empty Reporter.
func NewReporter() *Reporter {
	return &Reporter{out: &strings.Builder{}}
}

// ReportError appends a colorized rendering of err.
func (r *Reporter) ReportError(err *Error) {
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()

	fmt.Fprintf(r.out, "%s: %s\n", red(string(err.Kind)), bold(err.Message))
	fmt.Fprintf(r.out, "  %s %s\n", dim("-->"), err.Pos)
	if err.Node != "" {
		fmt.Fprintf(r.out, "  %s node: %s\n", dim("="), err.Node)
	}
	for _, n := range err.Notes {
		fmt.Fprintf(r.out, "  %s %s %s\n", dim("="), color.New(color.FgBlue).Sprint("note:"), n)
	}
	r.out.WriteString("\n")
}

// ReportWarning appends a colorized rendering of w. Every warning is
// rendered: SkipInternal/SkipGenerated are not consulted, and Warning
// carries no internal/generated marker to filter on.
func (r *Reporter) ReportWarning(w Warning) {
	yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(r.out, "%s: %s\n", yellow("warning"), w.Message)
	fmt.Fprintf(r.out, "  %s %s\n\n", dim("-->"), w.Pos)
}

// String returns every diagnostic rendered so far.
func (r *Reporter) String() string { return r.out.String() }
