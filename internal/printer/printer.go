package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/tidwall/pretty"
	"go.mongodb.org/mongo-driver/bson"
)

var prettyOpts = &pretty.Options{Width: 80, Prefix: "", Indent: "  ", SortKeys: false}

// Printer writes report lines. Colour is only emitted when enabled.
type Printer struct {
	w       io.Writer
	colored bool

	heading *color.Color
	info    *color.Color
	success *color.Color
	failure *color.Color
}

// New returns a Printer that colours output unless colour is globally
// disabled (non-TTY stdout, NO_COLOR).
func New(w io.Writer) *Printer {
	return NewWithColor(w, !color.NoColor)
}

func NewWithColor(w io.Writer, colored bool) *Printer {
	p := &Printer{
		w:       w,
		colored: colored,
		heading: color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.heading, p.info, p.success, p.failure} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) Writer() io.Writer { return p.w }

func (p *Printer) Println(a ...interface{}) {
	fmt.Fprintln(p.w, a...)
}

func (p *Printer) Printf(format string, a ...interface{}) {
	fmt.Fprintf(p.w, format, a...)
}

func (p *Printer) Heading(format string, a ...interface{}) {
	p.heading.Fprintf(p.w, format+"\n", a...)
}

func (p *Printer) Info(format string, a ...interface{}) {
	p.info.Fprintf(p.w, format+"\n", a...)
}

func (p *Printer) Success(format string, a ...interface{}) {
	p.success.Fprintf(p.w, format+"\n", a...)
}

func (p *Printer) Error(format string, a ...interface{}) {
	p.failure.Fprintf(p.w, format+"\n", a...)
}

// Line writes "label: value".
func (p *Printer) Line(label string, value interface{}) {
	fmt.Fprintf(p.w, "%s: %v\n", label, value)
}

// Document writes doc as indented relaxed extended JSON.
func (p *Printer) Document(doc interface{}) error {
	out, err := FormatDocument(doc, p.colored)
	if err != nil {
		return err
	}
	_, err = p.w.Write(out)
	return err
}

// FormatDocument renders doc the way the shell's printjson does: relaxed
// extended JSON, indented, keys in stored order.
func FormatDocument(doc interface{}, colored bool) ([]byte, error) {
	raw, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to format document: %w", err)
	}
	out := pretty.PrettyOptions(raw, prettyOpts)
	if colored {
		out = pretty.Color(out, nil)
	}
	return out, nil
}

// FormatValue renders a plain Go value as compact JSON, falling back to %v.
func FormatValue(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// Names renders collection names like the shell prints an array of strings.
func Names(names []string) string {
	if len(names) == 0 {
		return "[]"
	}
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return "[ " + strings.Join(quoted, ", ") + " ]"
}
