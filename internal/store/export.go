package store

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/irdeck/internal/errors"
)

// Export formats. "c" renders source-level constants ready to paste into
// firmware; "markdown" and "html" render a readable table.
const (
	FormatC        = "c"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Formats lists the supported export formats in documentation order.
func Formats() []string {
	return []string{FormatC, FormatMarkdown, FormatHTML}
}

// Render serializes entries in the requested format.
func Render(entries []Entry, format string, now time.Time) (string, error) {
	switch format {
	case "", FormatC:
		return renderC(entries, now), nil
	case FormatMarkdown:
		return renderMarkdown(entries, now), nil
	case FormatHTML:
		md := renderMarkdown(entries, now)
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(md), &buf); err != nil {
			return "", errors.NewInternal(err)
		}
		return buf.String(), nil
	default:
		return "", errors.NewInvalidRequest(fmt.Sprintf("unknown export format %q (supported: %s)",
			format, strings.Join(Formats(), ", ")))
	}
}

// renderC emits one #define per protocol code and one pulse array per
// raw recording. Names are uppercased and non-identifier bytes mapped to
// underscores; collisions after mapping get a numeric suffix.
func renderC(entries []Entry, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Learned IR codes, exported %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "// %d code(s)\n\n", len(entries))

	seen := map[string]int{}
	for _, e := range entries {
		ident := cIdentifier(e.Name, seen)
		if e.Command.IsRaw() {
			fmt.Fprintf(&b, "// %s: raw recording, %d pulses\n", e.Name, len(e.Command.Pulses))
			fmt.Fprintf(&b, "static const uint32_t %s[] = {", ident)
			for i, p := range e.Command.Pulses {
				if i > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "%d", p)
			}
			b.WriteString("};\n\n")
			continue
		}
		fmt.Fprintf(&b, "// %s: %s, %d bits\n", e.Name, e.Command.Protocol, e.Command.Bits)
		fmt.Fprintf(&b, "#define %s 0x%X\n\n", ident, e.Command.Value)
	}
	return b.String()
}

func renderMarkdown(entries []Entry, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Learned IR codes\n\n")
	fmt.Fprintf(&b, "Exported %s. %d code(s).\n\n", now.Format("2006-01-02 15:04:05"), len(entries))
	b.WriteString("| Name | Protocol | Value | Bits | Pulses |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, e := range entries {
		if e.Command.IsRaw() {
			fmt.Fprintf(&b, "| %s | raw | | | %d |\n", e.Name, len(e.Command.Pulses))
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | 0x%X | %d | |\n",
			e.Name, e.Command.Protocol, e.Command.Value, e.Command.Bits)
	}
	return b.String()
}

// cIdentifier maps a stored name to a valid C identifier, uppercased,
// prefixed when it would start with a digit, deduplicated with _2, _3...
func cIdentifier(name string, seen map[string]int) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	ident := b.String()
	if ident == "" {
		ident = "CODE"
	}
	if ident[0] >= '0' && ident[0] <= '9' {
		ident = "IR_" + ident
	}
	seen[ident]++
	if n := seen[ident]; n > 1 {
		return fmt.Sprintf("%s_%d", ident, n)
	}
	return ident
}
