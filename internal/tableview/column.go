package tableview

import (
	"fmt"
	"strconv"
)

// Placeholder is shown for cells whose value is null or missing.
const Placeholder = "—"

// Tone selects the colour a fragment is drawn with.
type Tone int

const (
	ToneDefault Tone = iota
	ToneMuted
	ToneAccent
	ToneSuccess
	ToneWarning
	ToneDanger
)

// String returns the string representation of a Tone.
func (t Tone) String() string {
	switch t {
	case ToneDefault:
		return "default"
	case ToneMuted:
		return "muted"
	case ToneAccent:
		return "accent"
	case ToneSuccess:
		return "success"
	case ToneWarning:
		return "warning"
	case ToneDanger:
		return "danger"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Fragment is the display form of one cell.
type Fragment struct {
	Text string
	Tone Tone
}

// Text returns a default-toned fragment.
func Text(s string) Fragment {
	return Fragment{Text: s}
}

// Renderer formats a resolved cell value. Implementations must be pure.
type Renderer interface {
	Render(value any, row Row) Fragment
}

// RenderFunc adapts a function to the Renderer interface.
type RenderFunc func(value any, row Row) Fragment

// Render implements Renderer.
func (f RenderFunc) Render(value any, row Row) Fragment {
	return f(value, row)
}

// Column describes one displayed field.
type Column struct {
	// Key is the dotted path of the field, e.g. "company.name".
	Key   string
	Title string
	// Sortable columns can become the active sort key.
	Sortable bool
	// Render is optional; nil shows the raw value.
	Render Renderer
}

// Cell produces the fragment for this column of row.
func (c Column) Cell(row Row) Fragment {
	v, ok := Resolve(c.Key, row)
	if c.Render != nil {
		if !ok {
			v = nil
		}
		return c.Render.Render(v, row)
	}
	if isNull(v, ok) {
		return Fragment{Text: Placeholder, Tone: ToneMuted}
	}
	return Text(formatRaw(v))
}

// formatRaw converts a raw value to its display string.
func formatRaw(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Badge renders values through a fixed value->tone table, with the raw
// value as the label. Unknown values use ToneDefault.
func Badge(tones map[string]Tone) Renderer {
	return RenderFunc(func(value any, _ Row) Fragment {
		if isNull(value, true) {
			return Fragment{Text: Placeholder, Tone: ToneMuted}
		}
		s := formatRaw(value)
		return Fragment{Text: s, Tone: tones[s]}
	})
}
