package tableview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Catppuccin Mocha, matching the console chrome.
var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8")).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f5c2e7")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("#313244"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	currentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f5c2e7")).Bold(true)
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c")).Italic(true)

	toneStyles = map[Tone]lipgloss.Style{
		ToneDefault: lipgloss.NewStyle().Foreground(lipgloss.Color("#cdd6f4")),
		ToneMuted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c")),
		ToneAccent:  lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")),
		ToneSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1")),
		ToneWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af")),
		ToneDanger:  lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")),
	}
)

const (
	minColumnWidth = 3
	columnGap      = "  "
	cursorWidth    = 2
)

// RenderOptions controls the text projection of a view.
type RenderOptions struct {
	// Width bounds each line; zero means unbounded.
	Width int
	// ShowCursor highlights the visible row at Cursor. The zero value
	// renders no cursor.
	ShowCursor bool
	// Cursor is the 0-based index of the highlighted visible row.
	Cursor int
	// NumberHeaders prefixes each title with its 1-based column number.
	NumberHeaders bool
}

// Render draws the header, the current page and the pagination footer.
// An empty collection draws a single row with the empty message and no
// footer.
func (v *View) Render(opts RenderOptions) string {
	page := v.Visible()

	titles := make([]string, len(v.columns))
	for i, c := range v.columns {
		titles[i] = v.headerTitle(i, c, opts.NumberHeaders)
	}
	cells := make([][]Fragment, len(page.Rows))
	for r, row := range page.Rows {
		cells[r] = make([]Fragment, len(v.columns))
		for i, c := range v.columns {
			cells[r][i] = c.Cell(row)
		}
	}
	widths := fitWidths(naturalWidths(titles, cells), opts.Width)

	header := make([]string, len(titles))
	for i, t := range titles {
		header[i] = pad(t, widths[i])
	}
	lines := []string{headerStyle.Render(strings.Repeat(" ", cursorWidth) + strings.Join(header, columnGap))}

	if len(v.data) == 0 {
		w := max(tableWidth(widths), ansi.StringWidth(v.emptyMessage))
		if opts.Width > 0 {
			w = max(1, min(w, opts.Width-cursorWidth))
		}
		lines = append(lines, strings.Repeat(" ", cursorWidth)+emptyStyle.Render(pad(v.emptyMessage, w)))
		return strings.Join(lines, "\n")
	}

	for r := range cells {
		parts := make([]string, len(cells[r]))
		for i, f := range cells[r] {
			parts[i] = toneStyles[f.Tone].Render(pad(f.Text, widths[i]))
		}
		prefix := "  "
		line := strings.Join(parts, columnGap)
		if opts.ShowCursor && r == opts.Cursor {
			prefix = cursorStyle.Render("> ")
			line = selectedStyle.Render(line)
		}
		lines = append(lines, prefix+line)
	}

	lines = append(lines, footerStyle.Render(summaryLine(page, len(v.data))))
	lines = append(lines, renderControls(v.Controls(), v.page))
	return strings.Join(lines, "\n")
}

func (v *View) headerTitle(i int, c Column, numbered bool) string {
	title := c.Title
	if numbered {
		title = strconv.Itoa(i+1) + ":" + title
	}
	if c.Sortable {
		switch v.Direction(c.Key) {
		case SortAscending:
			title += " ▲"
		case SortDescending:
			title += " ▼"
		}
	}
	return title
}

func summaryLine(p Page, total int) string {
	if len(p.Rows) == 0 {
		return fmt.Sprintf("── page out of range, %d rows ──", total)
	}
	return fmt.Sprintf("── showing %d-%d of %d ──", p.StartIndex+1, p.EndIndex, total)
}

func renderControls(controls []PageControl, current int) string {
	parts := []string{footerStyle.Render("‹")}
	for _, c := range controls {
		switch {
		case c.Ellipsis:
			parts = append(parts, footerStyle.Render("…"))
		case c.Page == current:
			parts = append(parts, currentStyle.Render("["+strconv.Itoa(c.Page)+"]"))
		default:
			parts = append(parts, footerStyle.Render(strconv.Itoa(c.Page)))
		}
	}
	parts = append(parts, footerStyle.Render("›"))
	return strings.Join(parts, " ")
}

func naturalWidths(titles []string, cells [][]Fragment) []int {
	widths := make([]int, len(titles))
	for i, t := range titles {
		widths[i] = max(minColumnWidth, ansi.StringWidth(t))
	}
	for _, row := range cells {
		for i, f := range row {
			widths[i] = max(widths[i], ansi.StringWidth(f.Text))
		}
	}
	return widths
}

// fitWidths narrows the widest columns until the table fits in limit.
func fitWidths(widths []int, limit int) []int {
	if limit <= 0 {
		return widths
	}
	for cursorWidth+tableWidth(widths) > limit {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minColumnWidth {
			break
		}
		widths[widest]--
	}
	return widths
}

func tableWidth(widths []int) int {
	total := 0
	for _, w := range widths {
		total += w
	}
	if len(widths) > 1 {
		total += len(columnGap) * (len(widths) - 1)
	}
	return total
}

// pad truncates or right-pads s to exactly width cells.
func pad(s string, width int) string {
	if ansi.StringWidth(s) > width {
		s = ansi.Truncate(s, width, "…")
	}
	if gap := width - ansi.StringWidth(s); gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}

// Styled renders f with the colour of its tone.
func (f Fragment) Styled() string {
	return toneStyles[f.Tone].Render(f.Text)
}
