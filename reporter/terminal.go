package reporter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"
	"tangled.sh/tangled.sh/beautytips/models"
)

const defaultWidth = 80

type styles struct {
	ok, warn, err, muted, id lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		ok:    r.NewStyle().Foreground(lipgloss.Color("#50FA7B")).Bold(true),
		warn:  r.NewStyle().Foreground(lipgloss.Color("#F1FA8C")).Bold(true),
		err:   r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		muted: r.NewStyle().Foreground(lipgloss.Color("#888888")),
		id:    r.NewStyle().Foreground(lipgloss.Color("#5B8DEF")),
	}
}

// Terminal prints one status line per finished action, followed by its
// captured output, and a summary at the end. On a terminal the actions
// still running are listed on the last line.
type Terminal struct {
	Tally

	w       io.Writer
	styles  styles
	width   int
	tty     bool
	verbose bool
	now     func() time.Time
	start   time.Time
	output  uint64

	running     []string
	statusShown bool
}

type TerminalOption func(*Terminal)

// WithVerbose also prints a line when an action starts.
func WithVerbose(v bool) TerminalOption {
	return func(t *Terminal) {
		t.verbose = v
	}
}

func NewTerminal(w io.Writer, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		w:      w,
		styles: newStyles(lipgloss.NewRenderer(w)),
		now:    time.Now,
	}
	t.width, t.tty = terminalSize(w)
	for _, opt := range opts {
		opt(t)
	}
	t.start = t.now()
	return t
}

func terminalSize(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth, false
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth, true
	}
	return width, true
}

func (t *Terminal) ReportStart(actionId string) {
	t.clearStatus()
	t.running = append(t.running, actionId)
	if t.verbose {
		fmt.Fprintf(t.w, "%s %s\n", t.styles.muted.Render("started"), t.styles.id.Render(actionId))
	}
	t.drawStatus()
}

func (t *Terminal) ReportDone(actionId string, result models.ActionResult) {
	t.clearStatus()
	defer t.drawStatus()

	if i := slices.Index(t.running, actionId); i >= 0 {
		t.running = slices.Delete(t.running, i, i+1)
	}
	t.add(result.Kind)

	fmt.Fprintf(t.w, "%s %s\n", t.status(result.Kind), t.styles.id.Render(actionId))

	if result.Message != "" {
		t.block(result.Message)
	}
	if len(result.Stdout) > 0 || len(result.Stderr) > 0 {
		t.output += uint64(len(result.Stdout) + len(result.Stderr))
		t.block(string(result.Stdout))
		t.block(string(result.Stderr))
		fmt.Fprintln(t.w, t.styles.muted.Render(strings.Repeat("─", min(t.width, defaultWidth))))
	}
}

func (t *Terminal) Finish() {
	t.clearStatus()

	var parts []string
	for _, k := range []models.ResultKind{
		models.ResultOk,
		models.ResultWarn,
		models.ResultError,
		models.ResultSkipped,
		models.ResultNotApplicable,
	} {
		if n := t.Count(k); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, strings.ReplaceAll(k.String(), "_", " ")))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "nothing to do")
	}

	summary := fmt.Sprintf("%d actions: %s", t.Total(), strings.Join(parts, ", "))
	if t.output > 0 {
		summary += fmt.Sprintf(", %s of output", humanize.Bytes(t.output))
	}
	summary += fmt.Sprintf(" (%s)", t.elapsed())

	if t.Failed() {
		fmt.Fprintln(t.w, t.styles.err.Render(summary))
	} else {
		fmt.Fprintln(t.w, t.styles.ok.Render(summary))
	}
}

// drawStatus writes the running actions without a trailing newline, so
// clearStatus can erase the line before anything else is printed.
func (t *Terminal) drawStatus() {
	if !t.tty || len(t.running) == 0 {
		return
	}
	line := "running: " + strings.Join(t.running, ", ")
	line = ansi.Truncate(line, max(t.width-1, 1), "…")
	fmt.Fprint(t.w, t.styles.muted.Render(line))
	t.statusShown = true
}

func (t *Terminal) clearStatus() {
	if !t.statusShown {
		return
	}
	fmt.Fprint(t.w, "\r"+ansi.EraseEntireLine)
	t.statusShown = false
}

func (t *Terminal) elapsed() string {
	end := t.now()
	if end.Sub(t.start) < time.Second {
		return "took less than a second"
	}
	return "took " + strings.TrimSpace(humanize.RelTime(t.start, end, "", ""))
}

func (t *Terminal) status(kind models.ResultKind) string {
	switch kind {
	case models.ResultOk:
		return t.styles.ok.Render("ok     ")
	case models.ResultWarn:
		return t.styles.warn.Render("warn   ")
	case models.ResultError:
		return t.styles.err.Render("error  ")
	case models.ResultSkipped:
		return t.styles.muted.Render("skipped")
	default:
		return t.styles.muted.Render("n/a    ")
	}
}

// block prints text indented, without its trailing newlines.
func (t *Terminal) block(text string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}

	var buf bytes.Buffer
	for _, line := range strings.Split(text, "\n") {
		buf.WriteString("    ")
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	t.w.Write(buf.Bytes())
}
