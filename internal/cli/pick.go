package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/staffsheet/pkg/pipeline"
	"github.com/matzehuels/staffsheet/pkg/pitch"
)

// previewDelay is how long the picker waits after the last change before
// rendering a preview.
const previewDelay = 500 * time.Millisecond

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// previewPath returns a fresh file name for a preview image in the
// temporary directory.
func previewPath() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-preview-%s.png", appName, uuid.NewString()))
}

// =============================================================================
// PickModel - Interactive pitch selection
// =============================================================================

type pickItem struct {
	str  string
	name pitch.Name
}

// previewMsg reports a finished preview render.
type previewMsg struct {
	path string
	err  error
}

// PickModel is the bubbletea model for choosing the pitches of a sheet.
type PickModel struct {
	items     []pickItem
	selected  map[pitch.Name]bool
	cursor    int
	confirmed bool
	preview   previewMsg
	onChange  func([]pitch.Name)
}

// NewPickModel creates a picker with initial checked. onChange, if set, is
// called with the selection after every toggle.
func NewPickModel(initial []pitch.Name, onChange func([]pitch.Name)) PickModel {
	m := PickModel{selected: make(map[pitch.Name]bool), onChange: onChange}
	for _, s := range pitch.Strings() {
		for _, n := range s.Pitches {
			m.items = append(m.items, pickItem{str: s.Name, name: n})
		}
	}
	for _, n := range initial {
		m.selected[n] = true
	}
	return m
}

// Selection returns the checked pitches in vocabulary order.
func (m PickModel) Selection() []pitch.Name {
	var out []pitch.Name
	for _, n := range pitch.Names() {
		if m.selected[n] {
			out = append(out, n)
		}
	}
	return out
}

// Confirmed reports whether the user accepted the selection.
func (m PickModel) Confirmed() bool { return m.confirmed }

func (m PickModel) Init() tea.Cmd {
	return m.changed()
}

func (m PickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case " ", "space", "x":
			m = m.toggle(m.items[m.cursor].name)
			return m, m.changed()
		case "s":
			m = m.toggleString(m.items[m.cursor].str)
			return m, m.changed()
		case "a":
			m = m.toggleAll()
			return m, m.changed()
		case "enter":
			m.confirmed = true
			return m, tea.Quit
		}
	case previewMsg:
		m.preview = msg
	}
	return m, nil
}

// changed hands the selection to onChange off the update loop.
func (m PickModel) changed() tea.Cmd {
	if m.onChange == nil {
		return nil
	}
	sel := m.Selection()
	return func() tea.Msg {
		m.onChange(sel)
		return nil
	}
}

func (m PickModel) toggle(n pitch.Name) PickModel {
	sel := cloneSet(m.selected)
	sel[n] = !sel[n]
	m.selected = sel
	return m
}

// toggleString checks every pitch of the string unless all already are.
func (m PickModel) toggleString(str string) PickModel {
	all := true
	for _, it := range m.items {
		if it.str == str && !m.selected[it.name] {
			all = false
		}
	}
	sel := cloneSet(m.selected)
	for _, it := range m.items {
		if it.str == str {
			sel[it.name] = !all
		}
	}
	m.selected = sel
	return m
}

func (m PickModel) toggleAll() PickModel {
	all := len(m.Selection()) == len(m.items)
	sel := make(map[pitch.Name]bool, len(m.items))
	for _, it := range m.items {
		sel[it.name] = !all
	}
	m.selected = sel
	return m
}

func (m PickModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Pitches"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  s string  a all  ⏎ generate  q quit"))
	b.WriteString("\n")

	last := ""
	for i, it := range m.items {
		if it.str != last {
			b.WriteString("\n" + StyleHighlight.Render(it.str) + "\n")
			last = it.str
		}
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.selected[it.name] {
			box = "[x]"
		}
		line := fmt.Sprintf("%s%s %s", cursor, box, it.name)
		switch {
		case i == m.cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case m.selected[it.name]:
			b.WriteString(listNormalStyle.Render(line))
		default:
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d selected", len(m.Selection()), len(m.items))))
	b.WriteString("\n")
	switch {
	case m.preview.err != nil:
		b.WriteString(StyleWarning.Render("  preview: " + m.preview.err.Error()))
		b.WriteString("\n")
	case m.preview.path != "":
		b.WriteString(listDimStyle.Render("  preview: ") + StyleValue.Render(m.preview.path))
		b.WriteString("\n")
	}
	return b.String()
}

func cloneSet(s map[pitch.Name]bool) map[pitch.Name]bool {
	out := make(map[pitch.Name]bool, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// =============================================================================
// pick command
// =============================================================================

// pickCommand chooses pitches interactively, previewing as it goes, and then
// generates the sheet.
func (c *CLI) pickCommand() *cobra.Command {
	var opts renderOpts
	var noPreview bool

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick pitches interactively, then generate the sheet",
		Long: `Pick pitches from a checklist grouped by string. Unless --no-preview is set,
a PNG of the first page is re-rendered half a second after every change and
its path shown below the list; the file is removed on exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			po, err := opts.pipelineOptions()
			if err != nil {
				return err
			}

			var (
				prog     *tea.Program
				preview  *previewer
				onChange func([]pitch.Name)
			)
			if !noPreview {
				// Logging would tear the picker's screen.
				runner := pipeline.NewRunner(nil, nil, newLogger(io.Discard, LogInfo))
				defer runner.Close()

				preview = newPreviewer(ctx, previewPath(), debounce.New(previewDelay),
					func(ctx context.Context, sel []pitch.Name, path string) error {
						return writePreview(ctx, runner, po, sel, path)
					},
					func(msg previewMsg) { prog.Send(msg) })
				onChange = preview.schedule
			}

			prog = tea.NewProgram(NewPickModel(po.Sheet.Pitches, onChange), tea.WithContext(ctx))
			final, err := prog.Run()
			if preview != nil {
				preview.close()
			}
			if err != nil {
				return err
			}
			m, ok := final.(PickModel)
			if !ok || !m.Confirmed() {
				printInfo("Nothing generated")
				return nil
			}

			po.Sheet.Pitches = m.Selection()
			return c.render(ctx, po, opts.output, opts.sheet.noCache)
		},
	}

	opts.sheet.register(cmd.Flags())
	opts.registerOutput(cmd)
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", nil, "output format(s): pdf (default), svg, png, json")
	cmd.Flags().BoolVar(&noPreview, "no-preview", false, "do not render previews while picking")

	return cmd
}

// writePreview renders the first page of a sheet using sel to path.
func writePreview(ctx context.Context, runner *pipeline.Runner, po pipeline.Options, sel []pitch.Name, path string) error {
	po.Sheet.Pitches = sel
	po.Formats = []string{pipeline.FormatPNG}
	po.Page = 1
	res, err := runner.Execute(ctx, po)
	if err != nil {
		return err
	}
	return os.WriteFile(path, res.Artifacts[pipeline.FormatPNG][0], 0o644)
}

// previewer renders debounced previews of a selection to one file.
type previewer struct {
	ctx      context.Context
	cancel   context.CancelFunc
	path     string
	debounce func(func())
	render   func(ctx context.Context, sel []pitch.Name, path string) error
	notify   func(previewMsg)

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

func newPreviewer(
	ctx context.Context,
	path string,
	debounced func(func()),
	render func(ctx context.Context, sel []pitch.Name, path string) error,
	notify func(previewMsg),
) *previewer {
	ctx, cancel := context.WithCancel(ctx)
	return &previewer{
		ctx:      ctx,
		cancel:   cancel,
		path:     path,
		debounce: debounced,
		render:   render,
		notify:   notify,
	}
}

// schedule queues a preview of sel, replacing any queued one.
func (p *previewer) schedule(sel []pitch.Name) {
	p.debounce(func() {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return
		}
		p.inflight.Add(1)
		p.mu.Unlock()
		defer p.inflight.Done()

		err := p.render(p.ctx, sel, p.path)
		p.notify(previewMsg{path: p.path, err: err})
	})
}

// close drops a queued preview, waits for a running one and removes the
// preview file. Nothing is written to path once close returns.
func (p *previewer) close() {
	p.debounce(func() {})
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cancel()
	p.inflight.Wait()
	_ = os.Remove(p.path)
}
