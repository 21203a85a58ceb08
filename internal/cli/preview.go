package cli

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hapticfloor/pkg/floor"
)

// previewCommand creates the preview command for animating a wave on a floor.
func (c *CLI) previewCommand() *cobra.Command {
	var bankWidth int

	cmd := &cobra.Command{
		Use:   "preview [layout]",
		Short: "Animate a travelling wave on a floor in the terminal",
		Long: `Load a floor layout and route a travelling sine-wave bank onto it at the
configured frame rate. Active nodes are drawn in mesh space with their
intensity, passive nodes as dots.

Keys: q quit, +/- change the bank width, space pause.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			f, err := c.loadFloor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			m := NewPreviewModel(f.Snapshot(), bankWidth, cfg.Preview.FPS, cfg.Preview.WaveSpeed)
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().IntVar(&bankWidth, "bank", 0, "wave bank width (default active node count)")

	return cmd
}

// =============================================================================
// PreviewModel - Animated wave preview
// =============================================================================

// previewFrameMsg advances the animation by one frame.
type previewFrameMsg time.Time

// intensityRamp maps a value in [0,1] to a glyph, dimmest first.
var intensityRamp = []string{"○", "◔", "◑", "◕", "●"}

// intensityColors colors the ramp from cold to hot.
var intensityColors = []lipgloss.Color{"240", "67", "36", "214", "208"}

// previewKeys are the preview key bindings.
type previewKeys struct {
	Wider    key.Binding
	Narrower key.Binding
	Pause    key.Binding
	Quit     key.Binding
}

func (k previewKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Wider, k.Narrower, k.Pause, k.Quit}
}

func (k previewKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultPreviewKeys = previewKeys{
	Wider:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "wider bank")),
	Narrower: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "narrower bank")),
	Pause:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

// springField eases each node's displayed intensity toward its routed value.
type springField struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

func newSpringField(fps int) springField {
	return springField{spring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 0.6)}
}

func (s *springField) resize(n int) {
	if len(s.pos) == n {
		return
	}
	s.pos = make([]float64, n)
	s.vel = make([]float64, n)
}

// follow steps every spring toward targets and returns the positions.
func (s *springField) follow(targets []float64) []float64 {
	s.resize(len(targets))
	for i, target := range targets {
		s.pos[i], s.vel[i] = s.spring.Update(s.pos[i], s.vel[i], target)
	}
	return s.pos
}

// PreviewModel is the bubbletea model for the wave preview.
type PreviewModel struct {
	Snapshot  floor.Snapshot
	BankWidth int
	Values    []float64 // routed this frame
	Display   []float64 // Values eased by springs
	Phase     float64
	Paused    bool

	interval  time.Duration
	waveSpeed float64 // cycles per second
	keys      previewKeys
	help      help.Model
	springs   *springField

	viewWidth, viewHeight int // grid viewport in cells
}

// Default grid viewport until the terminal reports its size.
const (
	previewDefaultWidth  = 80
	previewDefaultHeight = 20
	// previewChromeLines is the height taken by the title, status and help.
	previewChromeLines = 6
)

// NewPreviewModel creates a preview of snap. A non-positive bankWidth uses the
// active node count.
func NewPreviewModel(snap floor.Snapshot, bankWidth, fps int, waveSpeed float64) PreviewModel {
	if bankWidth <= 0 {
		bankWidth = max(snap.Nodes.ActiveCount(), 1)
	}
	if fps <= 0 {
		fps = 20
	}
	m := PreviewModel{
		Snapshot:  snap,
		BankWidth: bankWidth,
		interval:  time.Second / time.Duration(fps),
		waveSpeed: waveSpeed,
		keys:      defaultPreviewKeys,
		help:      help.New(),

		viewWidth:  previewDefaultWidth,
		viewHeight: previewDefaultHeight,
	}
	m.Values = floor.Route(snap.Nodes.ActiveCount(), m.bank())
	m.Display = slices.Clone(m.Values)

	sf := newSpringField(fps)
	sf.resize(len(m.Values))
	copy(sf.pos, m.Values)
	m.springs = &sf
	return m
}

// bank samples the wave at the current phase. Slot i lags slot i-1 by one
// bank-width-th of a cycle.
func (m PreviewModel) bank() []float64 {
	bank := make([]float64, m.BankWidth)
	for i := range bank {
		offset := 2 * math.Pi * float64(i) / float64(m.BankWidth)
		bank[i] = 0.5 + 0.5*math.Sin(m.Phase-offset)
	}
	return bank
}

func (m PreviewModel) frame() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return previewFrameMsg(t)
	})
}

func (m PreviewModel) Init() tea.Cmd {
	return m.frame()
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Wider):
			m.BankWidth++
		case key.Matches(msg, m.keys.Narrower):
			if m.BankWidth > 1 {
				m.BankWidth--
			}
		case key.Matches(msg, m.keys.Pause):
			m.Paused = !m.Paused
		}
		m.Values = floor.Route(m.Snapshot.Nodes.ActiveCount(), m.bank())
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.viewWidth = max(msg.Width, 1)
		m.viewHeight = max(msg.Height-previewChromeLines, 1)
	case previewFrameMsg:
		if !m.Paused {
			m.Phase = math.Mod(m.Phase+2*math.Pi*m.waveSpeed*m.interval.Seconds(), 2*math.Pi)
			m.Values = floor.Route(m.Snapshot.Nodes.ActiveCount(), m.bank())
		}
		m.Display = slices.Clone(m.springs.follow(m.Values))
		return m, m.frame()
	}
	return m, nil
}

func (m PreviewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Floor Preview"))
	b.WriteString("\n")
	status := fmt.Sprintf("bank %d · %d active · %d passive", m.BankWidth,
		m.Snapshot.Nodes.ActiveCount(), m.Snapshot.Nodes.PassiveCount())
	if scale := m.scale(); scale > 1 {
		status += fmt.Sprintf(" · 1:%d", scale)
	}
	if m.Paused {
		status += " · paused"
	}
	b.WriteString(StyleDim.Render(status))
	b.WriteString("\n\n")
	b.WriteString(m.grid())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// grid draws the floor in mesh space. Each cell covers scale x scale mesh
// units, see [PreviewModel.scale]. Where nodes share a cell an active node
// wins over passive ones and the highest intensity wins among actives.
func (m PreviewModel) grid() string {
	minX, minY, maxX, maxY, ok := m.Snapshot.Nodes.Bounds()
	if !ok {
		return StyleWarning.Render("floor is empty") + "\n"
	}

	scale := m.scale()
	width, height := (maxX-minX)/scale+1, (maxY-minY)/scale+1
	cells := make([][]string, height)
	for y := range cells {
		cells[y] = make([]string, width)
		for x := range cells[y] {
			cells[y][x] = " "
		}
	}
	level := make(map[[2]int]float64)

	dot := StyleDim.Render("·")
	for _, n := range m.Snapshot.Nodes.Passive() {
		cells[(n.MeshY()-minY)/scale][(n.MeshX()-minX)/scale] = dot
	}
	for i, n := range m.Snapshot.Nodes.Active() {
		var v float64
		if i < len(m.Display) {
			v = m.Display[i]
		}
		cx, cy := (n.MeshX()-minX)/scale, (n.MeshY()-minY)/scale
		if prev, seen := level[[2]int{cx, cy}]; seen && prev >= v {
			continue
		}
		level[[2]int{cx, cy}] = v
		cells[cy][cx] = intensityGlyph(v)
	}

	var b strings.Builder
	for _, row := range cells {
		b.WriteString(strings.Join(row, ""))
		b.WriteString("\n")
	}
	return b.String()
}

// scale returns the number of mesh units per cell needed to fit the floor's
// bounding box into the viewport.
func (m PreviewModel) scale() int {
	minX, minY, maxX, maxY, ok := m.Snapshot.Nodes.Bounds()
	if !ok {
		return 1
	}
	cols, rows := max(m.viewWidth, 1), max(m.viewHeight, 1)
	w, h := maxX-minX+1, maxY-minY+1
	return max((w+cols-1)/cols, (h+rows-1)/rows, 1)
}

// intensityGlyph renders v, clamped to [0,1], as a colored ramp glyph.
func intensityGlyph(v float64) string {
	level := int(math.Round(math.Max(0, math.Min(1, v)) * float64(len(intensityRamp)-1)))
	return lipgloss.NewStyle().Foreground(intensityColors[level]).Render(intensityRamp[level])
}
