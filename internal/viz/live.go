package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/odeint/internal/experiment"
	"github.com/san-kum/odeint/internal/physics"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailCapacity   = 500
)

// Snapshot stores state at a specific time for replay.
type Snapshot struct {
	State  []float64
	Time   float64
	Energy float64
}

type TickMsg time.Time

// Session is the stepping surface the live view drives.
type Session interface {
	Step() (experiment.Frame, error)
	Done() bool
	Reset()
	Time() float64
	End() float64
	State() []float64
	Model() physics.Model
	Method() string
	Adaptive() bool
	Params() map[string]float64
	SetParam(name string, v float64) error
}

// Watch animates a session, taking StepsPerFrame steps per tick.
type Watch struct {
	sess          Session
	system        string
	stepsPerFrame int
	fps           int

	canvas   *Canvas
	camera   *Camera
	theme    Theme
	styles   Styles
	bounds   Bounds
	trail    [][2]float64
	trail3D  []Vec3
	energy   []float64
	lastDt   float64
	start    float64
	history  []Snapshot
	playHead int
	running  bool
	showHelp bool
	err      error

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int
}

type WatchOption func(*Watch)

func WithTheme(name string) WatchOption { return func(w *Watch) { w.theme = GetTheme(name) } }

func WithStepsPerFrame(n int) WatchOption {
	return func(w *Watch) { w.stepsPerFrame = max(n, 1) }
}

func WithFPS(fps int) WatchOption { return func(w *Watch) { w.fps = max(fps, 1) } }

func NewWatch(sess Session, opts ...WatchOption) *Watch {
	w := &Watch{
		sess:          sess,
		system:        sess.Model().Name(),
		stepsPerFrame: 1,
		fps:           60,
		canvas:        NewCanvas(width/2, height/2+2),
		camera:        NewCamera(),
		theme:         Themes[0],
		bounds:        NewBounds(),
		history:       make([]Snapshot, 0, historyCapacity),
		playHead:      -1,
		running:       true,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.styles = NewStyles(w.theme)
	w.params = sess.Params()
	w.initialParams = make(map[string]float64, len(w.params))
	for k, v := range w.params {
		w.paramKeys = append(w.paramKeys, k)
		if v == 0 {
			v = 1e-6
		}
		w.initialParams[k] = v
	}
	sort.Strings(w.paramKeys)
	w.start = sess.Time()
	w.record(sess.State(), sess.Time())
	return w
}

func (w *Watch) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(w.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (w *Watch) Init() tea.Cmd { return w.tick() }

// Update handles input events and steps the simulation.
func (w *Watch) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return w, tea.Quit
		case " ":
			w.running = !w.running
		case "r":
			w.reset()
		case "[":
			w.scrub(-1)
		case "]":
			w.scrub(1)
		case "tab":
			w.cycleParam()
		case "up", "k":
			w.adjustParam(1.05)
		case "down", "j":
			w.adjustParam(0.95)
		case "t":
			w.theme = NextTheme(w.theme.Name)
			w.styles = NewStyles(w.theme)
		case "?":
			w.showHelp = !w.showHelp
		case "x":
			w.camera.RotateX(0.1)
		case "X":
			w.camera.RotateX(-0.1)
		case "y":
			w.camera.RotateY(0.1)
		case "Y":
			w.camera.RotateY(-0.1)
		case "z":
			w.camera.RotateZ(0.1)
		case "Z":
			w.camera.RotateZ(-0.1)
		}
	case TickMsg:
		if w.running {
			if w.playHead == -1 {
				w.advance()
			} else {
				w.playHead++
				if w.playHead >= len(w.history) {
					w.playHead = -1
				}
			}
		}
		return w, w.tick()
	}
	return w, nil
}

// advance steps the session until the frame budget is spent, the run ends
// or a step fails.
func (w *Watch) advance() {
	for i := 0; i < w.stepsPerFrame && w.err == nil && !w.sess.Done(); i++ {
		f, err := w.sess.Step()
		if err != nil {
			w.err = err
			w.running = false
			return
		}
		w.lastDt = f.Dt
		w.record(f.State, f.T)
	}
}

func (w *Watch) record(x []float64, t float64) {
	energy := 0.0
	if h, ok := w.sess.Model().(physics.Hamiltonian); ok {
		energy = h.Energy(x)
	}
	w.energy = push(w.energy, energy, historyCapacity)
	w.history = push(w.history, Snapshot{State: append([]float64(nil), x...), Time: t, Energy: energy}, historyCapacity)

	if len(x) >= 3 && w.system == "lorenz" {
		w.trail3D = push(w.trail3D, Vec3{x[0] * 0.04, (x[2] - 25) * 0.04, x[1] * 0.04}, trailCapacity)
		return
	}
	px, py := phaseCoords(w.system, x)
	w.bounds.Fit(px, py)
	w.trail = push(w.trail, [2]float64{px, py}, trailCapacity)
}

func push[T any](s []T, v T, limit int) []T {
	s = append(s, v)
	if len(s) > limit {
		s = s[1:]
	}
	return s
}

// phaseCoords picks the plane a system is drawn in.
func phaseCoords(system string, x []float64) (float64, float64) {
	switch {
	case system == "pendulum" && len(x) >= 2:
		return math.Sin(x[0]), -math.Cos(x[0])
	case len(x) >= 2:
		return x[0], x[1]
	case len(x) == 1:
		return 0, x[0]
	}
	return 0, 0
}

func (w *Watch) cycleParam() {
	if len(w.paramKeys) == 0 {
		return
	}
	w.selected = (w.selected + 1) % len(w.paramKeys)
}

func (w *Watch) adjustParam(factor float64) {
	if len(w.paramKeys) == 0 {
		return
	}
	key := w.paramKeys[w.selected]
	v := w.params[key] * factor
	if v == 0 {
		v = 1e-6 * factor
	}
	if err := w.sess.SetParam(key, v); err == nil {
		w.params[key] = v
	}
}

// scrub changes the playback position in history.
func (w *Watch) scrub(dir int) {
	if w.playHead == -1 {
		if len(w.history) == 0 {
			return
		}
		w.playHead = len(w.history) - 1
		w.running = false
	}
	w.playHead = max(w.playHead+dir, 0)
	if w.playHead >= len(w.history) {
		w.playHead = -1
	}
}

// reset restores the initial state and parameters.
func (w *Watch) reset() {
	for _, k := range w.paramKeys {
		v := w.initialParams[k]
		if w.sess.SetParam(k, v) == nil {
			w.params[k] = v
		}
	}
	w.sess.Reset()
	w.trail, w.trail3D, w.energy, w.history = w.trail[:0], w.trail3D[:0], w.energy[:0], w.history[:0]
	w.bounds = NewBounds()
	w.playHead, w.err, w.lastDt = -1, nil, 0
	w.start = w.sess.Time()
	w.record(w.sess.State(), w.sess.Time())
}

func (w *Watch) current() Snapshot {
	if w.playHead >= 0 && w.playHead < len(w.history) {
		return w.history[w.playHead]
	}
	if n := len(w.history); n > 0 {
		return w.history[n-1]
	}
	return Snapshot{State: w.sess.State(), Time: w.sess.Time()}
}

func (w *Watch) draw(snap Snapshot) {
	w.canvas.Clear()
	cw, ch := w.canvas.Dots()
	switch {
	case len(w.trail3D) > 0:
		if w.camera.RotX == 0 && w.camera.RotZ == 0 {
			w.camera.RotY += 0.005
		}
		DrawPath(w.canvas, w.camera, w.trail3D)
	case w.system == "pendulum":
		cx, cy := cw/2, ch/6
		l := float64(ch) * 0.6
		bx, by := cx+int(l*math.Sin(snap.State[0])), cy+int(l*math.Cos(snap.State[0]))
		w.canvas.DrawLine(cx, cy, bx, by)
		w.canvas.Blob(bx, by, 1)
	default:
		tr := w.trail
		if w.playHead >= 0 {
			tr = nil
		}
		for _, p := range tr {
			x, y := w.bounds.Map(p[0], p[1], cw, ch)
			w.canvas.Set(x, y)
		}
		px, py := phaseCoords(w.system, snap.State)
		x, y := w.bounds.Map(px, py, cw, ch)
		w.canvas.Blob(x, y, 1)
	}
}

func (w *Watch) status() string {
	switch {
	case w.err != nil:
		return w.styles.Failed.Render("FAILED")
	case w.playHead != -1:
		back := w.history[w.playHead].Time - w.history[len(w.history)-1].Time
		return w.styles.Paused.Render(fmt.Sprintf("REPLAY (%.2fs)", back))
	case w.sess.Done():
		return w.styles.Paused.Render("FINISHED")
	case !w.running:
		return w.styles.Paused.Render("PAUSED")
	}
	return w.styles.Running.Render("RUNNING")
}

// View renders the TUI interface.
func (w *Watch) View() string {
	snap := w.current()
	w.draw(snap)
	st := w.styles

	var s strings.Builder
	s.WriteString(st.Header.Render(strings.ToUpper(w.system)+"  "+w.sess.Method()) + "\n")
	s.WriteString(w.status() + "\n\n")

	series, caption := w.energy, "Energy"
	if _, ok := w.sess.Model().(physics.Hamiltonian); !ok {
		series, caption = Column(snapshotStates(w.history), 0), "x0"
	}
	if len(series) > 1 {
		chart := asciigraph.Plot(series, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption(caption))
		s.WriteString(st.Graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.3f / %.3g", snap.Time, w.sess.End()))
	if span := w.sess.End() - w.start; w.playHead == -1 && span > 0 {
		row("Progress", st.ProgressBar((w.sess.Time()-w.start)/span, 20))
	}
	mode := "fixed"
	if w.sess.Adaptive() {
		mode = "adaptive"
	}
	row("Step", fmt.Sprintf("%.3g (%s)", w.lastDt, mode))
	row("Energy", fmt.Sprintf("%.6g", snap.Energy))
	if w.err != nil {
		s.WriteString(st.Failed.Render(w.err.Error()) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	if len(w.paramKeys) == 0 {
		s.WriteString(st.Label.Render("  (none)") + "\n")
	}
	for i, k := range w.paramKeys {
		val, initial := w.params[k], w.initialParams[k]
		ratio := math.Max(0, math.Min(val/(2*initial), 1))
		filled := int(ratio * 10)
		bar := "[" + strings.Repeat("=", filled) + strings.Repeat("-", 10-filled) + "]"
		line := fmt.Sprintf("%-10s %s %.3g", k, bar, val)
		if i == w.selected {
			s.WriteString(st.Active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.Label.Render(line) + "\n")
		}
	}
	s.WriteString(st.Help.Render("SP:Pause R:Reset Q:Quit\nT:Theme  ?:Help\n[ ]:Scrub ↑↓:Tune"))

	view := lipgloss.JoinHorizontal(lipgloss.Top, st.Canvas.Render(w.canvas.String()), st.Panel.Render(s.String()))
	if w.showHelp {
		return helpText + "\n" + view
	}
	return view
}

func snapshotStates(h []Snapshot) [][]float64 {
	out := make([][]float64, len(h))
	for i, s := range h {
		out[i] = s.State
	}
	return out
}

const helpText = `
  Space    Pause/Resume simulation
  R        Reset state and parameters
  Q        Quit
  Tab      Cycle parameters
  Up/K     Increase parameter (+5%)
  Down/J   Decrease parameter (-5%)
  [ / ]    Scrub through history
  T        Cycle themes
  x y z    Rotate 3D view (shift reverses)
  ?        Toggle this help
`
