package installer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/unattended/internal/wizard"
	"github.com/sandevgo/unattended/pkg/log"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	doneStyle  = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("8"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// ErrInterrupted is returned when the user quits the rehearsal with ctrl+c.
var ErrInterrupted = errors.New("rehearsal interrupted")

const (
	installSteps    = 20
	installInterval = 100 * time.Millisecond
	opsShown        = 6
)

type phase int

const (
	phasePage phase = iota
	phaseWaiting
	phaseInstalling
	phaseDone
)

type showPageMsg struct{}
type clickMsg struct{ click wizard.Click }
type installTickMsg struct{}

// model renders a simulated installer and lets the driver operate it.
// The recorder is the installer state; this model is its event loop.
type model struct {
	ctx       context.Context
	host      *wizard.Recorder
	driver    *wizard.Driver
	pages     []wizard.PageName
	index     int
	phase     phase
	pending   wizard.Click
	installed int
	interval  time.Duration

	spinner  spinner.Model
	progress progress.Model

	err      error
	quitting bool
	width    int
}

func newModel(ctx context.Context, host *wizard.Recorder, driver *wizard.Driver) model {
	return model{
		ctx:      ctx,
		host:     host,
		driver:   driver,
		pages:    wizard.Pages(),
		interval: installInterval,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

func (m model) Init() tea.Cmd {
	m.driver.Register()
	return tea.Batch(m.spinner.Tick, showPage)
}

func showPage() tea.Msg {
	return showPageMsg{}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = max(msg.Width-10, 10)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case showPageMsg:
		return m.show()
	case clickMsg:
		return m.press(msg.click)
	case installTickMsg:
		return m.install()
	}
	return m, nil
}

func (m model) show() (tea.Model, tea.Cmd) {
	if m.index >= len(m.pages) {
		m.phase = phaseDone
		return m, tea.Quit
	}

	page := m.pages[m.index]
	m.host.Enter(page)
	log.FromCtx(m.ctx).Debug().Str("page", page.String()).Msg("page shown")

	if err := m.driver.Handle(page); err != nil {
		return m.fail(fmt.Errorf("page %s: %w", page, err))
	}
	return m.schedule(page.String())
}

// schedule turns the pending click into a message, delayed if the driver asked.
func (m model) schedule(stage string) (tea.Model, tea.Cmd) {
	click, ok := m.host.TakeClick()
	if !ok {
		return m.fail(fmt.Errorf("%w on %s", wizard.ErrStalled, stage))
	}

	if click.Delay > 0 {
		m.phase = phaseWaiting
		m.pending = click
		return m, tea.Tick(click.Delay, func(time.Time) tea.Msg {
			return clickMsg{click: click}
		})
	}
	return m, func() tea.Msg { return clickMsg{click: click} }
}

func (m model) press(click wizard.Click) (tea.Model, tea.Cmd) {
	m.phase = phasePage

	if m.host.Stage() == wizard.StageInstalling {
		if click.Button != wizard.ButtonNext {
			return m.fail(fmt.Errorf("%s: unexpected button %q", wizard.StageInstalling, click.Button))
		}
		m.index++
		return m, showPage
	}

	page := m.pages[m.index]
	switch click.Button {
	case wizard.ButtonFinish:
		m.phase = phaseDone
		return m, tea.Quit
	case wizard.ButtonCancel:
		return m.fail(wizard.ErrCancelled)
	case wizard.ButtonBack:
		if m.index > 0 {
			m.index--
		}
		return m, showPage
	case wizard.ButtonNext:
		if page == wizard.ReadyForInstallation {
			m.host.BeginInstallation()
			m.phase = phaseInstalling
			m.installed = 0
			return m, m.installTick()
		}
		m.index++
		return m, showPage
	default:
		return m.fail(fmt.Errorf("page %s: unsupported button %q", page, click.Button))
	}
}

func (m model) install() (tea.Model, tea.Cmd) {
	m.installed++
	if m.installed < installSteps {
		return m, m.installTick()
	}

	log.FromCtx(m.ctx).Debug().Msg("installation finished")
	m.host.FinishInstallation()
	if err := m.driver.AdvanceErr(); err != nil {
		return m.fail(fmt.Errorf("%s: %w", wizard.StageInstalling, err))
	}
	return m.schedule(wizard.StageInstalling)
}

func (m model) installTick() tea.Cmd {
	if m.interval <= 0 {
		return func() tea.Msg { return installTickMsg{} }
	}
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return installTickMsg{} })
}

func (m model) fail(err error) (tea.Model, tea.Cmd) {
	m.err = err
	m.phase = phaseDone
	return m, tea.Quit
}

func (m model) View() string {
	if m.quitting {
		return "Rehearsal cancelled.\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Unattended installer rehearsal") + "\n\n")

	for i, page := range m.pages {
		switch {
		case i < m.index:
			b.WriteString(doneStyle.Render("✓ "+page.String()) + "\n")
		case i == m.index && m.phase != phaseDone:
			b.WriteString(selStyle.Render("> "+page.String()) + "\n")
		default:
			b.WriteString(itemStyle.Render("  "+page.String()) + "\n")
		}
	}
	b.WriteString("\n")

	switch m.phase {
	case phaseWaiting:
		fmt.Fprintf(&b, "%s waiting %s before %s\n", m.spinner.View(), m.pending.Delay, m.pending.Button)
	case phaseInstalling:
		b.WriteString("Installing " + m.driver.Component() + "\n")
		b.WriteString(m.progress.ViewAs(float64(m.installed)/installSteps) + "\n")
	}

	ops := m.host.Ops()
	if len(ops) > opsShown {
		ops = ops[len(ops)-opsShown:]
	}
	for _, op := range ops {
		b.WriteString(doneStyle.Render(op.String()) + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
	}
	return b.String()
}

// RunRehearsal drives a simulated installer in the terminal and returns the
// calls the driver made.
func RunRehearsal(ctx context.Context, hostOpts []wizard.RecorderOption, driverOpts ...wizard.Option) ([]wizard.Op, error) {
	host := wizard.NewRecorder(hostOpts...)
	driver := wizard.New(host, append([]wizard.Option{wizard.WithContext(ctx)}, driverOpts...)...)

	p := tea.NewProgram(newModel(ctx, host, driver), tea.WithContext(ctx))
	m, err := p.Run()
	if err != nil {
		return host.Ops(), err
	}

	final := m.(model)
	if final.quitting {
		return host.Ops(), ErrInterrupted
	}
	return host.Ops(), final.err
}
