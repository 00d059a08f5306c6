package wizard

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/sandevgo/unattended/pkg/log"
)

// ErrNoHandler is returned by Handle for a page the driver has no action for.
var ErrNoHandler = errors.New("no handler registered for page")

// DefaultWelcomeDelay gives the installer time to fetch its metadata before the
// first Next is pressed.
const DefaultWelcomeDelay = 3 * time.Second

// Handler performs the fixed action for one page.
type Handler func() error

// Driver maps each wizard page to its handler. The map is filled in New and
// never changes afterwards.
type Driver struct {
	ctx        context.Context
	host       HostFacade
	handlers   map[PageName]Handler
	advanceErr error

	homeDir      string
	subpath      string
	component    string
	welcomeDelay time.Duration
}

// Option configures the driver.
type Option func(*Driver)

// WithHomeDir sets the directory the target path is built from.
func WithHomeDir(dir string) Option {
	return func(d *Driver) {
		d.homeDir = dir
	}
}

// WithTargetSubpath sets the path below the home directory to install into.
func WithTargetSubpath(p string) Option {
	return func(d *Driver) {
		d.subpath = p
	}
}

// WithComponent sets the single component left selected on ComponentSelection.
func WithComponent(name string) Option {
	return func(d *Driver) {
		d.component = name
	}
}

// WithContext sets the context whose logger the driver reports to.
func WithContext(ctx context.Context) Option {
	return func(d *Driver) {
		d.ctx = ctx
	}
}

// WithWelcomeDelay overrides DefaultWelcomeDelay.
func WithWelcomeDelay(delay time.Duration) Option {
	return func(d *Driver) {
		d.welcomeDelay = delay
	}
}

func New(host HostFacade, opts ...Option) *Driver {
	d := &Driver{
		ctx:          context.Background(),
		host:         host,
		subpath:      "Qt",
		welcomeDelay: DefaultWelcomeDelay,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.handlers = map[PageName]Handler{
		Welcome:              d.clickAfter(d.welcomeDelay),
		Credentials:          d.clickNext,
		Introduction:         d.clickNext,
		TargetDirectory:      d.targetDirectory,
		ComponentSelection:   d.componentSelection,
		LicenseAgreement:     d.licenseAgreement,
		StartMenuDirectory:   d.clickNext,
		ReadyForInstallation: d.clickNext,
		Finished:             d.finished,
	}
	return d
}

// Register installs the global policies. The host calls it once, before the
// first page is shown.
func (d *Driver) Register() {
	d.host.AutoRejectMessageBoxes()
	d.host.OnInstallationFinished(func() {
		// The installation page has no handler of its own.
		if err := d.host.ClickButton(ButtonNext, 0); err != nil {
			d.advanceErr = err
			log.FromCtx(d.ctx).Error().Err(err).Msg("failed to leave the installation page")
		}
	})
}

// AdvanceErr returns the error from the last click made by the
// installation-finished hook, if it failed.
func (d *Driver) AdvanceErr() error {
	return d.advanceErr
}

// Handle runs the action for page. Host errors are returned unchanged.
func (d *Driver) Handle(page PageName) error {
	h, ok := d.handlers[page]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoHandler, page)
	}
	return h()
}

// Handles reports whether page has a registered action.
func (d *Driver) Handles(page PageName) bool {
	_, ok := d.handlers[page]
	return ok
}

// TargetPath is the directory written into the target directory field.
func (d *Driver) TargetPath() string {
	return path.Join(d.homeDir, d.subpath)
}

func (d *Driver) Component() string {
	return d.component
}

func (d *Driver) clickNext() error {
	return d.host.ClickButton(ButtonNext, 0)
}

func (d *Driver) clickAfter(delay time.Duration) Handler {
	return func() error {
		return d.host.ClickButton(ButtonNext, delay)
	}
}

func (d *Driver) targetDirectory() error {
	f, err := d.requireField(FieldTargetDirectory)
	if err != nil {
		return err
	}
	if err := d.host.SetField(f, d.TargetPath()); err != nil {
		return err
	}
	return d.clickNext()
}

func (d *Driver) componentSelection() error {
	if d.component == "" {
		return errors.New("no component configured for selection")
	}
	if err := d.host.DeselectAll(); err != nil {
		return err
	}
	if err := d.host.SelectComponent(d.component); err != nil {
		return err
	}
	return d.clickNext()
}

func (d *Driver) licenseAgreement() error {
	f, err := d.requireField(FieldAcceptLicense)
	if err != nil {
		return err
	}
	if err := d.host.SetField(f, true); err != nil {
		return err
	}
	return d.clickNext()
}

func (d *Driver) finished() error {
	// The launch toggle only exists when the installed product has something to run.
	if f, ok := d.field(FieldLaunchOnFinish); ok {
		if err := d.host.SetField(f, false); err != nil {
			return err
		}
	}
	return d.host.ClickButton(ButtonFinish, 0)
}

func (d *Driver) field(name string) (Field, bool) {
	w := d.host.CurrentPageWidget()
	if w == nil {
		return Field{}, false
	}
	return w.Field(name)
}

func (d *Driver) requireField(name string) (Field, error) {
	f, ok := d.field(name)
	if !ok {
		return Field{}, fmt.Errorf("current page has no field %s", name)
	}
	return f, nil
}
