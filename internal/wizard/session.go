package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/unattended/pkg/log"
)

var (
	// ErrStalled means a page finished its handler without pressing a button,
	// so a real installer would sit there waiting for a human.
	ErrStalled = errors.New("wizard stalled")
	// ErrCancelled means the driver pressed Cancel.
	ErrCancelled = errors.New("wizard cancelled")
	// ErrMessageBoxOpen means a message box was raised and nothing dismissed it.
	ErrMessageBoxOpen = errors.New("message box left open")
)

// Session is a headless host event loop. It shows pages in order, hands each one
// to the driver, and advances according to the button the driver pressed.
type Session struct {
	host     *Recorder
	driver   *Driver
	pages    []PageName
	messages map[string]string
	sleep    func(time.Duration)
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithPages overrides the page order. Installers skip pages they do not need,
// e.g. Credentials when no account is required.
func WithPages(pages ...PageName) SessionOption {
	return func(s *Session) {
		s.pages = pages
	}
}

// WithMessageBox raises a message box when stage is entered.
func WithMessageBox(stage, text string) SessionOption {
	return func(s *Session) {
		s.messages[stage] = text
	}
}

// WithSleep replaces the cancellable wait for delayed clicks; tests pass a no-op.
func WithSleep(fn func(time.Duration)) SessionOption {
	return func(s *Session) {
		s.sleep = fn
	}
}

func NewSession(host *Recorder, driver *Driver, opts ...SessionOption) *Session {
	s := &Session{
		host:     host,
		driver:   driver,
		pages:    Pages(),
		messages: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run drives the wizard until Finish is pressed or the pages run out.
func (s *Session) Run(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	s.driver.Register()

	for i := 0; i < len(s.pages); {
		if err := ctx.Err(); err != nil {
			return err
		}

		page := s.pages[i]
		s.host.Enter(page)
		if err := s.showMessage(page.String()); err != nil {
			return err
		}

		logger.Debug().Str("page", page.String()).Msg("page shown")
		if err := s.driver.Handle(page); err != nil {
			return fmt.Errorf("page %s: %w", page, err)
		}

		click, err := s.takeClick(ctx, page.String())
		if err != nil {
			return err
		}

		switch click.Button {
		case ButtonFinish:
			logger.Debug().Msg("wizard finished")
			return nil
		case ButtonCancel:
			return ErrCancelled
		case ButtonBack:
			if i > 0 {
				i--
			}
		case ButtonNext:
			if page == ReadyForInstallation {
				if err := s.install(ctx); err != nil {
					return err
				}
			}
			i++
		default:
			return fmt.Errorf("page %s: unsupported button %q", page, click.Button)
		}
	}
	return nil
}

// install plays the installation stage and relies on the finished hook to
// press Next.
func (s *Session) install(ctx context.Context) error {
	s.host.BeginInstallation()
	if err := s.showMessage(StageInstalling); err != nil {
		return err
	}
	log.FromCtx(ctx).Debug().Msg("installation finished")
	s.host.FinishInstallation()
	if err := s.driver.AdvanceErr(); err != nil {
		return fmt.Errorf("%s: %w", StageInstalling, err)
	}

	click, err := s.takeClick(ctx, StageInstalling)
	if err != nil {
		return err
	}
	if click.Button != ButtonNext {
		return fmt.Errorf("%s: unexpected button %q", StageInstalling, click.Button)
	}
	return nil
}

func (s *Session) takeClick(ctx context.Context, stage string) (Click, error) {
	click, ok := s.host.TakeClick()
	if !ok {
		return Click{}, fmt.Errorf("%w on %s", ErrStalled, stage)
	}
	if click.Delay > 0 {
		log.FromCtx(ctx).Debug().Dur("delay", click.Delay).Str("button", string(click.Button)).Msg("delayed click")
		if err := s.wait(ctx, click.Delay); err != nil {
			return Click{}, err
		}
	}
	return click, nil
}

// wait holds a delayed click, returning early when ctx is cancelled.
func (s *Session) wait(ctx context.Context, d time.Duration) error {
	if s.sleep != nil {
		s.sleep(d)
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Session) showMessage(stage string) error {
	text, ok := s.messages[stage]
	if !ok {
		return nil
	}
	if !s.host.RaiseMessageBox(text) {
		return fmt.Errorf("%w on %s: %q", ErrMessageBoxOpen, stage, text)
	}
	return nil
}

// Plan runs the driver against a fresh Recorder without waiting on delays and
// returns every UI call it made.
func Plan(ctx context.Context, hostOpts []RecorderOption, driverOpts ...Option) ([]Op, error) {
	host := NewRecorder(hostOpts...)
	driver := New(host, append([]Option{WithContext(ctx)}, driverOpts...)...)
	err := NewSession(host, driver, WithSleep(func(time.Duration) {})).Run(ctx)
	return host.Ops(), err
}
