package wizard

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// StageInstalling names the page shown while files are copied. The driver has no
// handler for it; the installation-finished hook moves past it.
const StageInstalling = "PerformInstallation"

var (
	ErrUnknownComponent = errors.New("unknown component")
	ErrUnknownField     = errors.New("field not on current page")
	ErrAlreadyClicked   = errors.New("a button was already pressed on this page")
)

// OpKind classifies a recorded UI call.
type OpKind string

const (
	OpClick         OpKind = "click"
	OpSetField      OpKind = "set"
	OpSelect        OpKind = "select"
	OpDeselectAll   OpKind = "deselect-all"
	OpRejectMessage OpKind = "reject"
)

// Op is one UI mutation as seen by the host.
type Op struct {
	Stage  string
	Kind   OpKind
	Target string
	Value  any
	Delay  time.Duration
}

func (o Op) String() string {
	switch o.Kind {
	case OpClick:
		if o.Delay > 0 {
			return fmt.Sprintf("click %s after %s", o.Target, o.Delay)
		}
		return "click " + o.Target
	case OpSetField:
		return fmt.Sprintf("set %s = %v", o.Target, o.Value)
	case OpSelect:
		return "select " + o.Target
	case OpRejectMessage:
		return fmt.Sprintf("reject message box %q", o.Target)
	default:
		return string(o.Kind)
	}
}

// Click is a button press waiting for the host to act on it.
type Click struct {
	Button Button
	Delay  time.Duration
}

// Recorder is an in-memory installer: it keeps the state a real installer would
// (current page, field values, component selection) and records every UI call.
// It implements HostFacade and is not safe for concurrent use, like any UI thread.
type Recorder struct {
	page       PageName
	stage      string
	layout     map[PageName][]string
	catalogue  map[string]bool
	selected   map[string]bool
	values     map[Field]any
	ops        []Op
	pending    *Click
	onFinished []func()
	autoReject bool
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithComponents restricts selectable components to names.
func WithComponents(names ...string) RecorderOption {
	return func(r *Recorder) {
		for _, n := range names {
			r.catalogue[n] = true
		}
	}
}

// WithPreselected marks components as selected before the wizard starts,
// the way installers preselect their defaults.
func WithPreselected(names ...string) RecorderOption {
	return func(r *Recorder) {
		for _, n := range names {
			r.selected[n] = true
		}
	}
}

// WithoutLaunchCheckbox drops the launch toggle from the Finished page.
func WithoutLaunchCheckbox() RecorderOption {
	return func(r *Recorder) {
		r.layout[Finished] = nil
	}
}

func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{
		page:  Welcome,
		stage: Welcome.String(),
		layout: map[PageName][]string{
			TargetDirectory:  {FieldTargetDirectory},
			LicenseAgreement: {FieldAcceptLicense},
			Finished:         {FieldLaunchOnFinish},
		},
		catalogue: make(map[string]bool),
		selected:  make(map[string]bool),
		values:    make(map[Field]any),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Enter shows page. Any unconsumed click from the previous page is dropped.
func (r *Recorder) Enter(page PageName) {
	r.page = page
	r.stage = page.String()
	r.pending = nil
}

// BeginInstallation switches to the installation stage.
func (r *Recorder) BeginInstallation() {
	r.stage = StageInstalling
	r.pending = nil
}

// FinishInstallation fires the installation-finished callbacks.
func (r *Recorder) FinishInstallation() {
	for _, fn := range r.onFinished {
		fn()
	}
}

// RaiseMessageBox shows a modal message. It reports whether the box was
// dismissed by the auto-reject policy; otherwise it would wait for a human.
func (r *Recorder) RaiseMessageBox(text string) bool {
	if !r.autoReject {
		return false
	}
	r.record(Op{Kind: OpRejectMessage, Target: text})
	return true
}

// TakeClick returns and clears the pending button press.
func (r *Recorder) TakeClick() (Click, bool) {
	if r.pending == nil {
		return Click{}, false
	}
	c := *r.pending
	r.pending = nil
	return c, true
}

func (r *Recorder) Page() PageName {
	return r.page
}

func (r *Recorder) Stage() string {
	return r.stage
}

func (r *Recorder) Ops() []Op {
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Selected returns the selected components in name order.
func (r *Recorder) Selected() []string {
	out := make([]string, 0, len(r.selected))
	for n, ok := range r.selected {
		if ok {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Value returns what was last written into f.
func (r *Recorder) Value(f Field) (any, bool) {
	v, ok := r.values[f]
	return v, ok
}

func (r *Recorder) ClickButton(b Button, delay time.Duration) error {
	if r.pending != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyClicked, r.stage)
	}
	r.pending = &Click{Button: b, Delay: delay}
	r.record(Op{Kind: OpClick, Target: string(b), Delay: delay})
	return nil
}

func (r *Recorder) CurrentPageWidget() Widget {
	fields := r.layout[r.page]
	if r.stage == StageInstalling {
		fields = nil
	}
	return pageWidget{page: r.page, fields: fields}
}

func (r *Recorder) SetField(f Field, value any) error {
	if f.Page != r.page || !contains(r.layout[r.page], f.Name) {
		return fmt.Errorf("%w: %s on %s", ErrUnknownField, f.Name, r.stage)
	}
	switch value.(type) {
	case string, bool:
	default:
		return fmt.Errorf("field %s: unsupported value type %T", f.Name, value)
	}
	r.values[f] = value
	r.record(Op{Kind: OpSetField, Target: f.Name, Value: value})
	return nil
}

func (r *Recorder) SelectComponent(name string) error {
	if len(r.catalogue) > 0 && !r.catalogue[name] {
		return fmt.Errorf("%w: %s", ErrUnknownComponent, name)
	}
	r.selected[name] = true
	r.record(Op{Kind: OpSelect, Target: name})
	return nil
}

func (r *Recorder) DeselectAll() error {
	for n := range r.selected {
		delete(r.selected, n)
	}
	r.record(Op{Kind: OpDeselectAll})
	return nil
}

func (r *Recorder) OnInstallationFinished(fn func()) {
	r.onFinished = append(r.onFinished, fn)
}

func (r *Recorder) AutoRejectMessageBoxes() {
	r.autoReject = true
}

func (r *Recorder) record(op Op) {
	op.Stage = r.stage
	r.ops = append(r.ops, op)
}

type pageWidget struct {
	page   PageName
	fields []string
}

func (w pageWidget) Page() PageName {
	return w.page
}

func (w pageWidget) Field(name string) (Field, bool) {
	if !contains(w.fields, name) {
		return Field{}, false
	}
	return Field{Page: w.page, Name: name}, true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
