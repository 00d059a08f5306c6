package wizard

import "time"

// Button is a wizard navigation button.
type Button string

const (
	ButtonNext   Button = "Next"
	ButtonBack   Button = "Back"
	ButtonCancel Button = "Cancel"
	ButtonFinish Button = "Finish"
)

// Well-known field names on the installer's pages.
const (
	FieldTargetDirectory = "TargetDirectoryLineEdit"
	FieldAcceptLicense   = "AcceptLicenseRadioButton"
	FieldLaunchOnFinish  = "RunItCheckBox"
)

// Field is a named input on a page.
type Field struct {
	Page PageName
	Name string
}

// Widget is the page currently shown by the host.
type Widget interface {
	Page() PageName
	// Field looks up a named input. Optional inputs may be absent.
	Field(name string) (Field, bool)
}

// HostFacade is everything the driver may ask of the installer framework.
// All calls happen on the host's event loop, from inside a handler.
type HostFacade interface {
	// ClickButton presses b once delay has elapsed. A zero delay clicks at once.
	ClickButton(b Button, delay time.Duration) error
	CurrentPageWidget() Widget
	// SetField assigns a text field (string) or a toggle (bool).
	SetField(f Field, value any) error
	SelectComponent(name string) error
	DeselectAll() error
	// OnInstallationFinished registers fn to run when the installer reports the
	// installation is done.
	OnInstallationFinished(fn func())
	// AutoRejectMessageBoxes makes the host dismiss every message box it raises.
	AutoRejectMessageBoxes()
}
