package wizard

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPage is returned when a page name is outside the supported set.
var ErrUnknownPage = errors.New("unknown wizard page")

// PageName identifies one page of the installer wizard. The set is closed.
type PageName int

const (
	Welcome PageName = iota
	Credentials
	Introduction
	TargetDirectory
	ComponentSelection
	LicenseAgreement
	StartMenuDirectory
	ReadyForInstallation
	Finished
)

var pageNames = [...]string{
	Welcome:              "Welcome",
	Credentials:          "Credentials",
	Introduction:         "Introduction",
	TargetDirectory:      "TargetDirectory",
	ComponentSelection:   "ComponentSelection",
	LicenseAgreement:     "LicenseAgreement",
	StartMenuDirectory:   "StartMenuDirectory",
	ReadyForInstallation: "ReadyForInstallation",
	Finished:             "Finished",
}

// Pages returns every page in the order an installer presents them.
func Pages() []PageName {
	out := make([]PageName, len(pageNames))
	for i := range pageNames {
		out[i] = PageName(i)
	}
	return out
}

func (p PageName) Valid() bool {
	return p >= 0 && int(p) < len(pageNames)
}

func (p PageName) String() string {
	if !p.Valid() {
		return fmt.Sprintf("PageName(%d)", int(p))
	}
	return pageNames[p]
}

// ParsePageName accepts the page name with or without the "Page" suffix used by
// installer callbacks, case-insensitively.
func ParsePageName(s string) (PageName, error) {
	name := strings.TrimSuffix(strings.TrimSpace(s), "PageCallback")
	name = strings.TrimSuffix(name, "Page")
	for i, n := range pageNames {
		if strings.EqualFold(n, name) {
			return PageName(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPage, s)
}
