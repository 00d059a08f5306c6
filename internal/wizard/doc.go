// Package wizard drives an installer wizard without a human at the keyboard.
//
// The installer framework owns the event loop. It calls Driver.Handle once for
// every page it shows, and each handler performs a fixed UI action through the
// HostFacade (fill a field, pick a component, press Next) and returns. Handlers
// never block: a delayed click is requested from the host, not slept on.
//
//	d := wizard.New(host,
//	    wizard.WithHomeDir("/home/ci"),
//	    wizard.WithComponent("qt.qt5.5110.gcc_64"),
//	)
//	d.Register()
//	// the host then calls d.Handle(page) on every page visit
//
// Recorder and Session are a headless host for dry runs and tests.
package wizard
