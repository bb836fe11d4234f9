package platform

import "github.com/1broseidon/taskwm/internal/tiling"

// WindowID is the protocol-assigned identifier of a top-level window.
type WindowID uint32

// Conn is the window-system surface the core state machine drives. The real
// implementation lives in internal/x11; tests substitute a fake.
//
// The core never creates or destroys windows. It only shows, hides, resizes,
// decorates and focuses windows the server already owns.
type Conn interface {
	// Screen returns the usable screen rectangle.
	Screen() tiling.Rect

	// Show maps the window.
	Show(win WindowID) error

	// Hide unmaps the window without destroying it.
	Hide(win WindowID) error

	// Apply moves and resizes the window and sets its border width.
	Apply(win WindowID, geom tiling.Rect, borderWidth int) error

	// Focus gives the window input focus.
	Focus(win WindowID) error

	// FocusRoot resets input focus to the root window.
	FocusRoot() error

	// SetBorderColor paints the window border with an allocated pixel value.
	SetBorderColor(win WindowID, pixel uint32) error
}
