package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/1broseidon/taskwm/internal/platform"
	"github.com/1broseidon/taskwm/internal/tiling"
)

// Show maps the window.
func (c *Connection) Show(win platform.WindowID) error {
	return xproto.MapWindowChecked(c.xu.Conn(), xproto.Window(win)).Check()
}

// Hide unmaps the window, keeping its server-side state intact.
func (c *Connection) Hide(win platform.WindowID) error {
	return xproto.UnmapWindowChecked(c.xu.Conn(), xproto.Window(win)).Check()
}

// Apply moves and resizes the window and sets its border width in one
// configure request.
func (c *Connection) Apply(win platform.WindowID, geom tiling.Rect, borderWidth int) error {
	return xproto.ConfigureWindowChecked(
		c.xu.Conn(),
		xproto.Window(win),
		xproto.ConfigWindowX|xproto.ConfigWindowY|
			xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|
			xproto.ConfigWindowBorderWidth,
		[]uint32{
			uint32(int32(geom.X)),
			uint32(int32(geom.Y)),
			uint32(geom.Width),
			uint32(geom.Height),
			uint32(borderWidth),
		},
	).Check()
}

// Focus gives the window input focus, reverting to its parent if it goes away.
func (c *Connection) Focus(win platform.WindowID) error {
	return xproto.SetInputFocusChecked(
		c.xu.Conn(),
		xproto.InputFocusParent,
		xproto.Window(win),
		xproto.TimeCurrentTime,
	).Check()
}

// FocusRoot resets input focus to pointer-root.
func (c *Connection) FocusRoot() error {
	return xproto.SetInputFocusChecked(
		c.xu.Conn(),
		xproto.InputFocusPointerRoot,
		c.root,
		xproto.TimeCurrentTime,
	).Check()
}

// SetBorderColor paints the window border with an allocated pixel.
func (c *Connection) SetBorderColor(win platform.WindowID, pixel uint32) error {
	return xproto.ChangeWindowAttributesChecked(
		c.xu.Conn(),
		xproto.Window(win),
		xproto.CwBorderPixel,
		[]uint32{pixel},
	).Check()
}

// RootName reads the root window's WM_NAME, the channel the external task
// selector reports through (the xsetroot convention).
func (c *Connection) RootName() (string, error) {
	name, err := icccm.WmNameGet(c.xu, c.root)
	if err != nil {
		return "", fmt.Errorf("failed to read root window name: %w", err)
	}
	return name, nil
}

// ExistingWindows lists viewable top-level windows present at startup so they
// can be adopted. Override-redirect windows (menus, tooltips) are skipped.
func (c *Connection) ExistingWindows() ([]platform.WindowID, error) {
	tree, err := xproto.QueryTree(c.xu.Conn(), c.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query window tree: %w", err)
	}

	var wins []platform.WindowID
	for _, child := range tree.Children {
		attr, err := xproto.GetWindowAttributes(c.xu.Conn(), child).Reply()
		if err != nil {
			continue
		}
		if attr.OverrideRedirect || attr.MapState != xproto.MapStateViewable {
			continue
		}
		wins = append(wins, platform.WindowID(child))
	}
	return wins, nil
}
