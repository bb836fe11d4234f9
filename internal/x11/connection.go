// Package x11 implements the protocol side of taskwm on top of xgb/xgbutil:
// connection setup, window show/hide/configure/focus and the event pump that
// feeds the dispatcher.
package x11

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/1broseidon/taskwm/internal/tiling"
)

// Connection manages the X11 connection and core X resources.
type Connection struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	screen tiling.Rect
}

// NewConnection establishes a connection to the X server and initializes the
// keybind machinery required for global hotkeys.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	keybind.Initialize(xu)

	screen := xu.Screen()
	return &Connection{
		xu:   xu,
		root: xu.RootWin(),
		screen: tiling.Rect{
			Width:  int(screen.WidthInPixels),
			Height: int(screen.HeightInPixels),
		},
	}, nil
}

// Manage claims window management on the root window by selecting
// substructure redirection. Fails if another window manager is running.
func (c *Connection) Manage() error {
	err := xproto.ChangeWindowAttributesChecked(
		c.xu.Conn(),
		c.root,
		xproto.CwEventMask,
		[]uint32{
			xproto.EventMaskPropertyChange |
				xproto.EventMaskSubstructureNotify |
				xproto.EventMaskSubstructureRedirect,
		},
	).Check()
	if err != nil {
		if _, ok := err.(xproto.AccessError); ok {
			return fmt.Errorf("another window manager is already running")
		}
		return fmt.Errorf("failed to select root events: %w", err)
	}
	return nil
}

// XUtil exposes the underlying xgbutil handle for the hotkey table.
func (c *Connection) XUtil() *xgbutil.XUtil {
	return c.xu
}

// Root returns the root window.
func (c *Connection) Root() xproto.Window {
	return c.root
}

// Screen returns the screen rectangle.
func (c *Connection) Screen() tiling.Rect {
	return c.screen
}

// Close cleanly disconnects from the X server.
func (c *Connection) Close() {
	c.xu.Conn().Close()
}

// AllocColor allocates a "#rrggbb" color in the default colormap and returns
// its pixel value for border painting.
func (c *Connection) AllocColor(hex string) (uint32, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("invalid color %q: want #rrggbb", hex)
	}
	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", hex, err)
	}

	// Scale 8-bit channels to the 16-bit values AllocColor expects.
	r := uint16((rgb >> 16) & 0xff)
	g := uint16((rgb >> 8) & 0xff)
	b := uint16(rgb & 0xff)
	r = r<<8 | r
	g = g<<8 | g
	b = b<<8 | b

	reply, err := xproto.AllocColor(c.xu.Conn(), c.xu.Screen().DefaultColormap, r, g, b).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate color #%s: %w", hex, err)
	}
	return reply.Pixel, nil
}
