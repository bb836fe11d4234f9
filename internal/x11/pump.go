package x11

import (
	"log"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/taskwm/internal/hotkeys"
	"github.com/1broseidon/taskwm/internal/platform"
	"github.com/1broseidon/taskwm/internal/tiling"
	"github.com/1broseidon/taskwm/internal/wm"
)

// Pump blocks on the X connection and translates protocol events into
// dispatcher events. It closes the channel when the connection drops, which
// the dispatcher treats as fatal. Run it on its own goroutine.
func (c *Connection) Pump(events chan<- wm.Event, keys *hotkeys.Table) {
	defer close(events)

	for {
		ev, xerr := c.xu.Conn().WaitForEvent()
		if ev == nil && xerr == nil {
			return
		}
		if xerr != nil {
			// Protocol errors (e.g. a request against a window that died
			// underneath us) are logged and survived.
			log.Printf("x11 error: %v", xerr)
			continue
		}

		switch e := ev.(type) {
		case xproto.MapRequestEvent:
			events <- wm.MapRequest{Win: platform.WindowID(e.Window)}

		case xproto.UnmapNotifyEvent:
			events <- wm.UnmapNotify{Win: platform.WindowID(e.Window)}

		case xproto.DestroyNotifyEvent:
			events <- wm.DestroyNotify{Win: platform.WindowID(e.Window)}

		case xproto.ConfigureRequestEvent:
			events <- wm.ConfigureRequest{
				Win: platform.WindowID(e.Window),
				Geom: tiling.Rect{
					X:      int(e.X),
					Y:      int(e.Y),
					Width:  int(e.Width),
					Height: int(e.Height),
				},
				BorderWidth: int(e.BorderWidth),
			}

		case xproto.KeyPressEvent:
			if action, ok := keys.Match(e.State, e.Detail); ok {
				events <- wm.KeyAction{Action: action}
			}

		case xproto.PropertyNotifyEvent:
			if e.Window != c.root || e.Atom != xproto.AtomWmName {
				continue
			}
			name, err := c.RootName()
			if err != nil {
				log.Printf("read root name: %v", err)
				continue
			}
			events <- wm.RootName{Name: name}
		}
	}
}
