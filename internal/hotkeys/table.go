// Package hotkeys turns the configured keybinding table into X key grabs and
// maps incoming key presses back to window manager actions.
package hotkeys

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/taskwm/internal/wm"
)

type binding struct {
	action   wm.Action
	mods     uint16
	keycodes []xproto.Keycode
}

// Table holds the grabbed chords. Built once at startup; read-only afterward.
type Table struct {
	bindings   []binding
	ignoreMask uint16
}

var ignoreModsOnce sync.Once

// NewTable parses every action -> chord pair, grabs the chords on the root
// window (including CapsLock/NumLock/ScrollLock variants) and returns the
// lookup table used by the event pump.
func NewTable(xu *xgbutil.XUtil, root xproto.Window, chords map[string]string) (*Table, error) {
	var ignoreMask uint16
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})
	for _, mask := range lockMasks(xu) {
		ignoreMask |= mask
	}

	t := &Table{ignoreMask: ignoreMask}
	for actionName, chord := range chords {
		action, err := wm.ParseAction(actionName)
		if err != nil {
			return nil, err
		}
		mods, keycodes, err := keybind.ParseString(xu, chord)
		if err != nil {
			return nil, fmt.Errorf("failed to parse chord %q for %s: %w", chord, actionName, err)
		}
		if len(keycodes) == 0 {
			return nil, fmt.Errorf("chord %q for %s maps to no keycode", chord, actionName)
		}
		for _, keycode := range keycodes {
			if err := keybind.GrabChecked(xu, root, mods, keycode); err != nil {
				return nil, fmt.Errorf("failed to grab %q for %s: %w", chord, actionName, err)
			}
		}
		t.bindings = append(t.bindings, binding{action: action, mods: mods, keycodes: keycodes})
	}
	return t, nil
}

// Match resolves a key press to an action. Lock modifiers are masked out of
// the event state before comparison.
func (t *Table) Match(state uint16, keycode xproto.Keycode) (wm.Action, bool) {
	clean := state &^ t.ignoreMask
	for _, b := range t.bindings {
		if b.mods != clean {
			continue
		}
		for _, kc := range b.keycodes {
			if kc == keycode {
				return b.action, true
			}
		}
	}
	return wm.Action{}, false
}

// configureIgnoreMods teaches the keybind grab machinery to also grab chord
// variants with lock modifiers held, so bindings fire regardless of
// CapsLock/NumLock/ScrollLock state.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	unique := map[uint16]struct{}{0: {}}
	base := lockMasks(xu)

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}
	xevent.IgnoreMods = ignore
}

// lockMasks returns the distinct modifier masks of CapsLock, NumLock and
// ScrollLock on this keymap.
func lockMasks(xu *xgbutil.XUtil) []uint16 {
	caps := uint16(xproto.ModMaskLock)
	masks := []uint16{caps}

	numLock := modMaskForKeysym(xu, "Num_Lock")
	if numLock != 0 && numLock != caps {
		masks = append(masks, numLock)
	}
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		masks = append(masks, scrollLock)
	}
	return masks
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
