// Package keymap translates host key events into the byte sequences a
// shell expects on its stdin: arrow keys, editing keys, and Control+
// letter combinations. Printable characters arrive through the
// window toolkit's character callback instead and bypass this table
// entirely (spec §6: "ordinary printable characters are delivered as
// UTF-8 text input, not through the key-code path").
package keymap

import "github.com/go-gl/glfw/v3.3/glfw"

// Translate returns the bytes to write to the pty for a key press, or
// nil if the key isn't one this table handles. appCursorKeys selects
// the DECCKM "ESC O" form of the arrow keys over the normal "ESC ["
// form, mirroring decoder.Decoder.AppCursorKeys.
func Translate(key glfw.Key, mods glfw.ModifierKey, appCursorKeys bool) []byte {
	if mods&glfw.ModControl != 0 {
		if b, ok := controlKeyByte(key); ok {
			return []byte{b}
		}
	}

	switch key {
	case glfw.KeyUp:
		return arrowSequence('A', appCursorKeys)
	case glfw.KeyDown:
		return arrowSequence('B', appCursorKeys)
	case glfw.KeyRight:
		return arrowSequence('C', appCursorKeys)
	case glfw.KeyLeft:
		return arrowSequence('D', appCursorKeys)

	case glfw.KeyHome:
		return []byte{0x1B, '[', 'H'}
	case glfw.KeyEnd:
		return []byte{0x1B, '[', 'F'}
	case glfw.KeyPageUp:
		return []byte{0x1B, '[', '5', '~'}
	case glfw.KeyPageDown:
		return []byte{0x1B, '[', '6', '~'}
	case glfw.KeyInsert:
		return []byte{0x1B, '[', '2', '~'}
	case glfw.KeyDelete:
		return []byte{0x1B, '[', '3', '~'}

	case glfw.KeyEnter, glfw.KeyKPEnter:
		return []byte{0x0D}
	case glfw.KeyTab:
		return []byte{0x09}
	case glfw.KeyBackspace:
		return []byte{0x7F}
	case glfw.KeyEscape:
		return []byte{0x1B}

	case glfw.KeyF1, glfw.KeyF2, glfw.KeyF3, glfw.KeyF4:
		return []byte{0x1B, 'O', byte('P' + (int(key) - int(glfw.KeyF1)))}
	}

	return nil
}

// arrowSequence returns the normal ("ESC [ <final>") or application
// mode ("ESC O <final>") encoding for an arrow key, matching the
// little-endian-packed 3-byte sequences the source's INPUT_KEY_MAPPING
// table encodes for the same keys.
func arrowSequence(final byte, appCursorKeys bool) []byte {
	if appCursorKeys {
		return []byte{0x1B, 'O', final}
	}
	return []byte{0x1B, '[', final}
}

// controlKeyByte maps Control+<letter> to its control-code byte
// (key - 0x60), the same rule the source's keys.h table encodes for
// each letter key (e.g. Control+A -> 0x01).
func controlKeyByte(key glfw.Key) (byte, bool) {
	if key >= glfw.KeyA && key <= glfw.KeyZ {
		return byte(key-glfw.KeyA) + 1, true
	}
	switch key {
	case glfw.KeyLeftBracket:
		return 0x1B, true
	case glfw.KeyBackslash:
		return 0x1C, true
	case glfw.KeyRightBracket:
		return 0x1D, true
	}
	return 0, false
}
