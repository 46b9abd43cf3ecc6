package keymap

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestArrowKeysNormalMode(t *testing.T) {
	assert.Equal(t, []byte{0x1B, '[', 'A'}, Translate(glfw.KeyUp, 0, false))
	assert.Equal(t, []byte{0x1B, '[', 'D'}, Translate(glfw.KeyLeft, 0, false))
}

func TestArrowKeysApplicationMode(t *testing.T) {
	assert.Equal(t, []byte{0x1B, 'O', 'A'}, Translate(glfw.KeyUp, 0, true))
}

func TestControlLetterCombos(t *testing.T) {
	assert.Equal(t, []byte{0x01}, Translate(glfw.KeyA, glfw.ModControl, false))
	assert.Equal(t, []byte{0x03}, Translate(glfw.KeyC, glfw.ModControl, false))
}

func TestUnhandledKeyReturnsNil(t *testing.T) {
	assert.Nil(t, Translate(glfw.KeyF10, 0, false))
}
