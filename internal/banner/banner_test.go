package banner

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestBanner(t *testing.T) {
	color.NoColor = true
	b := Banner("v1.2.3")
	assert.Contains(t, b, "v1.2.3")
	assert.Contains(t, b, "|_|\\__,_|_| |_|")
}
