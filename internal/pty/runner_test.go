package pty

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	in := "\x1b[32mok\x1b[0m done\r"
	assert.Equal(t, "ok done", ansiRe.ReplaceAllString(in, ""))
}
