package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd(t *testing.T) {
	oldVersion := version
	SetVersion("1.2.3")
	defer SetVersion(oldVersion)

	out, err := executeCommand("version")

	assert.NoError(t, err)
	assert.Contains(t, out, "prospect version 1.2.3")
}
