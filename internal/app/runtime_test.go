package app

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	_ "github.com/workdeck/workdeck/internal/testing/guard"
)

func TestInTestMode(t *testing.T) {
	t.Setenv("WORKDECK_TEST_MODE", "1")
	RefreshTestMode()
	assert.True(t, InTestMode())

	os.Unsetenv("WORKDECK_TEST_MODE")
	RefreshTestMode()
	assert.False(t, InTestMode())

	t.Setenv("WORKDECK_TEST_MODE", "1")
	RefreshTestMode()
}
