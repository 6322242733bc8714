// Package guard flips the runtime into test mode when imported, keeping
// package tests from starting servers or workers as a side effect.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("WORKDECK_TEST_MODE") == "" {
			_ = os.Setenv("WORKDECK_TEST_MODE", "1")
		}
	})
}
