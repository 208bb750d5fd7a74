package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	errs := []error{
		ErrMissingChatController,
		ErrMissingHistoryService,
		ErrMissingSettingsService,
		ErrInvalidPorts,
	}

	seen := make(map[string]bool)
	for _, err := range errs {
		msg := err.Error()
		assert.False(t, seen[msg], "duplicate error message: %s", msg)
		seen[msg] = true
	}
}

func TestErrMissingChatController_Message(t *testing.T) {
	assert.Contains(t, ErrMissingChatController.Error(), "chat controller")
}
