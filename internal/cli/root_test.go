package cli

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestVerboseEnablesDebugLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)

	cmd := NewRootCmd()

	verbose = true
	defer func() { verbose = false }()

	cmd.PersistentPreRun(cmd, nil)

	if got := zerolog.GlobalLevel(); got != zerolog.DebugLevel {
		t.Errorf("global level = %v, want %v", got, zerolog.DebugLevel)
	}
}
