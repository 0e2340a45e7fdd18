package commands

import (
	"os"
	"testing"

	"github.com/sttts/kexplorer/internal/testlog"
)

func TestMain(m *testing.M) {
	testlog.Setup()
	os.Exit(m.Run())
}
