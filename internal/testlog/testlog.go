package testlog

import (
	"io"
	"os"
	"testing"

	"github.com/go-logr/logr"
	klog "k8s.io/klog/v2"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// Setup configures controller-runtime and klog to use a shared logr.
// Defaults to quiet (discard) unless DEBUG is set, in which case a dev zap
// logger is used and writes to stderr.
func Setup() {
	ctrl.SetLogger(newLogger())
	// Point klog to controller-runtime's logr so both stacks share output
	klog.SetLogger(ctrl.Log)
}

// Logger returns a logger named after the test.
func Logger(t testing.TB) logr.Logger {
	return newLogger().WithName(t.Name())
}

func newLogger() logr.Logger {
	if os.Getenv("DEBUG") == "" {
		return zap.New(zap.WriteTo(io.Discard))
	}
	return zap.New(zap.UseDevMode(true))
}
