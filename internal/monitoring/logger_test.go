package monitoring

import (
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) { got = format })
	Logf("hello %s")
	if got != "hello %s" {
		t.Errorf("custom logger not called, got %q", got)
	}

	// nil installs a no-op, not a nil func
	SetLogger(nil)
	if Logf == nil {
		t.Fatal("Logf is nil after SetLogger(nil)")
	}
	got = ""
	Logf("should be dropped")
	if got != "" {
		t.Errorf("no-op logger produced output %q", got)
	}
}

func TestWarnf_Prefix(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) { got = format })
	Warnf("region %q unknown")
	if !strings.HasPrefix(got, "warning: ") {
		t.Errorf("Warnf format = %q, want warning prefix", got)
	}
}
