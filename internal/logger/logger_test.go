package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew(t *testing.T) {
	log := New(false)
	if log.GetLevel() != logrus.InfoLevel {
		t.Errorf("default level = %v, want info", log.GetLevel())
	}

	log = New(true)
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("verbose level = %v, want debug", log.GetLevel())
	}
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, false)

	log.WithField("users", 100).Info("generating user profiles")

	out := buf.String()
	if !strings.Contains(out, "generating user profiles") {
		t.Errorf("output missing message: %s", out)
	}
	if !strings.Contains(out, "users=100") {
		t.Errorf("output missing field: %s", out)
	}

	buf.Reset()
	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug message logged at info level: %s", buf.String())
	}
}
