package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput("debug", "json", &buf)
	if l.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", l.GetLevel())
	}

	l.WithField("quotation_id", 4).Info("[quotation][usecase] created")
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json log line, got %q", buf.String())
	}
	if entry["msg"] != "[quotation][usecase] created" || entry["quotation_id"] != float64(4) {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewWithOutput_UnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput("loud", "text", &buf)
	if l.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", l.GetLevel())
	}
	if !strings.Contains(buf.String(), "unknown log level") {
		t.Fatalf("expected warning, got %q", buf.String())
	}
}
