package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInit(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)
	defer logrus.SetFormatter(&logrus.TextFormatter{})

	if err := Init("debug", "json"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if logrus.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", logrus.GetLevel())
	}
	if _, ok := logrus.StandardLogger().Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("expected json formatter, got %T", logrus.StandardLogger().Formatter)
	}

	if err := Init("", ""); err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if logrus.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", logrus.GetLevel())
	}
}

func TestInitRejectsUnknownValues(t *testing.T) {
	if err := Init("loud", "text"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if err := Init("info", "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
