package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf, zerolog.InfoLevel)

	log.Debug().Msg("hidden")
	log.Info().Str("document", "jan.pdf").Msg("extracted")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at info level: %s", out)
	}
	if !strings.Contains(out, "extracted") || !strings.Contains(out, `"document":"jan.pdf"`) {
		t.Errorf("output = %s, want the info message and its field", out)
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf, zerolog.DebugLevel))

	log := FromContext(ctx)
	log.Info().Msg("test")
	if buf.Len() == 0 {
		t.Error("FromContext() did not return the context logger")
	}
}

func TestFromContext_Default(t *testing.T) {
	log := FromContext(context.Background())
	if log.GetLevel() != zerolog.Disabled {
		t.Errorf("FromContext() level = %s, want disabled", log.GetLevel())
	}
}

func TestLevel(t *testing.T) {
	if got := Level(true); got != zerolog.DebugLevel {
		t.Errorf("Level(true) = %s, want debug", got)
	}
	if got := Level(false); got != zerolog.InfoLevel {
		t.Errorf("Level(false) = %s, want info", got)
	}
}
