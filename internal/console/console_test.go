package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tdewolff/test"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{NoColor: true})
	log.OK("file %s exists", "a.csv")
	log.Info("plain")
	log.Warn("careful")
	log.Error("broken: %d", 3)
	test.T(t, buf.String(), "file a.csv exists\nplain\ncareful\nbroken: 3\n")
}

func TestLoggerQuiet(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{NoColor: true, Quiet: true})
	log.OK("hidden")
	log.Info("hidden")
	log.Warn("shown")
	log.Error("shown too")
	test.T(t, buf.String(), "shown\nshown too\n")
}

func TestLoggerNonTerminalIsPlain(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{})
	log.Error("no escapes")
	test.That(t, !strings.Contains(buf.String(), "\x1b["), "unexpected ANSI escape in", buf.String())
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing happens")
}
