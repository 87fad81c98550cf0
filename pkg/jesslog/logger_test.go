package jesslog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNop_DiscardsWithoutPanicking(t *testing.T) {
	l := Nop()
	assert.NotPanics(t, func() {
		l.Info("hello", zap.String("k", "v"))
		l.With(zap.String("scope", "test")).Debug("nested")
	})
}

func TestNew_NilLoggerFallsBackToNop(t *testing.T) {
	l := New(nil)
	assert.NotPanics(t, func() { l.Warn("no crash") })
}

func TestNew_WrapsExistingLoggerAndRecordsEntries(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := New(zap.New(core))

	l.Info("parsed", zap.String("file", "Widget.java"))
	l.With(zap.String("stage", "resolve")).Error("boom")

	entries := logs.All()
	assert.Len(t, entries, 2)
	assert.Equal(t, "parsed", entries[0].Message)
	assert.Equal(t, "boom", entries[1].Message)
}
