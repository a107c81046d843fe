package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevels(t *testing.T) {
	Init("debug")
	require.NotNil(t, log)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	Init("error")
	assert.Equal(t, logrus.ErrorLevel, log.GetLevel())

	// unknown levels fall back to info
	Init("invalid")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestPackageLevelFuncs(t *testing.T) {
	Init("debug")
	var buf bytes.Buffer
	log.SetOutput(&buf)
	// keep Fatal from exiting the test binary
	log.ExitFunc = func(int) {}

	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
	Debugf("%s", "debugf")
	Infof("%s", "infof")
	Warnf("%s", "warnf")
	Errorf("%s", "errorf")
	Fatal("fatal")
	Fatalf("%s", "fatalf")

	out := buf.String()
	for _, msg := range []string{
		"debug", "info", "warn", "error",
		"debugf", "infof", "warnf", "errorf",
		"fatal", "fatalf",
	} {
		assert.Contains(t, out, msg)
	}
}
