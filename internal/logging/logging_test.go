package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevels(t *testing.T) {
	t.Cleanup(func() { Setup(Options{}) })

	Setup(Options{Debug: true})
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	Setup(Options{Quiet: true})
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())

	Setup(Options{})
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}

func TestSetupLogFile(t *testing.T) {
	t.Cleanup(func() { Setup(Options{}) })

	path := filepath.Join(t.TempDir(), "treemk.log")
	closeLog := Setup(Options{LogFile: path})
	logrus.Info("hello from test")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}
