package logging_test

import (
	"bytes"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/reoring/xsd2fhir/internal/logging"
)

func TestNewTo_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logging.NewTo(buf, true, false)
	log.Info("converted", zap.Int("definitions", 3))
	log.Debug("hidden")
	require.NoError(t, log.Sync())

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "converted", line["msg"])
	assert.Equal(t, float64(3), line["definitions"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewTo_ConsoleVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logging.NewTo(buf, false, true)
	log.Debug("resolved", zap.String("type", "Demo.Person"))
	require.NoError(t, log.Sync())

	assert.Contains(t, buf.String(), "resolved")
	assert.Contains(t, buf.String(), "Demo.Person")
}
