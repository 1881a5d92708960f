package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zebra/internal/logging"
)

func TestNewJSONCarriesComponentFields(t *testing.T) {
	var buf bytes.Buffer
	l, err := logging.New(logging.Options{Level: "debug", Format: "json", Output: &buf})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	logging.For(l, "store", "bolt").Debug("opened")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "store", line["package"])
	assert.Equal(t, "bolt", line["component"])
	assert.Equal(t, "opened", line["msg"])
}

func TestNewDefaultsAndErrors(t *testing.T) {
	l, err := logging.New(logging.Options{})
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())

	_, err = logging.New(logging.Options{Level: "loud"})
	assert.Error(t, err)
	_, err = logging.New(logging.Options{Format: "xml"})
	assert.Error(t, err)
}

func TestForNilLogger(t *testing.T) {
	e := logging.For(nil, "vault", "guard")
	require.NotNil(t, e)
	e.Info("dropped")
}
