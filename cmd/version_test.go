package cmd

import (
	"bytes"
	"testing"

	internalApp "github.com/haierkeys/chrono-journal-service/internal/app"
	"github.com/haierkeys/chrono-journal-service/pkg/app"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printVersion(&buf, false))
	assert.Contains(t, buf.String(), internalApp.Name+" v"+internalApp.Version)

	buf.Reset()
	require.NoError(t, printVersion(&buf, true))
	var info app.VersionInfo
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &info))
	assert.Equal(t, internalApp.BuildInfo(), info)
}

func TestNewBootstrapLogger(t *testing.T) {
	assert.True(t, newBootstrapLogger(true).Core().Enabled(-1))
	assert.False(t, newBootstrapLogger(false).Core().Enabled(-1))
}
