package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/pkg/telemetry"
)

func TestSetup_SinExporter(t *testing.T) {
	shutdown, err := telemetry.Setup("ventas-api", "test", telemetry.ExporterNone)

	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_Stdout(t *testing.T) {
	shutdown, err := telemetry.Setup("ventas-api", "test", telemetry.ExporterStdout)

	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_ExporterDesconocido(t *testing.T) {
	_, err := telemetry.Setup("ventas-api", "test", "jaeger")

	assert.Error(t, err)
}
