package log_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/gecore/common"
	"github.com/milk9111/gecore/ecs"
	"github.com/milk9111/gecore/ecs/component"
	"github.com/milk9111/gecore/ecs/system"
	"github.com/milk9111/gecore/log"
)

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &out))
	return out
}

func TestWorldDump(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, zerolog.DebugLevel, false)

	w := ecs.NewWorld(ecs.WithLogger(logger))
	system.NewMovementSystem(w)
	e, err := w.CreateEntity()
	require.NoError(t, err)
	require.NoError(t, ecs.Add(w, e, component.NewTransform(common.Vec3{})))

	log.World(&logger, w, zerolog.InfoLevel)
	got := lastLine(t, &buf)
	assert.Equal(t, "info", got["level"])
	assert.EqualValues(t, 2, got["total_components"])
	assert.EqualValues(t, 1, got["total_systems"])
	assert.Equal(t, []any{"system.MovementSystem"}, got["systems"])
	assert.EqualValues(t, 1, got["entities"])

	log.Entity(&logger, w, e, zerolog.InfoLevel)
	got = lastLine(t, &buf)
	assert.Equal(t, true, got["alive"])
	components := got["components"].([]any)
	require.Len(t, components, 1)
	assert.Equal(t, "component.Transform", components[0].(map[string]any)["component_name"])

	require.True(t, w.DestroyEntity(e))
	log.Entity(&logger, w, e, zerolog.WarnLevel)
	got = lastLine(t, &buf)
	assert.Equal(t, false, got["alive"])
	assert.NotContains(t, got, "components")
}

func TestCreateSystemLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, zerolog.InfoLevel, false)
	log.CreateSystemLogger(&logger, "physics").Info().Msg("step")
	assert.Equal(t, "physics", lastLine(t, &buf)["system"])

	logger.Debug().Msg("filtered")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestParseLevel(t *testing.T) {
	lvl, err := log.ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lvl)

	lvl, err = log.ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)

	_, err = log.ParseLevel("loud")
	assert.Error(t, err)
}
