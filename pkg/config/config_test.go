package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mygame/football/internal/agent"
	"mygame/football/internal/physics"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultsWithEmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 60, cfg.Server.TickRate)
	assert.Equal(t, 70*time.Millisecond, cfg.Game.Snapshot())
	assert.Equal(t, 3*time.Second, cfg.Game.Countdown())
	assert.Equal(t, physics.DefaultParams(), cfg.Game.Physics)
	assert.Equal(t, agent.DefaultTuning(), cfg.Game.Agent)
	assert.Equal(t, 10*time.Minute, cfg.JWT.Expire())
}

func TestPartialSectionsOverlayDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, `
server:
  port: 9000
game:
  physics:
    bounce_damping: 0.3
  agent:
    pass_max: 400
jwt:
  expire_duration: 2m
`))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Server.GrpcPort)
	assert.Equal(t, 0.3, cfg.Game.Physics.BounceDamping)
	assert.Equal(t, 0.975, cfg.Game.Physics.Friction)
	assert.Equal(t, 400.0, cfg.Game.Agent.PassMax)
	assert.Equal(t, 2*time.Minute, cfg.JWT.Expire())
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("FOOTBALL_SERVER_PORT", "7001")
	t.Setenv("FOOTBALL_GAME_PHYSICS_KICK_POWER", "9.5")
	cfg, err := Load(writeFile(t, "{}\n"))
	require.NoError(t, err)
	assert.Equal(t, 7001, cfg.Server.Port)
	assert.Equal(t, 9.5, cfg.Game.Physics.KickPower)
}

func TestMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
