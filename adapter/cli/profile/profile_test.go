package profile

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	internalApp "github.com/felixgeelhaar/rendezvous/internal/app"
	"github.com/felixgeelhaar/rendezvous/internal/timezone"
	"github.com/felixgeelhaar/rendezvous/pkg/config"
)

var testUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func setupLocalModeTestApp(t *testing.T) *cli.App {
	t.Helper()

	cfg := &config.Config{
		AppEnv:         "test",
		LocalMode:      true,
		DatabaseDriver: "sqlite",
		SQLitePath:     filepath.Join(t.TempDir(), "test.db"),
		UserID:         testUserID.String(),
	}
	container, err := internalApp.NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(container.Close)

	app := cli.NewApp(container, testUserID)
	cli.SetApp(app)
	t.Cleanup(func() { cli.SetApp(nil) })
	return app
}

func run(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.RunE(cmd, args))
	return out.String()
}

func TestShowCmd_DetectedZone(t *testing.T) {
	setupLocalModeTestApp(t)

	out := run(t, showCmd)
	assert.Contains(t, out, "Time zone: "+timezone.Local()+" (detected)")
}

func TestTimezoneCmd_SetsZone(t *testing.T) {
	app := setupLocalModeTestApp(t)

	out := run(t, timezoneCmd, "Asia/Tokyo")
	assert.Contains(t, out, "Time zone set to Asia/Tokyo (UTC+09:00)")

	tz, err := app.Profiles.Timezone(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", tz)
	assert.NotContains(t, run(t, showCmd), "(detected)")
}

func TestTimezoneCmd_RejectsUnknownZone(t *testing.T) {
	setupLocalModeTestApp(t)

	timezoneCmd.SetContext(context.Background())
	err := timezoneCmd.RunE(timezoneCmd, []string{"Mars/Olympus_Mons"})
	assert.ErrorIs(t, err, timezone.ErrInvalidTimezone)
}

func TestNameCmd(t *testing.T) {
	setupLocalModeTestApp(t)

	assert.Contains(t, run(t, nameCmd, "Robin"), "Display name set to Robin")
	assert.Contains(t, run(t, showCmd), "Name: Robin")
}
