package calendar

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	internalApp "github.com/felixgeelhaar/rendezvous/internal/app"
	availabilityCommands "github.com/felixgeelhaar/rendezvous/internal/availability/application/commands"
	availabilityQueries "github.com/felixgeelhaar/rendezvous/internal/availability/application/queries"
	"github.com/felixgeelhaar/rendezvous/internal/identity/application/profile"
	"github.com/felixgeelhaar/rendezvous/pkg/config"
)

var (
	testUserID   = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	testFriendID = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)

// Monday 2026-11-02, 10:30-11:00 UTC.
const busyMonday = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:call@example.com\r\n" +
	"DTSTAMP:20261001T000000Z\r\n" +
	"DTSTART:20261102T103000Z\r\n" +
	"DTEND:20261102T110000Z\r\n" +
	"SUMMARY:Call\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

// The same calendar after the Monday call was cancelled upstream.
const busyTuesdayOnly = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:review@example.com\r\n" +
	"DTSTAMP:20261001T000000Z\r\n" +
	"DTSTART:20261103T103000Z\r\n" +
	"DTEND:20261103T110000Z\r\n" +
	"SUMMARY:Review\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func setupLocalModeTestApp(t *testing.T) (*cli.App, *internalApp.Container) {
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
	return app, container
}

func run(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.RunE(cmd, args))
	return out.String()
}

func writeICS(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "busy.ics")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImportCmd_EventBlocksSharedWindow(t *testing.T) {
	app, container := setupLocalModeTestApp(t)
	ctx := context.Background()

	day := int(time.Monday)
	for id, window := range map[uuid.UUID][2]string{
		testUserID:   {"09:00", "12:00"},
		testFriendID: {"10:00", "13:00"},
	} {
		_, err := container.Profiles.SetTimezone(ctx, profile.SetTimezoneCommand{UserID: id, Timezone: "UTC"})
		require.NoError(t, err)
		_, err = container.AddSlotHandler.Handle(ctx, availabilityCommands.AddSlotCommand{
			UserID: id,
			Slot:   availabilityCommands.SlotInput{DayOfWeek: &day, StartTime: window[0], EndTime: window[1]},
		})
		require.NoError(t, err)
	}

	mutual := func() int {
		res, err := app.MutualAvailabilityHandler.Handle(ctx, availabilityQueries.MutualAvailabilityQuery{
			UserID:          testUserID,
			FriendID:        testFriendID,
			StartDate:       "2026-11-02",
			EndDate:         "2026-11-02",
			DurationMinutes: 60,
			BufferMinutes:   15,
		})
		require.NoError(t, err)
		return len(res.Windows)
	}
	require.Equal(t, 1, mutual())

	importFile, importCalDAV, importFrom, importDays = writeICS(t, busyMonday), false, "2026-11-01", 7
	out := run(t, importCmd)
	assert.Contains(t, out, "Imported 1 event(s)")
	assert.Equal(t, 0, mutual())

	assert.Contains(t, run(t, clearCmd), "Removed 1 event(s)")
	assert.Equal(t, 1, mutual())
}

func TestImportCmd_ReimportDropsCancelledEvents(t *testing.T) {
	app, container := setupLocalModeTestApp(t)
	ctx := context.Background()

	for _, id := range []uuid.UUID{testUserID, testFriendID} {
		_, err := container.Profiles.SetTimezone(ctx, profile.SetTimezoneCommand{UserID: id, Timezone: "UTC"})
		require.NoError(t, err)
		day := int(time.Monday)
		_, err = container.AddSlotHandler.Handle(ctx, availabilityCommands.AddSlotCommand{
			UserID: id,
			Slot:   availabilityCommands.SlotInput{DayOfWeek: &day, StartTime: "10:00", EndTime: "12:00"},
		})
		require.NoError(t, err)
	}
	mutual := func() int {
		res, err := app.MutualAvailabilityHandler.Handle(ctx, availabilityQueries.MutualAvailabilityQuery{
			UserID:          testUserID,
			FriendID:        testFriendID,
			StartDate:       "2026-11-02",
			EndDate:         "2026-11-02",
			DurationMinutes: 60,
			BufferMinutes:   15,
		})
		require.NoError(t, err)
		return len(res.Windows)
	}

	importFile, importCalDAV, importFrom, importDays = writeICS(t, busyMonday), false, "2026-11-01", 7
	run(t, importCmd)
	require.Equal(t, 0, mutual())

	importFile = writeICS(t, busyTuesdayOnly)
	out := run(t, importCmd)
	assert.Contains(t, out, "Imported 1 event(s), removed 1 stale")
	assert.Equal(t, 1, mutual())
}

func TestImportCmd_RequiresSource(t *testing.T) {
	setupLocalModeTestApp(t)
	importCmd.SetContext(context.Background())

	importFile, importCalDAV = "", false
	assert.Error(t, importCmd.RunE(importCmd, nil))

	importFile, importCalDAV = "x.ics", true
	assert.Error(t, importCmd.RunE(importCmd, nil))
}

func TestImportCmd_CalDAVNotConfigured(t *testing.T) {
	setupLocalModeTestApp(t)
	importCmd.SetContext(context.Background())

	importFile, importCalDAV = "", true
	defer func() { importCalDAV = false }()
	assert.ErrorContains(t, importCmd.RunE(importCmd, nil), "CalDAV is not configured")
}

func TestImportCmd_RejectsWrongExtension(t *testing.T) {
	setupLocalModeTestApp(t)
	importCmd.SetContext(context.Background())

	path := filepath.Join(t.TempDir(), "busy.txt")
	require.NoError(t, os.WriteFile(path, []byte(busyMonday), 0o600))
	importFile, importCalDAV, importFrom, importDays = path, false, "2026-11-01", 7
	defer func() { importFile = "" }()
	assert.Error(t, importCmd.RunE(importCmd, nil))
}
