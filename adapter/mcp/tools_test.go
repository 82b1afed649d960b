package mcp

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	internalApp "github.com/felixgeelhaar/rendezvous/internal/app"
	availabilityCommands "github.com/felixgeelhaar/rendezvous/internal/availability/application/commands"
	"github.com/felixgeelhaar/rendezvous/pkg/config"
)

var (
	testUserID   = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	testFriendID = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)

func setupApp(t *testing.T) *cli.App {
	t.Helper()
	cfg := &config.Config{
		AppEnv:               "test",
		DatabaseDriver:       "sqlite",
		SQLitePath:           filepath.Join(t.TempDir(), "test.db"),
		UserID:               testUserID.String(),
		SuggestionDuration:   time.Hour,
		SuggestionBuffer:     15 * time.Minute,
		SuggestionMaxResults: 5,
	}
	container, err := internalApp.NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(container.Close)

	day := int(time.Monday)
	for id, window := range map[uuid.UUID][2]string{
		testUserID:   {"09:00", "12:00"},
		testFriendID: {"10:00", "13:00"},
	} {
		_, err := container.AddSlotHandler.Handle(context.Background(), availabilityCommands.AddSlotCommand{
			UserID: id,
			Slot:   availabilityCommands.SlotInput{DayOfWeek: &day, StartTime: window[0], EndTime: window[1]},
		})
		require.NoError(t, err)
	}
	return cli.NewApp(container, testUserID)
}

func TestRegisterCLITools_ListTools(t *testing.T) {
	srv := mcp.NewServer(mcp.ServerInfo{
		Name:    "test",
		Version: "1.0.0",
		Capabilities: mcp.Capabilities{
			Tools: true,
		},
	})

	app := &cli.App{}
	require.NoError(t, RegisterCLITools(srv, ToolDependencies{App: app}))

	tc := testutil.NewTestClient(t, srv)
	defer tc.Close()

	tools, err := tc.ListTools()
	require.NoError(t, err)

	names := make(map[any]bool, len(tools))
	for _, tool := range tools {
		names[tool["name"]] = true
	}
	for _, want := range []string{
		"rendezvous.status",
		"rendezvous.version",
		"availability.list",
		"availability.mutual",
		"suggestions.generate",
		"suggestions.propose",
		"hangout.record",
		"profile.set_timezone",
		"calendar.import",
	} {
		assert.True(t, names[want], "%s tool should be registered", want)
	}
}

func TestRegisterCLITools_RequiresApp(t *testing.T) {
	srv := mcp.NewServer(mcp.ServerInfo{Name: "test", Version: "1.0.0"})
	assert.Error(t, RegisterCLITools(srv, ToolDependencies{}))
	assert.Error(t, RegisterCLITools(nil, ToolDependencies{App: &cli.App{}}))
}

func TestSuggest_UsesDefaultRange(t *testing.T) {
	app := setupApp(t)
	// Sunday, so the default two-week range covers two Mondays.
	now := time.Date(2026, 11, 1, 8, 0, 0, 0, time.UTC)

	result, err := suggest(context.Background(), app, suggestInput{
		FriendID:        testFriendID.String(),
		DurationMinutes: 60,
	}, now)
	require.NoError(t, err)
	require.NotEmpty(t, result.Suggestions)
	assert.Nil(t, result.MutualHistory)
	for _, s := range result.Suggestions {
		assert.Contains(t, []string{"2026-11-02", "2026-11-09"}, s.Date)
	}
}

func TestSuggest_RequiresFriend(t *testing.T) {
	app := setupApp(t)
	_, err := suggest(context.Background(), app, suggestInput{}, time.Now())
	assert.Error(t, err)
}

func TestMutualAvailability(t *testing.T) {
	app := setupApp(t)

	result, err := mutualAvailability(context.Background(), app, mutualInput{
		FriendID:  testFriendID.String(),
		StartDate: "2026-11-02",
		EndDate:   "2026-11-02",
	}, time.Now())
	require.NoError(t, err)
	require.Len(t, result.Windows, 1)
	assert.Equal(t, "10:00", result.Windows[0].StartTime)
	assert.Equal(t, "12:00", result.Windows[0].EndTime)
}

func TestCurrentProfile_Detected(t *testing.T) {
	app := setupApp(t)

	p, err := currentProfile(context.Background(), app, time.Now())
	require.NoError(t, err)
	assert.True(t, p.Detected)
	assert.Equal(t, testUserID.String(), p.UserID)
}

func TestDateRange(t *testing.T) {
	now := time.Date(2026, 11, 2, 12, 0, 0, 0, time.UTC)

	start, end, err := dateRange("", "", 7, now)
	require.NoError(t, err)
	assert.Equal(t, "2026-11-02", start)
	assert.Equal(t, "2026-11-08", end)

	start, end, err = dateRange("2026-12-01", "2026-12-03", 7, now)
	require.NoError(t, err)
	assert.Equal(t, "2026-12-01", start)
	assert.Equal(t, "2026-12-03", end)

	_, _, err = dateRange("12/01/2026", "", 7, now)
	assert.Error(t, err)
}

func TestParseOptionalUUID(t *testing.T) {
	id, err := parseOptionalUUID("")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, id)

	_, err = parseOptionalUUID("nope")
	assert.Error(t, err)
}
