package suggest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/rendezvous/adapter/cli"
	hangoutCommands "github.com/felixgeelhaar/rendezvous/internal/hangouts/application/commands"
	hangoutsDomain "github.com/felixgeelhaar/rendezvous/internal/hangouts/domain"
	suggestionQueries "github.com/felixgeelhaar/rendezvous/internal/suggestions/application/queries"
)

var (
	suggestFrom      string
	suggestTo        string
	suggestDuration  int
	suggestBuffer    int
	suggestMax       int
	suggestNoWeekend bool
	suggestTimeOfDay string
	suggestJSON      bool
	suggestPropose   string
)

// Cmd ranks meeting times for the current user and a friend.
var Cmd = &cobra.Command{
	Use:   "suggest [friend-id]",
	Short: "Suggest times to meet a friend",
	Long: `Rank candidate times from shared availability, the times you two
usually meet, and both of your preferred days.

Examples:
  rendezvous suggest 2b7c... --from 2026-11-02 --to 2026-11-15
  rendezvous suggest 2b7c... --time-of-day evening --no-weekends --max 3
  rendezvous suggest 2b7c... --propose "Board games"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		friendID, err := cli.ParseUserID("friend id", args[0])
		if err != nil {
			return err
		}

		from, to := suggestFrom, suggestTo
		if from == "" {
			from = time.Now().Format(time.DateOnly)
		}
		if to == "" {
			start, err := time.Parse(time.DateOnly, from)
			if err != nil {
				return fmt.Errorf("invalid --from %q: %w", from, err)
			}
			to = start.AddDate(0, 0, 13).Format(time.DateOnly)
		}

		query := suggestionQueries.GenerateSuggestionsQuery{
			UserID:              app.CurrentUserID,
			FriendID:            friendID,
			StartDate:           from,
			EndDate:             to,
			DurationMinutes:     suggestDuration,
			BufferMinutes:       suggestBuffer,
			MaxSuggestions:      suggestMax,
			TimeOfDayPreference: suggestTimeOfDay,
		}
		if suggestNoWeekend {
			include := false
			query.IncludeWeekends = &include
		}

		result, err := app.GenerateSuggestionsHandler.Handle(cmd.Context(), query)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if suggestJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		printSuggestions(out, result)

		if suggestPropose == "" || len(result.Suggestions) == 0 {
			return nil
		}
		proposed, err := app.ProposeTimesHandler.Handle(cmd.Context(), hangoutCommands.ProposeTimesCommand{
			UserID:          app.CurrentUserID,
			FriendID:        friendID,
			Title:           suggestPropose,
			DurationMinutes: result.Suggestions[0].DurationMinutes,
			Times:           proposedTimes(result.Suggestions),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nProposed %d time(s) as hangout %s\n", proposed.Proposed, proposed.HangoutID)
		return nil
	},
}

func printSuggestions(out io.Writer, result *suggestionQueries.SuggestionsDTO) {
	if len(result.Suggestions) == 0 {
		fmt.Fprintf(out, "No suggestions (%d candidates analyzed).\n", result.TotalAnalyzed)
		return
	}

	fmt.Fprintf(out, "Suggestions (%d of %d, pattern confidence %.0f%%):\n",
		len(result.Suggestions), result.TotalAnalyzed, result.PatternConfidence*100)
	for i, s := range result.Suggestions {
		fmt.Fprintf(out, "  %d. %s %s-%s %s  [%.0f%%, %s]\n",
			i+1, s.Date, s.StartTime, s.EndTime, s.UserTimezone, s.Confidence*100, s.Source)
		if len(s.Reasoning) > 0 {
			fmt.Fprintf(out, "     %s\n", strings.Join(s.Reasoning, "; "))
		}
	}

	if h := result.MutualHistory; h != nil {
		fmt.Fprintf(out, "Met %d time(s) before, usually on %s for %d min.\n",
			h.SuccessfulMeetings, strings.Join(h.CommonDays, ", "), h.PreferredDuration)
	}
}

func proposedTimes(suggestions []suggestionQueries.SuggestionDTO) []hangoutsDomain.ProposedTime {
	times := make([]hangoutsDomain.ProposedTime, 0, len(suggestions))
	for _, s := range suggestions {
		times = append(times, hangoutsDomain.ProposedTime{
			Date:       s.Date,
			StartTime:  s.StartTime,
			EndTime:    s.EndTime,
			Timezone:   s.UserTimezone,
			Confidence: s.Confidence,
		})
	}
	return times
}

func init() {
	Cmd.Flags().StringVar(&suggestFrom, "from", "", "first date (YYYY-MM-DD), defaults to today")
	Cmd.Flags().StringVar(&suggestTo, "to", "", "last date (YYYY-MM-DD), defaults to two weeks out")
	Cmd.Flags().IntVar(&suggestDuration, "duration", 0, "meeting length in minutes (default from config)")
	Cmd.Flags().IntVar(&suggestBuffer, "buffer", 0, "padding before and after in minutes (default from config)")
	Cmd.Flags().IntVar(&suggestMax, "max", 0, "number of suggestions (default from config)")
	Cmd.Flags().BoolVar(&suggestNoWeekend, "no-weekends", false, "skip Saturdays and Sundays")
	Cmd.Flags().StringVar(&suggestTimeOfDay, "time-of-day", "", "morning, afternoon, evening or any")
	Cmd.Flags().BoolVar(&suggestJSON, "json", false, "print the full result as JSON")
	Cmd.Flags().StringVar(&suggestPropose, "propose", "", "propose the suggestions to the friend under this title")
}
