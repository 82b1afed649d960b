package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common Rendezvous workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("plan_hangout").
		Description("Find a good time to meet a friend and propose a few options.").
		Argument("friend_id", "The friend's user ID", true).
		Argument("activity", "What you want to do together", false).
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			friendID := args["friend_id"]
			if friendID == "" {
				return nil, fmt.Errorf("friend_id is required")
			}
			activity := args["activity"]
			if activity == "" {
				activity = "a hangout"
			}
			return &mcp.PromptResult{
				Description: "Plan a hangout",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: fmt.Sprintf(`Help me plan %s with friend %s.

1. Check my time zone with the rendezvous://profile resource
2. Call suggestions.generate with friend_id %s for the next two weeks
3. If nothing comes back, call availability.mutual to see the raw shared windows
   and tell me which side has too little availability

Pick the three best options, explain the trade-offs in one line each (time
zones, how we usually meet, buffer around the slot), and once I agree, call
suggestions.propose with those times.`, activity, friendID, friendID),
						},
					},
				},
			}, nil
		})

	srv.Prompt("weekly_availability").
		Description("Review and tidy up your weekly availability.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Weekly availability review",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Review my availability using the rendezvous://availability resource.

- Summarize my weekly slots per day
- Point out overlapping or very short slots that could be merged
- List upcoming exceptions

Then ask me what to change and apply it with availability.weekly,
availability.except or availability.set_active.`,
						},
					},
				},
			}, nil
		})

	return nil
}
