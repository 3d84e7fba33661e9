// Package mcp provides a Model Context Protocol server for memovault.
//
// It exposes memo capture and the text-understanding pipeline (person
// detection, follow-up detection, title synthesis) as MCP tools, and
// recent memos as an MCP resource, over stdio transport.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/NateKeola/memovault/internal/detect"
	"github.com/NateKeola/memovault/internal/store"
	"github.com/NateKeola/memovault/internal/title"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Store   store.Store
	Titles  *title.Synthesizer
	Version string
}

// dbMu serializes all MCP tool calls that touch the database.
// The mcp-go library dispatches handlers concurrently via goroutines,
// and SQLite supports only one writer at a time. The pure detectors
// need no locking; only store access does.
var dbMu sync.Mutex

// NewServer creates a configured MCP server with all memovault tools
// and resources.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}

	s := server.NewMCPServer(
		"Memovault",
		ver,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
	)

	titles := cfg.Titles
	if titles == nil {
		titles = title.NewSynthesizer()
	}

	registerCaptureTool(s, cfg.Store, titles)
	registerListTool(s, cfg.Store)
	registerCompleteTool(s, cfg.Store)
	registerDetectPeopleTool(s)
	registerDetectFollowUpsTool(s, cfg.Store)
	registerTitleTool(s, titles)

	registerRecentResource(s, cfg.Store)

	return s
}

// --- Tools ---

func registerCaptureTool(s *server.MCPServer, st store.Store, titles *title.Synthesizer) {
	tool := mcp.NewTool("memo_capture",
		mcp.WithDescription("Capture a new memo. A title is synthesized unless one is supplied. Returns the stored memo plus detected people and follow-up suggestions."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The memo text"),
		),
		mcp.WithString("kind",
			mcp.Description("Memo kind: task, note, or idea (default: note)"),
			mcp.Enum("task", "note", "idea"),
		),
		mcp.WithString("title",
			mcp.Description("Explicit title; skips title synthesis"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil || strings.TrimSpace(text) == "" {
			return mcp.NewToolResultError("text is required"), nil
		}
		text = strings.ReplaceAll(text, "\x00", "")

		kind := title.KindNote
		if k, err := req.RequireString("kind"); err == nil && k != "" {
			kind = title.ParseKind(k)
		}

		memoTitle := ""
		if t, err := req.RequireString("title"); err == nil {
			memoTitle = strings.TrimSpace(t)
		}
		if memoTitle == "" {
			memoTitle = titles.Generate(ctx, text, kind)
		}

		memo := &store.Memo{
			Text:  text,
			Kind:  string(kind),
			Title: memoTitle,
		}

		dbMu.Lock()
		defer dbMu.Unlock()

		if err := st.AddMemo(ctx, memo); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("capture error: %v", err)), nil
		}

		people := detect.DetectPeople(text)
		followUps := detect.DetectFollowUps([]detect.Memo{{
			ID:        memo.ID,
			Text:      memo.Text,
			Kind:      memo.Kind,
			CreatedAt: memo.CreatedAt,
		}})
		if _, err := st.SaveFollowUps(ctx, toStoreFollowUps(followUps)); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("saving follow-ups: %v", err)), nil
		}

		result := map[string]interface{}{
			"memo":       memo,
			"people":     people,
			"follow_ups": followUps,
			"message":    fmt.Sprintf("Captured memo %s (%s)", memo.ID, memo.Kind),
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerListTool(s *server.MCPServer, st store.Store) {
	tool := mcp.NewTool("memo_list",
		mcp.WithDescription("List stored memos, newest first."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("kind",
			mcp.Description("Filter by memo kind"),
			mcp.Enum("task", "note", "idea"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of memos to return (default: 20, max: 100)"),
		),
		mcp.WithBoolean("include_completed",
			mcp.Description("Include completed memos (default: false)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		opts := store.ListOpts{Limit: 20}
		if k, err := req.RequireString("kind"); err == nil && k != "" {
			opts.Kind = k
		}
		if limitVal, err := req.RequireFloat("limit"); err == nil {
			limit := int(limitVal)
			if limit > 100 {
				limit = 100
			}
			if limit > 0 {
				opts.Limit = limit
			}
		}
		if inc, err := req.RequireString("include_completed"); err == nil {
			opts.IncludeCompleted = inc == "true"
		}

		memos, err := st.ListMemos(ctx, opts)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(memos, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerCompleteTool(s *server.MCPServer, st store.Store) {
	tool := mcp.NewTool("memo_complete",
		mcp.WithDescription("Mark a memo as completed. Completed memos are excluded from follow-up detection."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Memo ID"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		if err := st.SetMemoCompleted(ctx, id, true); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("complete error: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Memo %s marked completed", id)), nil
	})
}

func registerDetectPeopleTool(s *server.MCPServer) {
	tool := mcp.NewTool("detect_people",
		mcp.WithDescription("Detect mentioned people in text with confidence, mention type, relationship guess, and situational context. Results are suggestions for human confirmation."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to analyze"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}

		people := detect.DetectPeople(text)

		type personResult struct {
			detect.Person
			Situation detect.RelationshipContext `json:"situation"`
		}
		results := make([]personResult, 0, len(people))
		for _, p := range people {
			results = append(results, personResult{
				Person:    p,
				Situation: detect.ContextFor(text, p.Name),
			})
		}

		data, _ := json.MarshalIndent(results, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerDetectFollowUpsTool(s *server.MCPServer, st store.Store) {
	tool := mcp.NewTool("detect_followups",
		mcp.WithDescription("Scan open memos for actionable follow-up commitments ('call Sarah', 'plan lunch with Mike') and persist new suggestions."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("memo_id",
			mcp.Description("Scan a single memo by ID (default: all open memos)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		var memos []*store.Memo
		if id, err := req.RequireString("memo_id"); err == nil && id != "" {
			memo, err := st.GetMemo(ctx, id)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("get memo error: %v", err)), nil
			}
			if memo == nil {
				return mcp.NewToolResultError(fmt.Sprintf("memo %s not found", id)), nil
			}
			memos = []*store.Memo{memo}
		} else {
			var listErr error
			memos, listErr = st.ListMemos(ctx, store.ListOpts{Limit: 500})
			if listErr != nil {
				return mcp.NewToolResultError(fmt.Sprintf("list error: %v", listErr)), nil
			}
		}

		followUps := detect.DetectFollowUps(toDetectMemos(memos))
		saved, err := st.SaveFollowUps(ctx, toStoreFollowUps(followUps))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("saving follow-ups: %v", err)), nil
		}

		result := map[string]interface{}{
			"follow_ups": followUps,
			"detected":   len(followUps),
			"saved":      saved,
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerTitleTool(s *server.MCPServer, titles *title.Synthesizer) {
	tool := mcp.NewTool("generate_title",
		mcp.WithDescription("Synthesize a short title (max 50 chars) for memo text. Deterministic heuristic with optional LLM assist."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Memo text"),
		),
		mcp.WithString("kind",
			mcp.Description("Memo kind: task, note, or idea (default: note)"),
			mcp.Enum("task", "note", "idea"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}

		kind := title.KindNote
		if k, err := req.RequireString("kind"); err == nil && k != "" {
			kind = title.ParseKind(k)
		}

		return mcp.NewToolResultText(titles.Generate(ctx, text, kind)), nil
	})
}

// --- Resources ---

func registerRecentResource(s *server.MCPServer, st store.Store) {
	resource := mcp.NewResource(
		"memovault://recent",
		"Recent Memos",
		mcp.WithResourceDescription("The 20 most recently captured open memos."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		memos, err := st.ListMemos(ctx, store.ListOpts{Limit: 20})
		if err != nil {
			return nil, fmt.Errorf("reading recent memos: %w", err)
		}

		data, err := json.MarshalIndent(memos, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling recent memos: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "memovault://recent",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

// --- Conversions ---

func toDetectMemos(memos []*store.Memo) []detect.Memo {
	out := make([]detect.Memo, 0, len(memos))
	for _, m := range memos {
		out = append(out, detect.Memo{
			ID:        m.ID,
			Text:      m.Text,
			Kind:      m.Kind,
			CreatedAt: m.CreatedAt,
			Completed: m.Completed,
		})
	}
	return out
}

func toStoreFollowUps(items []detect.FollowUp) []*store.FollowUp {
	out := make([]*store.FollowUp, 0, len(items))
	for _, fu := range items {
		out = append(out, &store.FollowUp{
			ID:          fu.ID,
			MemoID:      fu.MemoID,
			Text:        fu.Text,
			Action:      fu.Action,
			ContactName: fu.ContactName,
			ContactID:   fu.ContactID,
			Priority:    string(fu.Priority),
			Context:     fu.Context,
			CreatedAt:   fu.CreatedAt,
		})
	}
	return out
}
