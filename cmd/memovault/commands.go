package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/NateKeola/memovault/internal/config"
	"github.com/NateKeola/memovault/internal/detect"
	"github.com/NateKeola/memovault/internal/llm"
	"github.com/NateKeola/memovault/internal/store"
	"github.com/NateKeola/memovault/internal/title"
)

// commonFlags are accepted by every command that touches the store or
// the title synthesizer.
type commonFlags struct {
	configPath string
	dbPath     string
	llmSpec    string
	noLLM      bool
}

// parseCommon extracts the shared flags from args and returns the
// remaining positional arguments.
func parseCommon(args []string, flags *commonFlags) ([]string, error) {
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--config" && i+1 < len(args):
			i++
			flags.configPath = args[i]
		case strings.HasPrefix(args[i], "--config="):
			flags.configPath = strings.TrimPrefix(args[i], "--config=")
		case args[i] == "--db" && i+1 < len(args):
			i++
			flags.dbPath = args[i]
		case strings.HasPrefix(args[i], "--db="):
			flags.dbPath = strings.TrimPrefix(args[i], "--db=")
		case args[i] == "--llm" && i+1 < len(args):
			i++
			flags.llmSpec = args[i]
		case strings.HasPrefix(args[i], "--llm="):
			flags.llmSpec = strings.TrimPrefix(args[i], "--llm=")
		case args[i] == "--no-llm":
			flags.noLLM = true
		default:
			rest = append(rest, args[i])
		}
	}
	return rest, nil
}

func resolveConfig(flags commonFlags) (config.ResolvedConfig, error) {
	return config.ResolveConfig(config.ResolveOptions{
		ConfigPath: flags.configPath,
		CLILLM:     flags.llmSpec,
		CLIDBPath:  flags.dbPath,
	})
}

func openStore(resolved config.ResolvedConfig) (store.Store, error) {
	s, err := store.NewStore(store.Config{DBPath: resolved.DBPath.Value})
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return s, nil
}

// buildSynthesizer wires a title synthesizer from resolved config.
// Without a usable provider it stays heuristic-only, which is always a
// valid configuration.
func buildSynthesizer(resolved config.ResolvedConfig, noLLM bool) *title.Synthesizer {
	opts := []title.Option{
		title.WithCache(title.NewCache(resolved.CacheSize(title.DefaultCacheSize))),
	}
	if !noLLM && resolved.LLMModel.Value != "" {
		cfg, err := llm.ParseFlag(resolved.LLMModel.Value)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (falling back to heuristic titles)\n", err)
		} else {
			cfg.APIKey = resolved.APIKeyForProvider(resolved.LLMModel.Value).Value
			provider, err := llm.NewProvider(cfg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v (falling back to heuristic titles)\n", err)
			} else {
				opts = append(opts, title.WithProvider(provider))
			}
		}
	}
	return title.NewSynthesizer(opts...)
}

func runCapture(args []string) error {
	var flags commonFlags
	kind := "note"
	explicitTitle := ""

	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--kind" && i+1 < len(args):
			i++
			kind = strings.ToLower(strings.TrimSpace(args[i]))
		case strings.HasPrefix(args[i], "--kind="):
			kind = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(args[i], "--kind=")))
		case args[i] == "--title" && i+1 < len(args):
			i++
			explicitTitle = args[i]
		case strings.HasPrefix(args[i], "--title="):
			explicitTitle = strings.TrimPrefix(args[i], "--title=")
		default:
			rest = append(rest, args[i])
		}
	}
	rest, err := parseCommon(rest, &flags)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return fmt.Errorf("usage: memovault capture <text> [--kind task|note|idea] [--title <text>]")
	}
	text := strings.TrimSpace(strings.Join(rest, " "))
	if text == "" {
		return fmt.Errorf("memo text is empty")
	}

	resolved, err := resolveConfig(flags)
	if err != nil {
		return err
	}
	s, err := openStore(resolved)
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := context.Background()

	memoKind := title.ParseKind(kind)
	memoTitle := strings.TrimSpace(explicitTitle)
	if memoTitle == "" {
		memoTitle = buildSynthesizer(resolved, flags.noLLM).Generate(ctx, text, memoKind)
	}

	memo := &store.Memo{Text: text, Kind: string(memoKind), Title: memoTitle}
	if err := s.AddMemo(ctx, memo); err != nil {
		return fmt.Errorf("saving memo: %w", err)
	}

	fmt.Printf("Captured %s memo %s\n", memo.Kind, memo.ID)
	fmt.Printf("  Title: %s\n", memo.Title)

	people := detect.DetectPeople(text)
	for _, p := range people {
		line := fmt.Sprintf("  Person: %s (%.2f, %s)", p.Name, p.Confidence, p.MentionType)
		if p.Relationship != "" {
			line += " — " + p.Relationship
		}
		fmt.Println(line)
	}

	followUps := detect.DetectFollowUps([]detect.Memo{{
		ID:        memo.ID,
		Text:      memo.Text,
		Kind:      memo.Kind,
		CreatedAt: memo.CreatedAt,
	}})
	if len(followUps) > 0 {
		if _, err := s.SaveFollowUps(ctx, toStoreFollowUps(followUps)); err != nil {
			return fmt.Errorf("saving follow-ups: %w", err)
		}
		for _, fu := range followUps {
			fmt.Printf("  Follow-up: %s [%s]\n", fu.Text, fu.Priority)
		}
	}
	return nil
}

func runList(args []string) error {
	var flags commonFlags
	opts := store.ListOpts{Limit: 20}
	format := "table"

	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--kind" && i+1 < len(args):
			i++
			opts.Kind = strings.ToLower(strings.TrimSpace(args[i]))
		case strings.HasPrefix(args[i], "--kind="):
			opts.Kind = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(args[i], "--kind=")))
		case args[i] == "--limit" && i+1 < len(args):
			i++
			fmt.Sscanf(args[i], "%d", &opts.Limit)
		case strings.HasPrefix(args[i], "--limit="):
			fmt.Sscanf(strings.TrimPrefix(args[i], "--limit="), "%d", &opts.Limit)
		case args[i] == "--all":
			opts.IncludeCompleted = true
		case args[i] == "--format" && i+1 < len(args):
			i++
			format = strings.ToLower(strings.TrimSpace(args[i]))
		case strings.HasPrefix(args[i], "--format="):
			format = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(args[i], "--format=")))
		default:
			rest = append(rest, args[i])
		}
	}
	rest, err := parseCommon(rest, &flags)
	if err != nil {
		return err
	}
	for _, arg := range rest {
		if strings.HasPrefix(arg, "-") {
			return fmt.Errorf("unknown flag: %s", arg)
		}
		return fmt.Errorf("unexpected argument: %s", arg)
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}

	resolved, err := resolveConfig(flags)
	if err != nil {
		return err
	}
	s, err := openStore(resolved)
	if err != nil {
		return err
	}
	defer s.Close()

	memos, err := s.ListMemos(context.Background(), opts)
	if err != nil {
		return fmt.Errorf("listing memos: %w", err)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(memos)
	case "table":
		fmt.Printf("%-36s %-5s %-5s %-40s %s\n", "ID", "KIND", "DONE", "TITLE", "CREATED")
		for _, m := range memos {
			done := ""
			if m.Completed {
				done = "yes"
			}
			t := m.Title
			if len(t) > 40 {
				t = t[:39] + "…"
			}
			fmt.Printf("%-36s %-5s %-5s %-40s %s\n", m.ID, m.Kind, done, t, m.CreatedAt.Format("2006-01-02 15:04"))
		}
		fmt.Printf("\n%d memos\n", len(memos))
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: json, table)", format)
	}
}

func runPeople(args []string) error {
	var flags commonFlags
	rest, err := parseCommon(args, &flags)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return fmt.Errorf("usage: memovault people <text>")
	}
	text := strings.Join(rest, " ")

	people := detect.DetectPeople(text)
	if len(people) == 0 {
		fmt.Println("No people detected")
		return nil
	}
	for _, p := range people {
		fmt.Printf("%s  %.2f  %s\n", p.Name, p.Confidence, p.MentionType)
		if p.Relationship != "" {
			fmt.Printf("  relationship: %s\n", p.Relationship)
		}
		situation := detect.ContextFor(text, p.Name)
		fmt.Printf("  situation: %s / %s (%s)\n", situation.Type, situation.Activity, situation.Sentiment)
		if p.Context != "" {
			fmt.Printf("  context: %s\n", p.Context)
		}
	}
	return nil
}

func runFollowUps(args []string) error {
	var flags commonFlags
	rest, err := parseCommon(args, &flags)
	if err != nil {
		return err
	}
	for _, arg := range rest {
		return fmt.Errorf("unexpected argument: %s", arg)
	}

	resolved, err := resolveConfig(flags)
	if err != nil {
		return err
	}
	s, err := openStore(resolved)
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := context.Background()

	memos, err := s.ListMemos(ctx, store.ListOpts{Limit: 500})
	if err != nil {
		return fmt.Errorf("listing memos: %w", err)
	}

	detectMemos := make([]detect.Memo, 0, len(memos))
	for _, m := range memos {
		detectMemos = append(detectMemos, detect.Memo{
			ID:        m.ID,
			Text:      m.Text,
			Kind:      m.Kind,
			CreatedAt: m.CreatedAt,
			Completed: m.Completed,
		})
	}

	followUps := detect.DetectFollowUps(detectMemos)
	saved, err := s.SaveFollowUps(ctx, toStoreFollowUps(followUps))
	if err != nil {
		return fmt.Errorf("saving follow-ups: %w", err)
	}

	for _, fu := range followUps {
		fmt.Printf("- %s [%s]\n", fu.Text, fu.Priority)
		fmt.Printf("  memo: %s\n", fu.MemoID)
	}
	fmt.Printf("\n%d detected, %d new\n", len(followUps), saved)
	return nil
}

func runTitle(args []string) error {
	var flags commonFlags
	kind := "note"

	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--kind" && i+1 < len(args):
			i++
			kind = strings.ToLower(strings.TrimSpace(args[i]))
		case strings.HasPrefix(args[i], "--kind="):
			kind = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(args[i], "--kind=")))
		default:
			rest = append(rest, args[i])
		}
	}
	rest, err := parseCommon(rest, &flags)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return fmt.Errorf("usage: memovault title <text> [--kind task|note|idea]")
	}
	text := strings.Join(rest, " ")

	resolved, err := resolveConfig(flags)
	if err != nil {
		return err
	}
	synth := buildSynthesizer(resolved, flags.noLLM)
	fmt.Println(synth.Generate(context.Background(), text, title.ParseKind(kind)))
	return nil
}

func runDone(args []string) error {
	var flags commonFlags
	rest, err := parseCommon(args, &flags)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("usage: memovault done <memo-id>")
	}

	resolved, err := resolveConfig(flags)
	if err != nil {
		return err
	}
	s, err := openStore(resolved)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.SetMemoCompleted(context.Background(), rest[0], true); err != nil {
		return fmt.Errorf("completing memo: %w", err)
	}
	fmt.Printf("Memo %s marked completed\n", rest[0])
	return nil
}

func runConfig(args []string) error {
	var flags commonFlags
	if _, err := parseCommon(args, &flags); err != nil {
		return err
	}

	resolved, err := resolveConfig(flags)
	if err != nil {
		return err
	}

	// Keys are secrets. Show where they came from, never the value.
	for provider, v := range resolved.LLMKeys {
		v.Value = "(set)"
		resolved.LLMKeys[provider] = v
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resolved)
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
