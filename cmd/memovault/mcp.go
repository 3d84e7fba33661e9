package main

import (
	"fmt"

	"github.com/NateKeola/memovault/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// runMCP starts the MCP server on stdio. Logging goes to stderr so the
// protocol stream stays clean.
func runMCP(args []string) error {
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

	srv := mcp.NewServer(mcp.ServerConfig{
		Store:   s,
		Titles:  buildSynthesizer(resolved, flags.noLLM),
		Version: version,
	})

	if err := server.ServeStdio(srv); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
