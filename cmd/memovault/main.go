package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const version = "0.1.0-dev"

func main() {
	// Local .env is optional; real config lives in ~/.memovault/config.yaml.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	switch os.Args[1] {
	case "capture":
		if err := runCapture(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "list":
		if err := runList(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "people":
		if err := runPeople(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "followups":
		if err := runFollowUps(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "title":
		if err := runTitle(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "done":
		if err := runDone(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := runMCP(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "config":
		if err := runConfig(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version", "--version", "-v":
		fmt.Printf("memovault %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`memovault %s — Memo capture with rule-based text understanding

Usage:
  memovault <command> [arguments]

Commands:
  capture <text>      Capture a memo; synthesizes a title and detects people/follow-ups
  list                List stored memos
  people <text>       Detect mentioned people in text
  followups           Scan open memos for follow-up commitments
  title <text>        Synthesize a title for text without storing anything
  done <id>           Mark a memo completed
  mcp                 Run the MCP server on stdio
  config              Show resolved configuration and where each value came from
  version             Print version

Capture Flags:
  --kind task|note|idea   Memo kind (default: note)
  --title <text>          Explicit title, skips synthesis
  --no-llm                Heuristic titles only, never call a provider

Common Flags:
  --db <path>         Database path (default: ~/.memovault/memovault.db)
  --config <path>     Config file path (default: ~/.memovault/config.yaml)
  --llm <spec>        LLM for title assist, e.g. google/gemini-2.5-flash
  -h, --help          Show this help message
  -v, --version       Print version

Documentation:
  https://github.com/NateKeola/memovault
`, version)
}
