// Command fluxedit is a CLI front end over the four operations
// internal/api exposes, standing in for the out-of-scope MCP transport.
// Grounded on termfx-morfx's demo/cmd/main.go: a cobra root command with
// subcommands, colorized status lines via github.com/fatih/color (also
// a dependency of mutagen-io-mutagen and stacklok-frizbee in the wider
// retrieval pack), and plain os.Exit(1) on failure.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rahul1-bot/flux-mcp/internal/api"
	"github.com/rahul1-bot/flux-mcp/internal/checkpoint"
	"github.com/rahul1-bot/flux-mcp/internal/config"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
)

// globalFlags are the root command's persistent flags, shared by every
// subcommand so each one builds its own config.Options and api.Service
// the same way.
type globalFlags struct {
	envFile      string
	checkpointDB string
	debug        bool
}

func (g *globalFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&g.envFile, "env", "", "optional .env file to overlay FLUX_* settings from")
	cmd.PersistentFlags().StringVar(&g.checkpointDB, "checkpoint-db", "", "path to the checkpoint SQLite database (checkpointing disabled if empty)")
	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable verbose checkpoint store logging")
}

// newService builds one api.Service per invocation, connecting a
// checkpoint store only when --checkpoint-db was given — a bare CLI run
// of read/write/search has no reason to touch a database.
func (g *globalFlags) newService() (*api.Service, error) {
	opts := config.Load(g.envFile)
	opts.Debug = g.debug

	var store *checkpoint.Store
	if g.checkpointDB != "" {
		s, err := checkpoint.Connect(g.checkpointDB, g.debug)
		if err != nil {
			return nil, err
		}
		store = s
	}

	return api.New(opts, store), nil
}

// toRawMessage turns a CLI string flag into JSON the decoders in
// internal/api expect: passed through unchanged when it already looks
// like a JSON object/array (the target-spec object and batch_mode array
// shapes), quoted as a JSON string otherwise (the plain-name shorthand).
func toRawMessage(s string) json.RawMessage {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return json.RawMessage(trimmed)
	}
	quoted, _ := json.Marshal(trimmed)
	return quoted
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, red("failed to encode result: "+err.Error()))
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, red("error: "+err.Error()))
	os.Exit(1)
}

func newReadCmd(g *globalFlags) *cobra.Command {
	var path, encoding string
	var startLine, endLine int
	var hasRange bool

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read a file's content, optionally a line range",
		Run: func(cmd *cobra.Command, args []string) {
			svc, err := g.newService()
			if err != nil {
				fail(err)
			}
			defer svc.Close()

			req := api.ReadFileRequest{Path: path, Encoding: encoding}
			if hasRange {
				req.StartLine = &startLine
				req.EndLine = &endLine
			}

			text, err := svc.ReadFile(req)
			if err != nil {
				fail(err)
			}
			fmt.Print(text)
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "file to read (required)")
	cmd.Flags().StringVar(&encoding, "encoding", "", "caller-specified encoding (detected if empty)")
	cmd.Flags().IntVar(&startLine, "start-line", 0, "0-indexed first line to read")
	cmd.Flags().IntVar(&endLine, "end-line", 0, "0-indexed last line to read (inclusive)")
	cmd.Flags().BoolVar(&hasRange, "range", false, "read only [start-line, end-line] instead of the whole file")
	cmd.MarkFlagRequired("path")
	return cmd
}

func newWriteCmd(g *globalFlags) *cobra.Command {
	var path, content, encoding string
	var createDirs, simpleMode bool

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write content to a file",
		Run: func(cmd *cobra.Command, args []string) {
			svc, err := g.newService()
			if err != nil {
				fail(err)
			}
			defer svc.Close()

			req := api.WriteFileRequest{Path: path, Content: content, Encoding: encoding}
			if cmd.Flags().Changed("create-dirs") {
				req.CreateDirs = &createDirs
			}
			if cmd.Flags().Changed("simple-mode") {
				req.SimpleMode = &simpleMode
			}

			status, err := svc.WriteFile(req)
			if err != nil {
				fail(err)
			}
			fmt.Println(green(status))
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "file to write (required)")
	cmd.Flags().StringVar(&content, "content", "", "content to write")
	cmd.Flags().StringVar(&encoding, "encoding", "", "encoding to write in (defaults to utf-8)")
	cmd.Flags().BoolVar(&createDirs, "create-dirs", true, "create missing parent directories")
	cmd.Flags().BoolVar(&simpleMode, "simple-mode", false, "force the direct-write fast path")
	cmd.MarkFlagRequired("path")
	return cmd
}

func newSearchCmd(g *globalFlags) *cobra.Command {
	var path, pattern string
	var isRegex, caseSensitive, wholeWord, simpleMode bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search a file for a literal or regex pattern",
		Run: func(cmd *cobra.Command, args []string) {
			svc, err := g.newService()
			if err != nil {
				fail(err)
			}
			defer svc.Close()

			req := api.SearchRequest{Path: path, Pattern: pattern, IsRegex: isRegex, WholeWord: wholeWord}
			if cmd.Flags().Changed("case-sensitive") {
				req.CaseSensitive = &caseSensitive
			}
			if cmd.Flags().Changed("simple-mode") {
				req.SimpleMode = &simpleMode
			}

			results, err := svc.Search(req)
			if err != nil {
				fail(err)
			}
			printJSON(results)
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "file to search (required)")
	cmd.Flags().StringVar(&pattern, "pattern", "", "literal text or regex to search for (required)")
	cmd.Flags().BoolVar(&isRegex, "regex", false, "treat pattern as a regular expression")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", true, "case-sensitive matching")
	cmd.Flags().BoolVar(&wholeWord, "whole-word", false, "match whole words only")
	cmd.Flags().BoolVar(&simpleMode, "simple-mode", false, "force the direct-read fast path")
	cmd.MarkFlagRequired("path")
	cmd.MarkFlagRequired("pattern")
	return cmd
}

func newReplaceCmd(g *globalFlags) *cobra.Command {
	var path, highlight, replaceWith, checkpointName string
	var autoCheckpoint, dryRun, batchMode bool

	cmd := &cobra.Command{
		Use:   "replace",
		Short: "Replace a named block, pattern, or line range in a file",
		Run: func(cmd *cobra.Command, args []string) {
			svc, err := g.newService()
			if err != nil {
				fail(err)
			}
			defer svc.Close()

			result, err := svc.TextReplace(context.Background(), api.TextReplaceRequest{
				Path:           path,
				Highlight:      toRawMessage(highlight),
				ReplaceWith:    toRawMessage(replaceWith),
				Checkpoint:     checkpointName,
				AutoCheckpoint: autoCheckpoint,
				DryRun:         dryRun,
				BatchMode:      batchMode,
			})
			if err != nil {
				fail(err)
			}

			printJSON(result)
			if !result.Success {
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "file to modify (required)")
	cmd.Flags().StringVar(&highlight, "highlight", "", "target name, or a JSON target-spec object/array (required)")
	cmd.Flags().StringVar(&replaceWith, "replace-with", "", "replacement text, or a JSON array in --batch-mode")
	cmd.Flags().StringVar(&checkpointName, "checkpoint", "", "capture a named checkpoint before staging the write")
	cmd.Flags().BoolVar(&autoCheckpoint, "auto-checkpoint", false, "capture an automatically named checkpoint")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute the result without writing")
	cmd.Flags().BoolVar(&batchMode, "batch-mode", false, "treat --highlight/--replace-with as parallel JSON arrays")
	cmd.MarkFlagRequired("path")
	cmd.MarkFlagRequired("highlight")
	return cmd
}

func main() {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "fluxedit",
		Short: "Structured, transaction-safe text editing over files",
		Long:  "fluxedit exposes read_file, write_file, search, and text_replace as CLI subcommands.",
	}
	g.register(rootCmd)

	rootCmd.AddCommand(
		newReadCmd(g),
		newWriteCmd(g),
		newSearchCmd(g),
		newReplaceCmd(g),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(cyan(err.Error()))
		os.Exit(1)
	}
}
