// Command docsearch synthesizes the page layout of a local document and
// searches it without running the HTTP service.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/abiiranathan/goflag"
	"github.com/dgallion1/docsearch/internal/config"
	"github.com/dgallion1/docsearch/internal/doctree"
	"github.com/dgallion1/docsearch/internal/layout"
	"github.com/dgallion1/docsearch/internal/parser"
	"github.com/dgallion1/docsearch/internal/search"
)

// cliConfig holds parsed flag values.
type cliConfig struct {
	Filename string
	Pattern  string
	Format   string
	Width    int

	LinesPerPage int
	CharsPerLine int
	Rules        string
	Context      int

	Opts search.Options
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	base, err := config.Load()
	if err != nil {
		log.Error("load configuration", "error", err)
		os.Exit(1)
	}
	cfg := &cliConfig{
		Format:       "text",
		Width:        terminalWidth(),
		LinesPerPage: base.LinesPerPage,
		CharsPerLine: base.CharsPerLine,
		Rules:        base.SectionRules,
		Context:      base.ContextWindow,
	}

	ctx := defineFlags(cfg, log, base.Parser())
	subcmd, err := ctx.Parse(os.Args)
	if err != nil {
		log.Error("parse arguments", "error", err)
		os.Exit(2)
	}
	if subcmd == nil {
		ctx.PrintUsage(os.Stdout)
		os.Exit(1)
	}
	subcmd.Handler()
}

func defineFlags(cfg *cliConfig, log *slog.Logger, parserOpts parser.Options) *goflag.Context {
	fileFlag := goflag.Flag{
		FlagType:  goflag.FlagFilePath,
		Name:      "file",
		ShortName: "f",
		Value:     &cfg.Filename,
		Usage:     "The document to read",
		Required:  true,
	}
	formatFlag := goflag.Flag{
		FlagType:  goflag.FlagString,
		Name:      "format",
		ShortName: "o",
		Value:     &cfg.Format,
		Usage:     "Output format: text, json or yaml",
		Required:  false,
	}

	ctx := goflag.NewContext()

	// Layout geometry applies to every subcommand.
	ctx.AddFlag(goflag.FlagInt, "lines", "l", &cfg.LinesPerPage, "Lines per synthetic page", false, goflag.Min(1))
	ctx.AddFlag(goflag.FlagInt, "chars", "c", &cfg.CharsPerLine, "Characters per line", false, goflag.Min(1))
	ctx.AddFlag(goflag.FlagString, "rules", "r", &cfg.Rules, "Section rules: basic or advanced", false)
	ctx.AddFlag(goflag.FlagInt, "width", "w", &cfg.Width, "Terminal width for text output", false, goflag.Min(20))

	run := func(fn func(*doctree.Layout) error) func() {
		return func() {
			l, err := loadLayout(cfg, parserOpts)
			if err == nil {
				err = fn(l)
			}
			if err != nil {
				log.Error(subcommandName(), "file", cfg.Filename, "error", err)
				os.Exit(1)
			}
		}
	}

	ctx.AddSubCommand("layout", "Print the synthesized pages of a document", run(func(l *doctree.Layout) error {
		return renderLayout(os.Stdout, l, cfg.Format, cfg.Width)
	})).AddFlagPtr(&fileFlag).AddFlagPtr(&formatFlag)

	ctx.AddSubCommand("outline", "Print the detected section headings", run(func(l *doctree.Layout) error {
		return renderOutline(os.Stdout, l, cfg.Format)
	})).AddFlagPtr(&fileFlag).AddFlagPtr(&formatFlag)

	ctx.AddSubCommand("search", "Search a document with page and line attribution", run(func(l *doctree.Layout) error {
		engine := search.NewEngine(search.Config{ContextWindow: cfg.Context}, log)
		matches := engine.Search(l, cfg.Pattern, cfg.Opts)
		return renderMatches(os.Stdout, l, cfg.Pattern, matches, cfg.Format, cfg.Width)
	})).AddFlagPtr(&fileFlag).AddFlagPtr(&formatFlag).
		AddFlag(goflag.FlagString, "pattern", "p", &cfg.Pattern, "The search term, wildcard or regex pattern", true).
		AddFlag(goflag.FlagBool, "case", "C", &cfg.Opts.MatchCase, "Match case", false).
		AddFlag(goflag.FlagBool, "word", "W", &cfg.Opts.WholeWord, "Match whole words only", false).
		AddFlag(goflag.FlagBool, "wildcards", "g", &cfg.Opts.UseWildcards, "Treat * and ? as wildcards", false).
		AddFlag(goflag.FlagBool, "regex", "E", &cfg.Opts.UseRegex, "Treat the pattern as a regular expression", false).
		AddFlag(goflag.FlagBool, "backwards", "B", &cfg.Opts.SearchBackwards, "List matches last to first", false).
		AddFlag(goflag.FlagInt, "context", "x", &cfg.Context, "Runes of context on each side of a match", false)

	return ctx
}

// loadLayout parses the file named by cfg and synthesizes its layout.
func loadLayout(cfg *cliConfig, parserOpts parser.Options) (*doctree.Layout, error) {
	rules, err := layout.ParseRules(cfg.Rules)
	if err != nil {
		return nil, err
	}
	p, err := parser.ForFile(cfg.Filename, parserOpts)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(cfg.Filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := p.Parse(f, cfg.Filename)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return layout.Build(src, layout.Config{
		LinesPerPage: cfg.LinesPerPage,
		CharsPerLine: cfg.CharsPerLine,
		Rules:        rules,
	}), nil
}

func subcommandName() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return "docsearch"
}

// terminalWidth reads $COLUMNS, defaulting to 100.
func terminalWidth() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return 100
}
