package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/sphinxdex"
	"github.com/fwojciec/sphinxdex/crawl"
	"github.com/fwojciec/sphinxdex/fs"
	"github.com/fwojciec/sphinxdex/gemini"
	"github.com/fwojciec/sphinxdex/goquery"
	sphinxhttp "github.com/fwojciec/sphinxdex/http"
	"github.com/fwojciec/sphinxdex/porter"
	"github.com/fwojciec/sphinxdex/search"
	sphinxslog "github.com/fwojciec/sphinxdex/slog"
	"github.com/fwojciec/sphinxdex/sqlite"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(); --db and SPHINXDEX_DB
	// take precedence.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ProjectService sphinxdex.ProjectService
	IndexService   sphinxdex.IndexService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sphinxdex"),
		kong.Description("Search Sphinx documentation offline through its search index."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sphinxdex --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := kongCtx.Selected()
	if cmd == nil {
		return nil
	}

	var logger *slog.Logger
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SPHINXDEX_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.ProjectService = sqlite.NewProjectService(m.DB)
	m.IndexService = sqlite.NewIndexService(m.DB)
	deps.DB = m.DB
	deps.Projects = m.ProjectService
	deps.Indexes = m.IndexService
	if logger != nil {
		deps.Indexes = sphinxslog.NewLoggingIndexService(deps.Indexes, logger)
	}

	deps.Stemmer = porter.NewStemmer()

	var searchSvc sphinxdex.SearchService = &search.Service{
		Projects:    deps.Projects,
		Indexes:     deps.Indexes,
		Searcher:    search.NewSearcher(deps.Stemmer),
		Concurrency: cli.Concurrency,
	}
	if logger != nil {
		searchSvc = sphinxslog.NewLoggingSearchService(searchSvc, logger)
	}
	deps.Search = searchSvc

	switch cmd.Name {
	case "add", "update", "validate":
		var fetcher sphinxdex.Fetcher = sphinxhttp.NewFetcher(sphinxhttp.WithTimeout(cli.Timeout))
		defer fetcher.Close()

		var locator sphinxdex.Locator = goquery.NewLocator()
		var logf crawl.LogFunc
		if logger != nil {
			fetcher = sphinxslog.NewLoggingFetcher(fetcher, logger)
			locator = sphinxslog.NewLoggingLocator(locator, goquery.NewDetector(), logger)
			logf = func(format string, args ...any) {
				logger.Info(fmt.Sprintf(format, args...))
			}
		}

		deps.Importer = &crawl.Importer{
			Projects:    deps.Projects,
			Indexes:     deps.Indexes,
			Fetcher:     fetcher,
			Files:       fs.NewFetcher(),
			Locator:     locator,
			RateLimiter: crawl.NewDomainLimiter(cli.RPS),
			Concurrency: cli.Concurrency,
			Logger:      logf,
		}

	case "ask":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		asker := gemini.NewAsker(client, deps.Projects, deps.Search)
		if tokens, err := gemini.NewTokenCounter(gemini.Model); err == nil {
			asker.Tokens = tokens
			asker.MaxPromptTokens = maxPromptTokens
		} else if logger != nil {
			logger.Warn("token counting disabled", "err", err)
		}

		deps.Asker = asker
		if logger != nil {
			deps.Asker = sphinxslog.NewLoggingAsker(asker, logger)
		}
	}

	return kongCtx.Run(deps)
}

// maxPromptTokens bounds the search results sent with a question.
const maxPromptTokens = 8000

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "sphinxdex.db"
	}
	dir := filepath.Join(home, ".sphinxdex")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "sphinxdex.db")
}
