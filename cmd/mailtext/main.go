package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/mailtext"
	"github.com/fwojciec/mailtext/bloom"
	"github.com/fwojciec/mailtext/goquery"
	mailhttp "github.com/fwojciec/mailtext/http"
	"github.com/fwojciec/mailtext/readability"
	"github.com/fwojciec/mailtext/rod"
	"github.com/fwojciec/mailtext/scan"
	mailslog "github.com/fwojciec/mailtext/slog"
	"github.com/fwojciec/mailtext/sqlite"
	"github.com/fwojciec/mailtext/trafilatura"
	mailyaml "github.com/fwojciec/mailtext/yaml"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	AnalysisService mailtext.AnalysisService
	Analyzer        mailtext.Analyzer

	// Backoff between analysis retries. Nil uses scan.DefaultRetryDelays.
	RetryDelays []time.Duration
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
		kong.Name("mailtext"),
		kong.Description("Extract email text from rendered mail views and check it for phishing"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'mailtext --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	logger := slog.New(slog.DiscardHandler)
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	// Profiles
	deps.Profiles = mailtext.DefaultProfiles()
	if cli.ProfilesFile != "" {
		loaded, err := mailyaml.LoadProfilesFile(cli.ProfilesFile)
		if err != nil {
			fmt.Fprintf(stderr, "Hint: Check MAILTEXT_PROFILES or --profiles-file\n")
			return fmt.Errorf("failed to load profiles: %w", err)
		}
		deps.Profiles.Merge(loaded...)
	}

	if cmd == "profiles" {
		return kongCtx.Run(deps)
	}

	// Database
	if cmd == "analyze" || cmd == "history" {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set MAILTEXT_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		if m.AnalysisService == nil {
			m.AnalysisService = sqlite.NewAnalysisService(m.DB)
		}
		deps.Analyses = mailslog.NewLoggingAnalysisService(m.AnalysisService, logger)
	}

	if cmd == "history" {
		return kongCtx.Run(deps)
	}

	// Document loading
	var (
		profile string
		live    bool
	)
	switch cmd {
	case "extract":
		profile, live = cli.Extract.Profile, cli.Extract.Live
	case "analyze":
		profile, live = cli.Analyze.Profile, cli.Analyze.Live
	}

	loader := &sourceLoader{
		files: goquery.NewLoader(),
		web:   mailhttp.NewFetcher(mailhttp.WithTimeout(cli.Timeout)),
	}
	if live {
		browser, err := rod.NewBrowser()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer browser.Close()
		loader.web = rod.NewLoader(browser, rod.WithLoadTimeout(cli.Timeout))
	}

	deps.Scanner = &scan.Scanner{
		Loader: mailslog.NewLoggingLoader(loader, logger),
		Capturer: &scan.Capturer{
			Engine:   mailtext.NewEngine(),
			Fallback: contentLocator(cli.Fallback),
		},
		Profiles: deps.Profiles,
		Profile:  profile,
		Detector: mailslog.NewLoggingDetector(goquery.NewDetector(deps.Profiles, mailtext.ProfileGeneric), logger),
	}

	if cmd == "analyze" {
		if m.Analyzer == nil {
			m.Analyzer = mailhttp.NewAnalyzer(cli.Analyze.Server,
				mailhttp.WithTimeout(cli.Timeout),
				mailhttp.WithRateLimit(cli.Analyze.RateLimit),
			)
		}

		seen, err := seedFilter(ctx, deps.Analyses)
		if err != nil {
			return fmt.Errorf("failed to load analysis history: %w", err)
		}

		deps.Scanner.Analyzer = mailslog.NewLoggingAnalyzer(m.Analyzer, logger)
		deps.Scanner.Analyses = deps.Analyses
		deps.Scanner.Seen = seen
		deps.Scanner.NoCache = cli.Analyze.NoCache
		deps.Scanner.Concurrency = cli.Analyze.Concurrency
		deps.Scanner.RetryDelays = m.RetryDelays
	}

	return kongCtx.Run(deps)
}

// Bloom filter sizing for the analysis cache prefilter.
const (
	seenExpectedHashes    = 10000
	seenFalsePositiveRate = 0.01
)

// seedFilter builds a prefilter holding every stored content hash.
func seedFilter(ctx context.Context, analyses mailtext.AnalysisService) (*bloom.Filter, error) {
	hashes, err := analyses.ContentHashes(ctx)
	if err != nil {
		return nil, err
	}
	n := uint(max(len(hashes)*2, seenExpectedHashes))
	seen := bloom.NewFilter(n, seenFalsePositiveRate)
	for _, h := range hashes {
		seen.Add(h)
	}
	return seen, nil
}

func defaultDBPath() string {
	if path := os.Getenv("MAILTEXT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "mailtext.db"
	}
	dir := filepath.Join(home, ".mailtext")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "mailtext.db")
}

// contentLocator returns the main content heuristic named by the --fallback flag.
func contentLocator(name string) mailtext.ContentLocator {
	switch name {
	case "trafilatura":
		return trafilatura.NewLocator()
	case "none":
		return nil
	}
	return readability.NewLocator()
}
