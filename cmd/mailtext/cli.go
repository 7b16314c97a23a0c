package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/mailtext"
	"github.com/fwojciec/mailtext/scan"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Profiles mailtext.Profiles
	Scanner  *scan.Scanner
	Analyses mailtext.AnalysisService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose      bool          `short:"v" help:"Log service calls to stderr"`
	ProfilesFile string        `name:"profiles-file" env:"MAILTEXT_PROFILES" type:"existingfile" help:"YAML file with extra selector profiles"`
	Timeout      time.Duration `short:"t" default:"10s" help:"Timeout per page load and analysis request"`
	Fallback     string        `default:"readability" enum:"readability,trafilatura,none" help:"Main content heuristic for profiles that allow it (readability, trafilatura, none)"`

	Extract  ExtractCmd  `cmd:"" help:"Extract subject and body text from a mail view"`
	Analyze  AnalyzeCmd  `cmd:"" help:"Extract mail views and check them for phishing"`
	History  HistoryCmd  `cmd:"" help:"List stored analyses"`
	Profiles ProfilesCmd `cmd:"" help:"List selector profiles"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Source  string `arg:"" help:"HTML file path or URL"`
	Profile string `short:"p" default:"auto" help:"Selector profile (auto detects)"`
	Live    bool   `short:"l" help:"Render URLs in headless Chrome"`
	JSON    bool   `name:"json" help:"Print JSON"`
}

// AnalyzeCmd is the "analyze" subcommand.
type AnalyzeCmd struct {
	Sources     []string `arg:"" help:"HTML file paths or URLs"`
	Server      string   `short:"s" env:"MAILTEXT_SERVER" default:"http://127.0.0.1:5000" help:"Analysis server base URL"`
	Profile     string   `short:"p" default:"auto" help:"Selector profile (auto detects)"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent scan limit"`
	RateLimit   float64  `name:"rate-limit" default:"0" help:"Max analysis requests per second (0 = unlimited)"`
	Live        bool     `short:"l" help:"Render URLs in headless Chrome"`
	NoCache     bool     `name:"no-cache" help:"Ignore stored verdicts"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Limit    int  `short:"n" default:"20" help:"Number of analyses to show"`
	Phishing bool `help:"Show only phishing verdicts"`
}

// ProfilesCmd is the "profiles" subcommand.
type ProfilesCmd struct{}
