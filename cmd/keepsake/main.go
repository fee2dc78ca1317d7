// Package main is the keepsake CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/keepsake/internal/cli"
	"github.com/hyperjump/keepsake/internal/compose"
	"github.com/hyperjump/keepsake/internal/config"
	"github.com/hyperjump/keepsake/internal/keyword"
	"github.com/hyperjump/keepsake/internal/metrics"
	"github.com/hyperjump/keepsake/internal/models"
	"github.com/hyperjump/keepsake/internal/oracle"
	"github.com/hyperjump/keepsake/internal/records"
	"github.com/hyperjump/keepsake/internal/server"
	"github.com/hyperjump/keepsake/internal/storage"
	"github.com/hyperjump/keepsake/internal/validation"
	"github.com/hyperjump/keepsake/internal/watcher"
	"github.com/hyperjump/keepsake/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/keepsake/config.yaml"
	defaultServerURL  = "http://localhost:8080"
)

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "keepsake server" from the project dir uses the project's config (including debug).
// A missing config file yields the defaults overlaid with environment variables.
// Returns the config and the path that was actually loaded (for saving, etc.).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "compose":
		runCompose()
	case "ingest":
		runIngest()
	case "list":
		runList()
	case "show":
		runShow()
	case "search":
		runSearch()
	case "delete":
		runDelete()
	case "status":
		runStatus()
	case "inbox":
		runInbox()
	case "version", "--version", "-v":
		fmt.Printf("keepsake version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func mustFormat(s string) cli.OutputFormat {
	format, err := cli.ParseOutputFormat(s)
	if err != nil {
		fail("%v", err)
	}
	return format
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (inbox changes, oracle calls, requests)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fail("Failed to load config: %v", err)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fail("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
		zap.Bool("oracle", cfg.Oracle.EnabledOrDefault()),
	)

	collector := metrics.NewCollector("keepsake")
	components, err := initializeComponents(cfg, logger, debugMode, collector)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	if n, err := components.Records.Reindex(ctx); err != nil {
		logger.Warn("reindex failed", zap.Error(err))
	} else {
		logger.Info("keyword index ready", zap.Int("records", n))
	}

	svc := components.Records
	exts := cfg.Inbox.Extensions
	watchOpts := []watcher.Option{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.New(
		watcher.Config{
			Directories: cfg.Inbox.Directories,
			Extensions:  exts,
			Recursive:   cfg.Inbox.RecursiveOrDefault(),
		},
		watcher.HandlerFuncs{
			OnIngest: func(path string) {
				if err := svc.IngestFile(context.Background(), path, exts); err != nil {
					logger.Warn("inbox ingest failed", zap.String("path", path), zap.Error(err))
				}
			},
			OnRemove: func(path string) {
				if err := svc.RemoveFile(context.Background(), path); err != nil {
					logger.Warn("inbox remove failed", zap.String("path", path), zap.Error(err))
				}
			},
		},
		watchOpts...,
	)
	watchCtx, watchCancel := context.WithCancel(ctx)
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start inbox watcher", zap.Error(err))
	}
	watchSvc.SyncExisting()

	srvOpts := []server.Option{
		server.WithLogger(logger),
		server.WithMetrics(collector),
		server.WithWatch(watchSvc, resolvedConfigPath),
	}
	if components.Breaker != nil {
		srvOpts = append(srvOpts, server.WithOracleStatus(components.Breaker))
	}
	srv := server.NewServer(svc, cfg, srvOpts...)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	watchSvc.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(shutdownCtx)
}

func printComposeUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: keepsake compose [flags] <caption>\n\n")
	fmt.Fprintf(fs.Output(), "Caption is all remaining arguments joined by spaces. Nothing is stored.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  keepsake compose --image-count 2 "You surprised me with a candlelit dinner"
  keepsake compose --location Lisbon --seed 7 --output json we ate custard tarts by the river
  keepsake compose --no-oracle --story our first apartment
`)
}

// argsReorder moves any flags (and their values) that appear after the positional
// arguments to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument, so "keepsake search lisbon --limit 3"
// would otherwise leave --limit unparsed.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// joinArgs joins all positional args with spaces so multi-word captions and queries
// work the same with or without shell quoting.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// parseTags splits a comma-separated tag list, dropping blanks.
func parseTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func runCompose() {
	fs := flag.NewFlagSet("compose", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	imageCount := fs.Int("image-count", 1, "number of photos on the page")
	title := fs.String("title", "", "record title")
	date := fs.String("date", "", "record date")
	location := fs.String("location", "", "record location")
	tags := fs.String("tags", "", "comma-separated tags")
	seed := fs.Int64("seed", 0, "random seed for decoration picks and placement (0 = config or clock)")
	noOracle := fs.Bool("no-oracle", false, "use the rule-based fallbacks only")
	withStory := fs.Bool("story", false, "also rewrite the caption as a short story")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	fs.Usage = func() { printComposeUsage(fs) }
	_ = fs.Parse(argsReorder(os.Args[2:]))

	caption := joinArgs(fs.Args())
	if caption == "" {
		printComposeUsage(fs)
		os.Exit(1)
	}
	format := mustFormat(*outputFormat)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fail("Failed to load config: %v", err)
	}
	if *seed != 0 {
		cfg.Compose.Seed = *seed
	}
	if *noOracle {
		disabled := false
		cfg.Oracle.Enabled = &disabled
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fail("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	in := &models.RecordInput{
		Title:      *title,
		Caption:    caption,
		ImageCount: *imageCount,
		Date:       *date,
		Location:   *location,
		Tags:       parseTags(*tags),
	}
	in.Normalize()
	if err := validation.Get().Struct(in); err != nil {
		fail("Invalid record: %v", err)
	}

	var debugLogger *zap.Logger
	if cfg.Debug {
		debugLogger = logger
	}
	composer, _ := newComposer(cfg, debugLogger, nil)
	ctx := context.Background()
	comp := composer.Compose(ctx, in)
	if *withStory {
		story := composer.EnhanceStory(ctx, in)
		comp.Story = &story
	}
	if err := cli.WriteComposition(os.Stdout, comp, format); err != nil {
		fail("Output failed: %v", err)
	}
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: keepsake ingest [flags] <record-file-or-directory>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fail("Failed to load config: %v", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fail("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug, nil)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	info, err := os.Stat(path)
	if err != nil {
		fail("Failed to stat path: %v", err)
	}
	exts := cfg.Inbox.Extensions
	if info.IsDir() {
		n, err := components.Records.IngestDirectory(ctx, path, exts)
		if err != nil {
			fail("Ingesting directory failed: %v", err)
		}
		fmt.Printf("Ingested %d record file(s) from %s\n", n, path)
		return
	}
	if err := components.Records.IngestFile(ctx, path, exts); err != nil {
		fail("Ingest failed: %v", err)
	}
	fmt.Printf("Record ingested: %s\n", path)
}

func runList() {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use direct storage when server is not running)")
	offset := fs.Int("offset", 0, "number of records to skip")
	limit := fs.Int("limit", 20, "number of records to show")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(os.Args[2:])
	format := mustFormat(*outputFormat)

	var page cli.RecordPage
	if *serverURL != "" {
		q := url.Values{}
		q.Set("offset", strconv.Itoa(*offset))
		q.Set("limit", strconv.Itoa(*limit))
		if err := apiCall(http.MethodGet, *serverURL+"/api/v1/records?"+q.Encode(), nil, http.StatusOK, &page); err != nil {
			fail("List failed: %v", err)
		}
	} else {
		withDirectComponents(*configPath, func(ctx context.Context, c *Components) {
			views, err := c.Records.List(ctx, *offset, *limit)
			if err != nil {
				fail("List failed: %v", err)
			}
			total, err := c.Records.Count(ctx)
			if err != nil {
				fail("Count failed: %v", err)
			}
			page = cli.RecordPage{Records: views, Total: total, Offset: *offset, Limit: *limit}
		})
	}
	if err := cli.WriteRecords(os.Stdout, &page, format); err != nil {
		fail("Output failed: %v", err)
	}
}

func runShow() {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use direct storage when server is not running)")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	if fs.NArg() < 1 {
		fmt.Println("Usage: keepsake show [flags] <record-id>")
		os.Exit(1)
	}
	id := fs.Arg(0)
	format := mustFormat(*outputFormat)

	var view records.View
	if *serverURL != "" {
		if err := apiCall(http.MethodGet, *serverURL+"/api/v1/records/"+url.PathEscape(id), nil, http.StatusOK, &view); err != nil {
			fail("Show failed: %v", err)
		}
	} else {
		withDirectComponents(*configPath, func(ctx context.Context, c *Components) {
			v, err := c.Records.Get(ctx, id)
			if err != nil {
				fail("Show failed: %v", err)
			}
			view = *v
		})
	}
	if err := cli.WriteRecord(os.Stdout, &view, format); err != nil {
		fail("Output failed: %v", err)
	}
}

// printSearchUsage prints search subcommand usage.
func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: keepsake search [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Title, caption, location and tags are searched. When nothing matches, the
search is retried with typo tolerance and a corrected query is suggested.

Examples:
  keepsake search custard tarts
  keepsake search --fuzzy lisbn
  keepsake search --output json "first apartment"
`)
}

// searchConfigPathFromArgs returns the value of -config/--config from args if present, else defaultPath.
func searchConfigPathFromArgs(args []string, defaultPath string) string {
	for i, a := range args {
		if (a == "-config" || a == "--config") && i+1 < len(args) {
			return args[i+1]
		}
	}
	return defaultPath
}

// searchLimitDefaultFromConfig loads config at path and returns its default search
// limit. On load failure, returns 10.
func searchLimitDefaultFromConfig(path string) int {
	cfg, _, err := loadConfig(path)
	if err != nil || cfg == nil || cfg.Search.DefaultLimit <= 0 {
		return 10
	}
	return cfg.Search.DefaultLimit
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
	Fuzzy *bool  `json:"fuzzy,omitempty"`
}

func runSearch() {
	searchArgs := argsReorder(os.Args[2:])
	configPath := searchConfigPathFromArgs(searchArgs, defaultConfigPath)

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPathFlag := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use direct storage when server is not running)")
	limit := fs.Int("limit", searchLimitDefaultFromConfig(configPath), "number of results")
	fuzzyEnabled := fs.Bool("fuzzy", false, "enable fuzzy matching for typo tolerance")
	outputFormat := fs.String("output", "text", "output format: text (human-readable), compact (one result per line), or json (parseable)")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgs)

	query := joinArgs(fs.Args())
	if query == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	format := mustFormat(*outputFormat)

	var search func(fuzzy bool) (*records.SearchResult, error)
	if *serverURL != "" {
		// Use HTTP API when server is running (avoids Bleve/SQLite lock conflict).
		search = func(fuzzy bool) (*records.SearchResult, error) {
			var result records.SearchResult
			req := searchRequest{Query: query, Limit: *limit, Fuzzy: &fuzzy}
			if err := apiCall(http.MethodPost, *serverURL+"/api/v1/records/search", req, http.StatusOK, &result); err != nil {
				return nil, err
			}
			return &result, nil
		}
		writeSearch(search, *fuzzyEnabled, format)
		return
	}

	withDirectComponents(*configPathFlag, func(ctx context.Context, c *Components) {
		search = func(fuzzy bool) (*records.SearchResult, error) {
			opts := &keyword.SearchOptions{
				TitleBoost:   c.Config.Search.KeywordTitleBoost,
				FuzzyEnabled: fuzzy,
				Fuzziness:    c.Config.Search.Fuzziness,
			}
			return c.Records.Search(ctx, query, *limit, opts)
		}
		writeSearch(search, *fuzzyEnabled, format)
	})
}

// writeSearch runs search and, when nothing matches, retries with fuzzy matching.
func writeSearch(search func(fuzzy bool) (*records.SearchResult, error), fuzzy bool, format cli.OutputFormat) {
	result, err := search(fuzzy)
	if err != nil {
		fail("Search failed: %v", err)
	}
	if !fuzzy && len(result.Hits) == 0 {
		if retry, retryErr := search(true); retryErr == nil && len(retry.Hits) > 0 {
			result = retry
		}
	}
	if err := cli.WriteSearchResults(os.Stdout, result, format); err != nil {
		fail("Output failed: %v", err)
	}
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use direct storage when server is not running)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: keepsake delete [flags] <record-id>")
		os.Exit(1)
	}
	id := fs.Arg(0)

	if *serverURL != "" {
		if err := apiCall(http.MethodDelete, *serverURL+"/api/v1/records/"+url.PathEscape(id), nil, http.StatusOK, nil); err != nil {
			fail("Deletion failed: %v", err)
		}
	} else {
		withDirectComponents(*configPath, func(ctx context.Context, c *Components) {
			if err := c.Records.Delete(ctx, id); err != nil {
				fail("Deletion failed: %v", err)
			}
		})
	}
	fmt.Printf("Record deleted: %s\n", id)
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])
	format := mustFormat(*outputFormat)

	var status cli.Status
	if *serverURL != "" {
		if err := apiCall(http.MethodGet, *serverURL+"/api/v1/status", nil, http.StatusOK, &status); err != nil {
			fail("Status failed: %v", err)
		}
	} else {
		withDirectComponents(*configPath, func(ctx context.Context, c *Components) {
			count, err := c.Records.Count(ctx)
			if err != nil {
				fail("Count records failed: %v", err)
			}
			status = cli.Status{
				Records: count,
				Oracle: &cli.OracleStatus{
					Enabled: c.Config.Oracle.EnabledOrDefault(),
					Model:   c.Config.Oracle.Model,
				},
				Config: &cli.StatusConfig{
					DatabasePath: c.Config.Storage.DatabasePath,
					IndexPath:    c.Config.Storage.IndexPath,
					Seed:         c.Config.Compose.Seed,
				},
			}
			if indexed, err := c.Records.IndexedCount(); err == nil {
				status.IndexedRecords = &indexed
			}
			if c.Breaker != nil {
				status.Oracle.Circuit = c.Breaker.State()
			}
			if usage, err := storage.MeasureUsage(c.Config.Storage.DatabasePath, c.Config.Storage.IndexPath); err == nil {
				total := usage.TotalBytes()
				status.DiskUsageBytes = &total
			}
		})
	}
	if err := cli.WriteStatus(os.Stdout, &status, format); err != nil {
		fail("Output failed: %v", err)
	}
}

func runInbox() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: keepsake inbox <add|remove|list> [path]")
		fmt.Println("  keepsake inbox add <path>     Watch a directory for record files")
		fmt.Println("  keepsake inbox remove <path>  Stop watching a directory")
		fmt.Println("  keepsake inbox list           List watched directories")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("inbox", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	noSync := fs.Bool("no-sync", false, "do not ingest files already in the directory (add only)")
	_ = fs.Parse(argsReorder(os.Args[3:]))
	base := *serverURL + "/api/v1/inbox/directories"
	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fail("Usage: keepsake inbox add <path>")
		}
		path, _ := filepath.Abs(fs.Arg(0))
		sync := !*noSync
		body := map[string]interface{}{"path": path, "sync": sync}
		if err := apiCall(http.MethodPost, base, body, http.StatusCreated, nil); err != nil {
			fail("Add failed: %v", err)
		}
		fmt.Printf("Added: %s\n", path)
	case "remove":
		if fs.NArg() < 1 {
			fail("Usage: keepsake inbox remove <path>")
		}
		path, _ := filepath.Abs(fs.Arg(0))
		if err := apiCall(http.MethodDelete, base+"?path="+url.QueryEscape(path), nil, http.StatusOK, nil); err != nil {
			fail("Remove failed: %v", err)
		}
		fmt.Printf("Removed: %s\n", path)
	case "list":
		var out struct {
			Directories []string `json:"directories"`
		}
		if err := apiCall(http.MethodGet, base, nil, http.StatusOK, &out); err != nil {
			fail("List failed: %v", err)
		}
		for _, d := range out.Directories {
			fmt.Println(d)
		}
	default:
		fail("Unknown inbox subcommand: %s", sub)
	}
}

// apiCall sends an optional JSON body to the server and decodes the response into
// out when out is non-nil. Any status other than want is an error.
func apiCall(method, target string, body interface{}, want int, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, target, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// withDirectComponents opens storage and the keyword index for a command run
// without a server, calls fn, and closes everything afterwards.
func withDirectComponents(configPath string, fn func(ctx context.Context, c *Components)) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fail("Failed to load config: %v", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fail("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, cfg.Debug, nil)
	if err != nil {
		fail("Failed to initialize: %v", err)
	}
	defer components.Close()
	fn(context.Background(), components)
}

// Components holds initialized services.
type Components struct {
	Config       *config.Config
	Storage      storage.Storage
	KeywordIndex keyword.Index
	Breaker      *oracle.Breaker
	Composer     *compose.Composer
	Records      *records.Service
}

func (c *Components) Close() {
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

// newComposer builds the page composer. The oracle is wrapped in a circuit breaker
// and left out entirely when disabled or missing an API key. The returned breaker
// is nil in that case.
func newComposer(cfg *config.Config, logger *zap.Logger, collector *metrics.Collector) (*compose.Composer, *oracle.Breaker) {
	opts := []compose.Option{
		compose.WithRand(utils.NewRand(cfg.Compose.Seed)),
		compose.WithMetrics(collector),
		compose.WithLogger(logger),
	}
	var breaker *oracle.Breaker
	if cfg.Oracle.EnabledOrDefault() {
		client := oracle.NewGeminiClient(
			cfg.Oracle.Endpoint,
			cfg.Oracle.Model,
			cfg.Oracle.APIKey,
			oracle.WithTimeout(cfg.Oracle.Timeout),
			oracle.WithLogger(logger),
		)
		breaker = oracle.NewBreaker(client, oracle.BreakerConfig{
			Name:                "gemini",
			ConsecutiveFailures: cfg.Oracle.BreakerFailures,
			Cooldown:            cfg.Oracle.BreakerCooldown,
		}, logger)
		opts = append(opts, compose.WithOracle(breaker))
	}
	return compose.New(opts...), breaker
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool, collector *metrics.Collector) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	keywordIndex, err := keyword.NewBleveIndex(cfg.Storage.IndexPath)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}

	var debugLogger *zap.Logger
	if debug {
		debugLogger = logger
	}
	composer, breaker := newComposer(cfg, debugLogger, collector)
	if logger != nil {
		logger.Info("composer initialized",
			zap.Bool("oracle", breaker != nil),
			zap.String("model", cfg.Oracle.Model),
			zap.Int64("seed", cfg.Compose.Seed))
	}

	svcOpts := []records.Option{}
	if debugLogger != nil {
		svcOpts = append(svcOpts, records.WithLogger(debugLogger))
	}
	svc := records.NewService(store, keywordIndex, composer, svcOpts...)

	return &Components{
		Config:       cfg,
		Storage:      store,
		KeywordIndex: keywordIndex,
		Breaker:      breaker,
		Composer:     composer,
		Records:      svc,
	}, nil
}

func printUsage() {
	fmt.Println(`keepsake - Scrapbook page composer

Usage:
  keepsake server [flags]            Start the HTTP server and inbox watcher
  keepsake compose [flags] <caption> Compose a page without storing it
  keepsake ingest [flags] <path>     Store record files (.json, .yaml) from a file or directory
  keepsake list [flags]              List stored records
  keepsake show [flags] <id>         Show one record with its decorations
  keepsake search [flags] <query>    Search stored records
  keepsake delete [flags] <id>       Delete a record
  keepsake status [flags]            Show storage/index/oracle status
  keepsake inbox <add|remove|list>   Manage inbox directories
  keepsake version                   Show version
  keepsake help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/keepsake/config.yaml)
  --debug            Enable debug logging

Compose Flags:
  --image-count int  Number of photos on the page (default: 1)
  --title, --date, --location string
  --tags string      Comma-separated tags
  --seed int         Random seed (default from config, 0 = clock)
  --no-oracle        Use the rule-based fallbacks only
  --story            Also rewrite the caption as a short story
  --output string    Output format: text, compact, or json (default: text)

List/Show/Search/Delete/Status Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --limit int        Number of results
  --fuzzy            Enable typo tolerance (search only)
  --output string    Output format: text, compact, or json

Inbox Flags:
  --server string    Server URL (default: http://localhost:8080)
  --no-sync          Do not ingest existing files when adding a directory

Environment:
  GEMINI_API_KEY or KEEPSAKE_ORACLE_API_KEY enables the suggestion oracle.

Examples:
  keepsake server
  keepsake compose --image-count 2 "You surprised me with a candlelit dinner"
  keepsake ingest ./memories
  keepsake search custard tarts
  keepsake search --output json lisbon
  keepsake delete 5f0c9a1e-8d3b-4a59-9c1e-2f6d1b7a4e10
  keepsake status --output json
  keepsake inbox add ~/Pictures/keepsake-inbox
  keepsake inbox list`)
}
