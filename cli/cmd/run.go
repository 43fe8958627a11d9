package cmd

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/arrecife-io/ocimport/adapter"
	"github.com/arrecife-io/ocimport/adapter/redis"
	"github.com/arrecife-io/ocimport/adapter/webhook"
	"github.com/arrecife-io/ocimport/cli/config"
	"github.com/arrecife-io/ocimport/log"
	"github.com/arrecife-io/ocimport/metrics"
	"github.com/arrecife-io/ocimport/odoo"
	"github.com/arrecife-io/ocimport/pipeline"
	"github.com/arrecife-io/ocimport/reader"
	"github.com/arrecife-io/ocimport/sink"
	"github.com/arrecife-io/ocimport/types"
)

// RunCommand returns the run command: the full import pipeline.
func RunCommand() *cli.Command {
	flags := inputFlags()
	flags = append(flags,
		&cli.StringFlag{
			Name:  "run-id",
			Usage: "Run ID (generated when omitted)",
		},
		&cli.StringFlag{
			Name:  "url",
			Usage: "Remote JSON-RPC endpoint",
		},
		&cli.StringFlag{
			Name:  "token",
			Usage: "Bearer credential (prefer the config file with ${ODOO_TOKEN})",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per-call timeout for remote calls",
		},
		&cli.StringFlag{
			Name:  "report",
			Usage: "Write a JSON run report to this path (- for stderr)",
		},
		&cli.StringFlag{
			Name:  "adapter",
			Usage: "Completion adapter: webhook or redis",
		},
		&cli.StringFlag{
			Name:  "adapter-url",
			Usage: "Webhook endpoint or Redis connection URL",
		},
		&cli.StringFlag{
			Name:  "adapter-channel",
			Usage: "Redis pub/sub channel (redis adapter)",
		},
	)
	flags = append(flags, outputFlags()...)

	return &cli.Command{
		Name:   "run",
		Usage:  "Import purchase orders: validate, cross-check, create, report",
		Flags:  flags,
		Action: runAction,
	}
}

// runSettings is the merged flag/config view for one run.
type runSettings struct {
	input   string
	url     string
	token   string
	timeout time.Duration

	outputBackend  string
	processedDir   string
	quarantineDir  string
	s3Path         string
	s3Region       string
	s3Endpoint     string
	s3PathStyle    bool
	adapterType    string
	adapterURL     string
	adapterChannel string
	adapterHeaders map[string]string
	adapterTimeout time.Duration
}

// resolveSettings merges CLI flags over config file values.
// Flags always win; config fills the gaps.
func resolveSettings(c *cli.Context) (*runSettings, error) {
	cfg := &config.Config{}
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	s := &runSettings{
		input:          firstNonEmpty(c.String("input"), cfg.Input),
		url:            firstNonEmpty(c.String("url"), cfg.URL),
		token:          firstNonEmpty(c.String("token"), cfg.Token),
		timeout:        cfg.Timeout.Duration,
		outputBackend:  c.String("output-backend"),
		processedDir:   c.String("processed-dir"),
		quarantineDir:  c.String("quarantine-dir"),
		s3Path:         firstNonEmpty(c.String("s3-path"), cfg.Output.S3Path),
		s3Region:       firstNonEmpty(c.String("s3-region"), cfg.Output.S3Region),
		s3Endpoint:     firstNonEmpty(c.String("s3-endpoint"), cfg.Output.S3Endpoint),
		s3PathStyle:    c.Bool("s3-path-style") || cfg.Output.S3PathStyle,
		adapterType:    firstNonEmpty(c.String("adapter"), cfg.Adapter.Type),
		adapterURL:     firstNonEmpty(c.String("adapter-url"), cfg.Adapter.URL),
		adapterChannel: firstNonEmpty(c.String("adapter-channel"), cfg.Adapter.Channel),
		adapterHeaders: cfg.Adapter.Headers,
		adapterTimeout: cfg.Adapter.Timeout.Duration,
	}
	if c.Duration("timeout") > 0 {
		s.timeout = c.Duration("timeout")
	}
	if !c.IsSet("output-backend") && cfg.Output.Backend != "" {
		s.outputBackend = cfg.Output.Backend
	}
	if !c.IsSet("processed-dir") && cfg.Output.ProcessedDir != "" {
		s.processedDir = cfg.Output.ProcessedDir
	}
	if !c.IsSet("quarantine-dir") && cfg.Output.QuarantineDir != "" {
		s.quarantineDir = cfg.Output.QuarantineDir
	}

	if s.input == "" {
		return nil, fmt.Errorf("input file is required (--input or config)")
	}
	if s.url == "" {
		return nil, fmt.Errorf("remote URL is required (--url or config)")
	}
	if s.token == "" {
		return nil, fmt.Errorf("bearer token is required (--token or config)")
	}
	return s, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func runAction(c *cli.Context) error {
	settings, err := resolveSettings(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), exitFatal)
	}

	meta := types.NewImportMeta(c.String("run-id"), settings.input)
	logger := log.NewLogger(meta)
	collector := metrics.NewCollector(meta.RunID, settings.input)

	parsed, err := reader.ReadFile(settings.input)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), exitFatal)
	}

	client, err := odoo.NewRPCClient(odoo.Config{
		URL:     settings.url,
		Token:   settings.token,
		Timeout: settings.timeout,
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), exitFatal)
	}
	defer func() { _ = client.Close() }()

	logger.Info("starting import", map[string]any{
		"rows":    len(parsed.Records),
		"columns": len(parsed.Columns),
	})

	orch := pipeline.New(client, logger, collector)
	result := orch.Run(c.Context, parsed.Records)

	store, err := buildStore(c.Context, settings)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), exitFatal)
	}

	out := sink.New(store,
		path.Join(settings.processedDir, sink.ProcessedFile),
		path.Join(settings.quarantineDir, sink.QuarantineFile),
	)
	defer func() { _ = out.Close() }()

	stats, err := out.Write(c.Context, parsed.Columns, result.Processed, result.Quarantined)
	if err != nil {
		collector.IncSinkWriteFailure()
		return cli.Exit(fmt.Sprintf("Error: %v", err), exitFatal)
	}
	for range stats.FilesWritten {
		collector.IncSinkWriteSuccess()
	}

	if reportPath := c.String("report"); reportPath != "" {
		report := pipeline.BuildRunReport(meta, result, collector.Snapshot())
		if err := pipeline.WriteRunReport(report, reportPath); err != nil {
			logger.Warn("report write failed", map[string]any{"error": err.Error()})
		}
	}

	publishCompletion(c.Context, logger, settings, meta, result)

	if !c.Bool("quiet") {
		fmt.Println(pipeline.Summary(result))
	}
	return nil
}

// buildStore constructs the output store for the selected backend.
func buildStore(ctx context.Context, s *runSettings) (sink.Store, error) {
	switch s.outputBackend {
	case "", "fs":
		return sink.NewFSStore(""), nil
	case "s3":
		bucket, prefix := sink.ParseS3Path(s.s3Path)
		return sink.NewS3Store(ctx, sink.S3Config{
			Bucket:       bucket,
			Prefix:       prefix,
			Region:       s.s3Region,
			Endpoint:     s.s3Endpoint,
			UsePathStyle: s.s3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown output backend %q (must be fs or s3)", s.outputBackend)
	}
}

// publishCompletion sends the completion event when an adapter is
// configured. Publish failures are logged, never fatal.
func publishCompletion(ctx context.Context, logger *log.Logger, s *runSettings, meta *types.ImportMeta, result *pipeline.Result) {
	a, err := buildAdapter(s)
	if err != nil {
		logger.Warn("adapter setup failed", map[string]any{"error": err.Error()})
		return
	}
	if a == nil {
		return
	}
	defer func() { _ = a.Close() }()

	event := &adapter.ImportCompletedEvent{
		ContractVersion: types.Version,
		EventType:       "import_completed",
		RunID:           meta.RunID,
		Input:           meta.Input,
		Rows:            result.Rows(),
		Processed:       len(result.Processed),
		Quarantined:     len(result.Quarantined),
		DurationMs:      result.Duration.Milliseconds(),
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}

	if err := a.Publish(ctx, event); err != nil {
		logger.Warn("completion publish failed", map[string]any{"error": err.Error()})
	}
}

// buildAdapter constructs the configured completion adapter, or nil
// when none is configured.
func buildAdapter(s *runSettings) (adapter.Adapter, error) {
	switch s.adapterType {
	case "":
		return nil, nil
	case "webhook":
		return webhook.New(webhook.Config{
			URL:     s.adapterURL,
			Headers: s.adapterHeaders,
			Timeout: s.adapterTimeout,
		})
	case "redis":
		return redis.New(redis.Config{
			URL:     s.adapterURL,
			Channel: s.adapterChannel,
			Timeout: s.adapterTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown adapter %q (must be webhook or redis)", s.adapterType)
	}
}
