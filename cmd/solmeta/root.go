package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/dmagro/solmeta/internal/config"
	"github.com/dmagro/solmeta/internal/display"
	"github.com/dmagro/solmeta/internal/explorer"
	"github.com/dmagro/solmeta/internal/logging"
	"github.com/dmagro/solmeta/internal/pipeline"
	"github.com/dmagro/solmeta/internal/report"
)

type options struct {
	cfgPath   string
	tokens    []string
	tokenFile string
	verbose   bool
	proxy     string
	output    string
	threads   int
	dnsServer string
	timeout   time.Duration
	rateLimit float64
	logFile   string
}

func rootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "solmeta [flags] [token...]",
		Short: "Fetch Solana token metadata and website DNS records",
		Long: `Look up token metadata through the Solana explorer API and resolve the
DNS records of the token's website.

Tokens can be given with --token, as positional arguments, or one per line in
--token-file. With no tokens at all, solmeta asks for one on stdin.

The API endpoint defaults to https://explorer-api.mainnet-beta.solana.com/ and
can be overridden with the API_URL environment variable (a .env file in the
working directory is honoured).

Examples:
  solmeta -t So11111111111111111111111111111111111111112
  solmeta -f tokens.txt -o report.json
  solmeta --dns-server 1.1.1.1 EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.Flags(), opts, args, stdin, stdout, stderr)
		},
	}

	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVar(&opts.cfgPath, "config", "", "Optional YAML config file")
	f.StringSliceVarP(&opts.tokens, "token", "t", nil, "Token address (repeatable or comma-separated)")
	f.StringVarP(&opts.tokenFile, "token-file", "f", "", "File with one token per line")
	f.BoolVarP(&opts.verbose, "verbosity", "v", false, "Enable verbose diagnostics")
	f.StringVarP(&opts.proxy, "proxy", "p", "", "Proxy URL (http, https or socks5)")
	f.StringVarP(&opts.output, "output", "o", "", "Write a JSON report to this file")
	f.IntVarP(&opts.threads, "threads", "n", config.DefaultThreads, "Number of threads (accepted; tokens are processed sequentially)")
	f.StringVar(&opts.dnsServer, "dns-server", "", "Query this nameserver directly instead of the system resolver")
	f.DurationVar(&opts.timeout, "timeout", 0, "HTTP and DNS timeout (0 = no client-side timeout)")
	f.Float64Var(&opts.rateLimit, "rate", 0, "Maximum requests per second (0 = unlimited)")
	f.StringVar(&opts.logFile, "log-file", "", "Also write JSON logs to this rotated file")

	return cmd
}

// buildConfig layers defaults, the optional YAML file and explicitly set flags.
func buildConfig(flags *pflag.FlagSet, opts options, args []string, stdin io.Reader, stdout io.Writer) (*config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	cfg := config.Default()
	if opts.cfgPath != "" {
		loaded, err := config.Load(opts.cfgPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flags.Changed("verbosity") {
		cfg.Verbose = opts.verbose
	}
	if flags.Changed("proxy") {
		cfg.Proxy = opts.proxy
	}
	if flags.Changed("output") {
		cfg.Output = opts.output
	}
	if flags.Changed("threads") {
		cfg.Threads = opts.threads
	}
	if flags.Changed("dns-server") {
		cfg.DNSServer = opts.dnsServer
	}
	if flags.Changed("timeout") {
		cfg.Timeout = opts.timeout
	}
	if flags.Changed("rate") {
		cfg.RateLimit = opts.rateLimit
	}
	if flags.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}

	explicit := len(opts.tokens) > 0 || len(args) > 0 || opts.tokenFile != ""
	if explicit || len(cfg.Tokens) == 0 {
		tokens, err := config.CollectTokens(config.TokenSources{
			Flags:     opts.tokens,
			Args:      args,
			File:      opts.tokenFile,
			Prompt:    stdin,
			PromptOut: stdout,
		})
		if err != nil {
			return nil, err
		}
		cfg.Tokens = tokens
	}

	return cfg, nil
}

func run(ctx context.Context, flags *pflag.FlagSet, opts options, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := buildConfig(flags, opts, args, stdin, stdout)
	if err != nil {
		return err
	}

	log := logging.New(logging.Options{Verbose: cfg.Verbose, File: cfg.LogFile, Writer: stderr})
	defer func() { _ = log.Sync() }()

	warnings, err := cfg.Validate()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		log.Warn(w)
	}
	for _, tok := range cfg.Tokens {
		if err := explorer.ValidateAddress(tok); err != nil {
			log.Warn("token does not look like a Solana address", zap.String("token", tok), zap.Error(err))
		}
	}

	proxy := "None"
	if cfg.Proxy != "" {
		proxy = cfg.Proxy
	}
	fmt.Fprintf(stdout, "Configuration: Tokens found: %d, Proxy: %s, Threads: %d\n", len(cfg.Tokens), proxy, cfg.Threads)
	if cfg.Verbose {
		fmt.Fprintln(stdout, "Verbosity is enabled.")
	}

	runner, err := pipeline.New(cfg,
		pipeline.WithOutput(stdout, stderr),
		pipeline.WithLogger(log),
	)
	if err != nil {
		return err
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("processing tokens: %w", err)
	}

	if len(summary.Results) > 1 {
		if err := display.NewSummaryFormatter(summary.Rows()).Format(stdout); err != nil {
			return fmt.Errorf("failed to display summary: %w", err)
		}
	}

	if cfg.Output != "" {
		rep := report.New(cfg.APIURL, cfg.Threads)
		for _, r := range summary.Results {
			rep.Add(r.Token, r.Metadata, r.Err)
		}
		if err := report.WriteJSON(rep, cfg.Output); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "JSON report written to: %s\n", cfg.Output)
	}

	return nil
}
