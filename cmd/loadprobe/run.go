package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/foomo/loadprobe"
	"github.com/foomo/loadprobe/config"
	"github.com/foomo/loadprobe/reports"
	"github.com/foomo/loadprobe/vo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type runFlags struct {
	config      string
	url         string
	requests    int
	concurrency int
	timeout     float64
	verbose     bool
	format      string
	metricsAddr string
}

func parseRunFlags(args []string) (*runFlags, error) {
	rf := &runFlags{}
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.StringVar(&rf.config, "config", "", "path to a yaml config file")
	fs.StringVar(&rf.url, "url", "", "target url")
	fs.IntVar(&rf.requests, "n", 0, "total number of requests, prompted for when not configured")
	fs.IntVar(&rf.concurrency, "c", 0, "maximum number of requests in flight")
	fs.Float64Var(&rf.timeout, "timeout", 0, "per request timeout in seconds")
	fs.BoolVar(&rf.verbose, "v", false, "print every probe and the detailed reports")
	fs.StringVar(&rf.format, "format", "", "summary format: text or yaml")
	fs.StringVar(&rf.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while probing")
	if errParse := fs.Parse(args); errParse != nil {
		return nil, errParse
	}
	if fs.NArg() == 1 && rf.url == "" {
		rf.url = fs.Arg(0)
	}
	return rf, nil
}

// apply lets flags win over file and environment
func (rf *runFlags) apply(conf *config.Config) {
	if rf.url != "" {
		conf.TargetURL = rf.url
	}
	if rf.requests != 0 {
		conf.TotalRequests = rf.requests
	}
	if rf.concurrency != 0 {
		conf.ConcurrencyLimit = rf.concurrency
	}
	if rf.timeout != 0 {
		conf.TimeoutSeconds = rf.timeout
	}
	if rf.verbose {
		conf.Verbose = true
	}
	if rf.format != "" {
		conf.Format = rf.format
	}
	if rf.metricsAddr != "" {
		conf.MetricsAddr = rf.metricsAddr
	}
}

func promptTotalRequests(r io.Reader, w io.Writer) (int, error) {
	fmt.Fprint(w, "Number of requests: ")
	line, errRead := bufio.NewReader(r).ReadString('\n')
	if errRead != nil && !(errors.Is(errRead, io.EOF) && line != "") {
		return 0, fmt.Errorf("%w: could not read number of requests: %v", config.ErrInvalid, errRead)
	}
	n, errAtoi := strconv.Atoi(strings.TrimSpace(line))
	if errAtoi != nil {
		return 0, fmt.Errorf("%w: number of requests %q", config.ErrInvalid, strings.TrimSpace(line))
	}
	return n, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) (shutdown func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if errServe := srv.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", errServe)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func runProbe(args []string, stdin io.Reader, stdout io.Writer) error {
	rf, errFlags := parseRunFlags(args)
	if errors.Is(errFlags, flag.ErrHelp) {
		return nil
	}
	if errFlags != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalid, errFlags)
	}
	conf, errConf := config.Get(rf.config)
	if errConf != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalid, errConf)
	}
	rf.apply(conf)
	if conf.TotalRequests == 0 {
		n, errPrompt := promptTotalRequests(stdin, stdout)
		if errPrompt != nil {
			return errPrompt
		}
		conf.TotalRequests = n
	}

	logLevel := slog.LevelInfo
	if conf.Verbose {
		logLevel = slog.LevelDebug
		spew.Fdump(os.Stderr, conf)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	opts := []loadprobe.Option{loadprobe.WithLogger(logger)}
	if conf.Verbose {
		opts = append(opts, loadprobe.WithResultHandler(func(result vo.ProbeResult) {
			reports.ProbeLine(stdout, result)
		}))
	}
	reg := prometheus.NewRegistry()
	if conf.MetricsAddr != "" {
		opts = append(opts, loadprobe.WithRegisterer(reg))
	}

	p, errProber := loadprobe.NewProber(*conf, opts...)
	if errProber != nil {
		return errProber
	}

	if conf.MetricsAddr != "" {
		shutdown := serveMetrics(conf.MetricsAddr, reg, logger)
		defer shutdown()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(stdout, "Sending %d requests to %s, at most %d concurrently...\n",
		conf.TotalRequests, conf.TargetURL, conf.ConcurrencyLimit)
	run, errRun := p.Run(ctx)
	if errRun != nil {
		return errRun
	}

	if conf.Format == config.FormatYAML {
		return reports.YAML(stdout, run)
	}
	names := []string{reports.ReportSummary}
	if conf.Verbose {
		names = []string{reports.ReportBuckets, reports.ReportHighscore, reports.ReportErrors, reports.ReportSummary}
	}
	return reports.Report(stdout, run, names...)
}
