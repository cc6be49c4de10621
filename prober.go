package loadprobe

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/foomo/loadprobe/config"
	"github.com/foomo/loadprobe/vo"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// ResultHandler is called once per completed probe, always from the same
// goroutine, in completion order.
type ResultHandler func(result vo.ProbeResult)

type Option func(p *Prober)

// WithTransport replaces the per worker http transports, mainly for tests
func WithTransport(transport http.RoundTripper) Option {
	return func(p *Prober) {
		p.transport = transport
	}
}

// WithTLSConfig sets the tls client config of the pooled transports, e.g. to
// trust the certificate of a staging target
func WithTLSConfig(tlsConfig *tls.Config) Option {
	return func(p *Prober) {
		p.tlsConfig = tlsConfig
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Prober) {
		p.logger = logger
	}
}

func WithRegisterer(reg prometheus.Registerer) Option {
	return func(p *Prober) {
		p.registerer = reg
	}
}

func WithResultHandler(handler ResultHandler) Option {
	return func(p *Prober) {
		p.onResult = handler
	}
}

// Prober fires a fixed number of GET requests at one target with at most
// ConcurrencyLimit of them in flight.
type Prober struct {
	conf       config.Config
	timeout    time.Duration
	transport  http.RoundTripper
	tlsConfig  *tls.Config
	logger     *slog.Logger
	registerer prometheus.Registerer
	onResult   ResultHandler
	identity   *identifier
	metrics    *metrics
	pool       *clientPool
}

// NewProber validates conf, no probe is ever dispatched for an invalid one.
func NewProber(conf config.Config, opts ...Option) (*Prober, error) {
	if errValidate := conf.Validate(); errValidate != nil {
		return nil, errValidate
	}
	p := &Prober{
		conf:    conf,
		timeout: conf.Timeout(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	id, errIdentity := newIdentifier(conf.PodHeader, conf.IdentitySelector, conf.IdentityPattern)
	if errIdentity != nil {
		return nil, fmt.Errorf("%w: identity_pattern: %v", config.ErrInvalid, errIdentity)
	}
	p.identity = id
	poolSize := conf.ConcurrencyLimit
	if conf.TotalRequests < poolSize {
		poolSize = conf.TotalRequests
	}
	cp, errPool := newClientPool(poolSize, conf.Agent, conf.HTTP2, p.tlsConfig, p.transport)
	if errPool != nil {
		return nil, errPool
	}
	p.pool = cp
	p.metrics = newMetrics(p.registerer)
	return p, nil
}

// Run probes the target TotalRequests times. Individual probe failures are
// part of the returned run, the only errors are preflight errors.
func (p *Prober) Run(ctx context.Context) (*vo.Run, error) {
	if p.conf.CheckRobots {
		if errRobots := p.checkRobots(ctx); errRobots != nil {
			return nil, errRobots
		}
	}
	run := &vo.Run{
		ID:      uuid.New(),
		Target:  p.conf.TargetURL,
		Started: time.Now(),
	}
	logger := p.logger.With("run", run.ID.String())
	logger.Info(
		"probing",
		"target", p.conf.TargetURL,
		"requests", p.conf.TotalRequests,
		"concurrency", len(p.pool.clients),
		"timeout", p.timeout,
	)
	run.Results, run.Summary = p.dispatch(ctx, p.conf.TotalRequests)
	run.Wall = time.Since(run.Started)
	logger.Info(
		"probing complete",
		"success", run.Summary.Success,
		"failed", run.Summary.Failure,
		"servers", len(run.Summary.Servers),
		"wall", run.Wall,
	)
	return run, nil
}

// dispatch feeds indices to one worker per pool client and collects every
// result in the calling goroutine. A cancelled ctx does not drop probes, they
// fail fast and are recorded.
func (p *Prober) dispatch(ctx context.Context, total int) ([]vo.ProbeResult, *vo.Summary) {
	chanRequest := make(chan vo.ProbeRequest)
	chanResult := make(chan vo.ProbeResult)

	workers := len(p.pool.clients)
	if total < workers {
		workers = total
	}
	wg := sync.WaitGroup{}
	for _, pc := range p.pool.clients[:workers] {
		wg.Add(1)
		go func(pc *poolClient) {
			defer wg.Done()
			for pr := range chanRequest {
				chanResult <- p.probe(ctx, pc, pr)
			}
		}(pc)
	}

	go func() {
		for i := 0; i < total; i++ {
			chanRequest <- vo.ProbeRequest{
				Index:     i,
				TargetURL: p.conf.TargetURL,
			}
		}
		close(chanRequest)
		wg.Wait()
		close(chanResult)
	}()

	results := make([]vo.ProbeResult, 0, total)
	summary := vo.NewSummary()
	for result := range chanResult {
		results = append(results, result)
		summary.Add(result)
		p.metrics.observe(result)
		if result.Failure == vo.FailureTimeout || result.Failure == vo.FailureConnection {
			p.logger.Debug("probe failed", "index", result.Index, "failure", result.Failure, "error", result.Error)
		}
		if p.onResult != nil {
			p.onResult(result)
		}
	}
	p.pool.close()
	return results, summary
}
