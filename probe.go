package loadprobe

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/foomo/loadprobe/vo"
)

func (p *Prober) probe(ctx context.Context, pc *poolClient, pr vo.ProbeRequest) vo.ProbeResult {
	result := vo.ProbeResult{
		Index:  pr.Index,
		Status: vo.StatusErr,
		Server: vo.ServerErr,
		Time:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, errRequest := http.NewRequestWithContext(ctx, http.MethodGet, pr.TargetURL, nil)
	if errRequest != nil {
		result.Failure = vo.FailureConnection
		result.Error = errRequest.Error()
		return result
	}
	req.Header.Set("User-Agent", pc.agent)

	p.metrics.inFlight.Inc()
	defer p.metrics.inFlight.Dec()

	start := time.Now()
	resp, errGet := pc.client.Do(req)
	if errGet != nil {
		result.Failure = classifyFailure(errGet)
		result.Error = errGet.Error()
		return result
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)

	result.Elapsed = &elapsed
	result.Status = vo.Status(resp.StatusCode)
	result.Server = p.identity.identify(resp)
	if !result.OK() {
		result.Failure = vo.FailureHTTP
		result.Error = resp.Status
	}
	return result
}

func classifyFailure(err error) vo.FailureKind {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return vo.FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return vo.FailureTimeout
	}
	return vo.FailureConnection
}
