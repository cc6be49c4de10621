package loadprobe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
)

var ErrRobotsDisallowed = errors.New("robots.txt does not allow probing the target")

func getRobotsData(ctx context.Context, client *http.Client, agent string, targetURL *url.URL) (data *robotstxt.RobotsData, err error) {
	robotsURL := targetURL.Scheme + "://" + targetURL.Host + "/robots.txt"
	req, errRequest := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if errRequest != nil {
		return nil, errRequest
	}
	req.Header.Set("User-Agent", agent)
	resp, errGet := client.Do(req)
	if errGet != nil {
		return nil, errGet
	}
	defer resp.Body.Close()
	data, errFromResponse := robotstxt.FromResponse(resp)
	if errFromResponse != nil {
		return nil, errFromResponse
	}
	return data, nil
}

// checkRobots only fails when robots.txt was read and forbids the target path,
// an unreachable robots.txt is not a reason to skip a load test.
func (p *Prober) checkRobots(ctx context.Context) error {
	targetURL, errParse := url.Parse(p.conf.TargetURL)
	if errParse != nil {
		return errParse
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	data, errRobots := getRobotsData(ctx, p.pool.clients[0].client, p.conf.Agent, targetURL)
	if errRobots != nil {
		p.logger.Warn("could not read robots.txt, probing anyway", "error", errRobots)
		return nil
	}
	path := targetURL.EscapedPath()
	if path == "" {
		path = "/"
	}
	if !data.TestAgent(path, p.conf.Agent) {
		return fmt.Errorf("%w: path %s for agent %q", ErrRobotsDisallowed, path, p.conf.Agent)
	}
	return nil
}
