package loadprobe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func robotsServer(robots string, probes *atomic.Int64) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			if robots == "" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte(robots))
			return
		}
		probes.Add(1)
		w.Header().Set("X-Pod-Name", "pod-a")
		_, _ = w.Write([]byte("[]"))
	}))
}

func TestRobotsDisallowed(t *testing.T) {
	probes := atomic.Int64{}
	testServer := robotsServer("User-agent: *\nDisallow: /users\n", &probes)
	defer testServer.Close()

	conf := testConfig(testServer.URL+"/users", 5, 2)
	conf.CheckRobots = true
	p, errProber := NewProber(conf)
	require.NoError(t, errProber)
	run, errRun := p.Run(context.Background())
	assert.ErrorIs(t, errRun, ErrRobotsDisallowed)
	assert.Nil(t, run)
	assert.Equal(t, int64(0), probes.Load())
}

func TestRobotsAllowed(t *testing.T) {
	for _, robots := range []string{
		"User-agent: *\nDisallow: /admin\n",
		"User-agent: loadprobe\nAllow: /\n\nUser-agent: *\nDisallow: /\n",
		"",
	} {
		probes := atomic.Int64{}
		testServer := robotsServer(robots, &probes)

		conf := testConfig(testServer.URL+"/users", 5, 2)
		conf.CheckRobots = true
		run := mustRun(t, conf)
		assert.Equal(t, 5, run.Summary.Success)
		assert.Equal(t, int64(5), probes.Load())
		testServer.Close()
	}
}

func TestRobotsAgent(t *testing.T) {
	agents := make(chan string, 1)
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			agents <- r.UserAgent()
			_, _ = w.Write([]byte("User-agent: staging-probe\nDisallow: /users\n"))
			return
		}
		_, _ = w.Write([]byte("[]"))
	}))
	defer testServer.Close()

	conf := testConfig(testServer.URL+"/users", 2, 1)
	conf.CheckRobots = true
	conf.Agent = "staging-probe"
	p, errProber := NewProber(conf)
	require.NoError(t, errProber)
	_, errRun := p.Run(context.Background())
	assert.ErrorIs(t, errRun, ErrRobotsDisallowed)
	assert.Equal(t, "staging-probe", <-agents)
}

func TestRobotsUnreachable(t *testing.T) {
	testServer := httptest.NewServer(http.NotFoundHandler())
	targetURL := testServer.URL + "/users"
	testServer.Close()

	conf := testConfig(targetURL, 2, 2)
	conf.CheckRobots = true
	run := mustRun(t, conf)
	assert.Equal(t, 2, run.Summary.Failure)
}
