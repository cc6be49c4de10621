package loadprobe

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

type poolClient struct {
	agent  string
	client *http.Client
}

// clientPool holds one client per worker, its size is the concurrency ceiling
type clientPool struct {
	clients []*poolClient
}

func newClientPool(size int, agent string, useHTTP2 bool, tlsConfig *tls.Config, transport http.RoundTripper) (*clientPool, error) {
	clients := make([]*poolClient, size)
	for i := 0; i < size; i++ {
		rt := transport
		if rt == nil {
			t := &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
				MaxIdleConnsPerHost: 1,
				IdleConnTimeout:     90 * time.Second,
			}
			if tlsConfig != nil {
				// http2.ConfigureTransport edits NextProtos
				t.TLSClientConfig = tlsConfig.Clone()
			}
			if useHTTP2 {
				if errHTTP2 := http2.ConfigureTransport(t); errHTTP2 != nil {
					return nil, fmt.Errorf("could not configure http2 transport: %w", errHTTP2)
				}
			}
			rt = t
		}
		clients[i] = &poolClient{
			agent: agent,
			// timeouts are carried by the request context
			client: &http.Client{Transport: rt},
		}
	}
	return &clientPool{
		clients: clients,
	}, nil
}

func (cp *clientPool) close() {
	for _, pc := range cp.clients {
		pc.client.CloseIdleConnections()
	}
}
