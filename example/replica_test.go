package example

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, testServer *httptest.Server, method, path string, body interface{}) (resp *http.Response, respBytes []byte) {
	var reqBody io.Reader
	if body != nil {
		jsonBytes, errMarshal := json.Marshal(body)
		require.NoError(t, errMarshal)
		reqBody = bytes.NewReader(jsonBytes)
	}
	req, errReq := http.NewRequest(method, testServer.URL+path, reqBody)
	require.NoError(t, errReq)
	resp, errDo := http.DefaultClient.Do(req)
	require.NoError(t, errDo)
	defer resp.Body.Close()
	respBytes, errRead := io.ReadAll(resp.Body)
	require.NoError(t, errRead)
	return resp, respBytes
}

func TestReplicaUsers(t *testing.T) {
	testServer := httptest.NewServer(NewReplica("pod-a"))
	defer testServer.Close()

	resp, respBytes := call(t, testServer, http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pod-a", resp.Header.Get(PodHeader))
	assert.JSONEq(t, `[]`, string(respBytes))

	resp, respBytes = call(t, testServer, http.MethodPost, "/add", User{Name: "jan", Email: "jan@example.com"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":true}`, string(respBytes))

	resp, respBytes = call(t, testServer, http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"name":"jan","email":"jan@example.com"}]`, string(respBytes))
}

func TestReplicaAddValidation(t *testing.T) {
	testServer := httptest.NewServer(NewReplica("pod-a"))
	defer testServer.Close()

	resp, _ := call(t, testServer, http.MethodPost, "/add", User{Name: "jan"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "pod-a", resp.Header.Get(PodHeader))

	resp, _ = call(t, testServer, http.MethodGet, "/add", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestReplicaIndex(t *testing.T) {
	testServer := httptest.NewServer(NewReplica("pod-b"))
	defer testServer.Close()

	resp, respBytes := call(t, testServer, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(PodHeader))
	assert.Contains(t, string(respBytes), "<h3>POD: pod-b</h3>")
}
