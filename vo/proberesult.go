package vo

import (
	"strconv"
	"time"
)

// Status is an http status code or StatusErr when no response was received
type Status int

const StatusErr Status = -1

func (s Status) String() string {
	if s == StatusErr {
		return "ERR"
	}
	return strconv.Itoa(int(s))
}

const (
	ServerUnknown = "unknown"
	ServerErr     = "ERR-POD"
)

type FailureKind string

const (
	FailureNone       FailureKind = ""
	FailureTimeout    FailureKind = "timeout"
	FailureConnection FailureKind = "connection"
	FailureHTTP       FailureKind = "http"
)

type ProbeRequest struct {
	Index     int
	TargetURL string
}

type ProbeResult struct {
	Index   int
	Status  Status
	Server  string
	Elapsed *time.Duration
	Failure FailureKind
	Error   string
	Time    time.Time
}

func (r ProbeResult) OK() bool {
	return r.Status == 200
}
