package vo

import (
	"time"

	"github.com/google/uuid"
)

// Summary is the aggregate over all results of a run. Success and Failure
// partition Total.
type Summary struct {
	Total        int                 `yaml:"total"`
	Success      int                 `yaml:"success"`
	Failure      int                 `yaml:"failure"`
	Servers      []string            `yaml:"servers"`
	Hits         map[string]int      `yaml:"hits"`
	Statuses     map[string]int      `yaml:"statuses"`
	Failures     map[FailureKind]int `yaml:"failures,omitempty"`
	TotalElapsed time.Duration       `yaml:"totalElapsed"`
	Measured     int                 `yaml:"measured"`
}

func NewSummary() *Summary {
	return &Summary{
		Servers:  []string{},
		Hits:     map[string]int{},
		Statuses: map[string]int{},
		Failures: map[FailureKind]int{},
	}
}

func (s *Summary) Add(r ProbeResult) {
	s.Total++
	if r.OK() {
		s.Success++
	} else {
		s.Failure++
	}
	if r.Failure != FailureNone {
		s.Failures[r.Failure]++
	}
	s.Statuses[r.Status.String()]++
	if r.Server != "" {
		if _, seen := s.Hits[r.Server]; !seen {
			s.Servers = append(s.Servers, r.Server)
		}
		s.Hits[r.Server]++
	}
	if r.Elapsed != nil {
		s.TotalElapsed += *r.Elapsed
		s.Measured++
	}
}

func Summarize(results []ProbeResult) *Summary {
	s := NewSummary()
	for _, r := range results {
		s.Add(r)
	}
	return s
}

type ServerHits struct {
	Server string
	Hits   int
}

// ServerHits lists hit counts in order of first sighting
func (s *Summary) ServerHits() []ServerHits {
	hits := make([]ServerHits, len(s.Servers))
	for i, server := range s.Servers {
		hits[i] = ServerHits{Server: server, Hits: s.Hits[server]}
	}
	return hits
}

type Run struct {
	ID      uuid.UUID
	Target  string
	Started time.Time
	Wall    time.Duration
	Results []ProbeResult
	Summary *Summary
}
