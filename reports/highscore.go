package reports

import (
	"io"
	"sort"
	"time"

	"github.com/foomo/loadprobe/vo"
)

const highscoreLength = 10

type score struct {
	Index    int
	Server   string
	Status   vo.Status
	Duration time.Duration
}

type scores []score

func (s scores) Len() int           { return len(s) }
func (s scores) Less(i, j int) bool { return s[i].Duration > s[j].Duration }
func (s scores) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// reportHighscore lists the slowest probes that got a response
func reportHighscore(run *vo.Run, w io.Writer) {
	printh, println, _ := printers(w)
	printh("high score")
	scores := scores{}
	for _, r := range run.Results {
		if r.Elapsed == nil {
			continue
		}
		scores = append(scores, score{
			Index:    r.Index,
			Server:   r.Server,
			Status:   r.Status,
			Duration: *r.Elapsed,
		})
	}
	sort.Sort(scores)
	if len(scores) > highscoreLength {
		scores = scores[:highscoreLength]
	}
	for i, s := range scores {
		println(i, s.Index, s.Server, s.Status, s.Duration)
	}
}
