package reports

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/foomo/loadprobe/vo"
)

type reporter func(run *vo.Run, w io.Writer)

const (
	ReportSummary   = "summary"
	ReportBuckets   = "buckets"
	ReportHighscore = "highscore"
	ReportErrors    = "errors"
	ReportResults   = "results"
)

var reporters = map[string]reporter{
	ReportSummary:   reportSummary,
	ReportBuckets:   reportBuckets,
	ReportHighscore: reportHighscore,
	ReportErrors:    reportErrors,
	ReportResults:   reportResults,
}

// Names lists all known reports
func Names() []string {
	names := make([]string, 0, len(reporters))
	for name := range reporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Report writes the named reports in the given order
func Report(w io.Writer, run *vo.Run, names ...string) error {
	for _, name := range names {
		if _, ok := reporters[name]; !ok {
			return fmt.Errorf("unknown report %q, known reports: %s", name, strings.Join(Names(), ", "))
		}
	}
	for _, name := range names {
		reporters[name](run, w)
	}
	return nil
}

// ProbeLine is the verbose line printed for every completed probe
func ProbeLine(w io.Writer, r vo.ProbeResult) {
	fmt.Fprintln(w, r.Index, r.Server, formatElapsed(r.Elapsed), r.Status)
}

func formatElapsed(elapsed *time.Duration) string {
	if elapsed == nil {
		return "-"
	}
	return elapsed.Round(time.Microsecond).String()
}

func printers(w io.Writer) (printh func(header ...interface{}), println func(a ...interface{}), printsep func()) {
	printsep = func() {
		fmt.Fprintln(w, "-----------------------------------------------------------------------------")
	}
	println = func(a ...interface{}) { fmt.Fprintln(w, a...) }
	printh = func(header ...interface{}) {
		println()
		println(header...)
		printsep()
	}
	return
}

// elapsedByServer groups measured round trips by replica
func elapsedByServer(results []vo.ProbeResult) map[string][]time.Duration {
	durations := map[string][]time.Duration{}
	for _, r := range results {
		if r.Elapsed != nil {
			durations[r.Server] = append(durations[r.Server], *r.Elapsed)
		}
	}
	return durations
}
