package reports

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/foomo/loadprobe/vo"
	"gonum.org/v1/gonum/stat"
)

func reportSummary(run *vo.Run, w io.Writer) {
	printh, println, printsep := printers(w)
	summary := run.Summary
	printh("run", run.ID.String())
	println("target:", run.Target)
	println("started:", run.Started.Format(time.RFC3339))
	println("wall:", run.Wall.Round(time.Millisecond))

	printh("hits per server")
	durations := elapsedByServer(run.Results)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, sh := range summary.ServerHits() {
		fmt.Fprintf(tw, "%s\t%d\t%s\tmean %s\n", sh.Server, sh.Hits, share(sh.Hits, summary.Total), mean(durations[sh.Server]))
	}
	_ = tw.Flush()

	printh("status codes")
	codes := make([]string, 0, len(summary.Statuses))
	for code := range summary.Statuses {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		a, errA := strconv.Atoi(codes[i])
		b, errB := strconv.Atoi(codes[j])
		if errA != nil || errB != nil {
			// ERR last
			return errB != nil && errA == nil
		}
		return a < b
	})
	for _, code := range codes {
		println(code, summary.Statuses[code])
	}

	if len(summary.Failures) > 0 {
		printh("failures")
		for _, kind := range []vo.FailureKind{vo.FailureHTTP, vo.FailureTimeout, vo.FailureConnection} {
			if count, ok := summary.Failures[kind]; ok {
				println(kind, count)
			}
		}
	}

	println()
	printsep()
	println("Success:", summary.Success)
	println("Failed:", summary.Failure)
	println("Total elapsed:", summary.TotalElapsed.Round(time.Microsecond))
}

func share(count, total int) string {
	if total == 0 {
		return "0%"
	}
	return strconv.FormatFloat(math.Round(float64(count)/float64(total)*100), 'f', 0, 64) + "%"
}

func mean(durations []time.Duration) string {
	if len(durations) == 0 {
		return "-"
	}
	seconds := make([]float64, len(durations))
	for i, d := range durations {
		seconds[i] = d.Seconds()
	}
	return time.Duration(stat.Mean(seconds, nil) * float64(time.Second)).Round(time.Microsecond).String()
}
