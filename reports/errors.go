package reports

import (
	"io"
	"sort"

	"github.com/foomo/loadprobe/vo"
)

func reportErrors(run *vo.Run, w io.Writer) {
	printh, println, _ := printers(w)
	printh("errors")
	errorBuckets := map[string][]vo.ProbeResult{}
	messages := sort.StringSlice{}
	for _, r := range run.Results {
		if r.Failure == vo.FailureNone {
			continue
		}
		key := string(r.Failure) + ": " + r.Error
		if _, ok := errorBuckets[key]; !ok {
			messages = append(messages, key)
		}
		errorBuckets[key] = append(errorBuckets[key], r)
	}
	sort.Sort(messages)
	for _, message := range messages {
		println(len(errorBuckets[message]), "x", message)
	}
}
