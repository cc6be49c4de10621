package reports

import (
	"io"
	"math"

	"github.com/foomo/loadprobe/vo"
)

func reportBuckets(run *vo.Run, w io.Writer) {
	printh, println, _ := printers(w)
	printh("performance buckets")
	durations := elapsedByServer(run.Results)
	bucketList := vo.GetBucketList()
	for _, server := range run.Summary.Servers {
		serverDurations, ok := durations[server]
		if !ok {
			continue
		}
		println("server: " + server)
		for i, count := range bucketList.Counts(serverDurations) {
			bucket := bucketList[i]
			println(
				count,
				"	",
				math.Round(float64(count)/float64(len(serverDurations))*100),
				"%	(", bucket.From, "=>", bucket.To, ")",
				bucket.Name,
			)
		}
	}
}
