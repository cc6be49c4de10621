package vo

import "time"

type Bucket struct {
	Name string
	From time.Duration
	To   time.Duration
}

func (b Bucket) Contains(d time.Duration) bool {
	return d >= b.From && d < b.To
}

type BucketList []Bucket

// Counts returns how many of the given durations fall into each bucket,
// indexed like the list.
func (bl BucketList) Counts(durations []time.Duration) []int {
	counts := make([]int, len(bl))
	for _, d := range durations {
		for i, b := range bl {
			if b.Contains(d) {
				counts[i]++
				break
			}
		}
	}
	return counts
}

func GetBucketList() BucketList {
	return BucketList{
		Bucket{
			Name: "instant",
			From: 0,
			To:   time.Millisecond * 10,
		},
		Bucket{
			Name: "fast",
			From: time.Millisecond * 10,
			To:   time.Millisecond * 50,
		},
		Bucket{
			Name: "ok",
			From: time.Millisecond * 50,
			To:   time.Millisecond * 200,
		},
		Bucket{
			Name: "slow",
			From: time.Millisecond * 200,
			To:   time.Millisecond * 500,
		},
		Bucket{
			Name: "very slow",
			From: time.Millisecond * 500,
			To:   time.Second,
		},
		Bucket{
			Name: "struggling",
			From: time.Second,
			To:   time.Second * 3,
		},
		Bucket{
			Name: "barely alive",
			From: time.Second * 3,
			To:   time.Second * 10,
		},
		Bucket{
			Name: "beyond any timeout",
			From: time.Second * 10,
			To:   time.Hour,
		},
	}
}
