package model

import "time"

// CacheEntry is the persisted snapshot of one commit query
type CacheEntry struct {
	Bucket          AuthorBucket
	LatestTimestamp time.Time
	LatestSHA       string
	Count           int
}

// NewCacheEntry computes the latest commit and the record count of a bucket
func NewCacheEntry(bucket AuthorBucket) *CacheEntry {
	entry := &CacheEntry{Bucket: bucket}
	records := bucket.Records()
	entry.Count = len(records)
	if len(records) > 0 {
		latest := records[len(records)-1]
		entry.LatestTimestamp = latest.Timestamp
		entry.LatestSHA = latest.SHA
	}
	return entry
}
