package model

import (
	"slices"
	"sort"
	"strings"
)

// AuthorBucket maps an author key to the author's commits. Order of the
// commits is not guaranteed until the bucket is finalized.
type AuthorBucket map[string][]*CommitRecord

// Add appends a record under its author key
func (b AuthorBucket) Add(rec *CommitRecord) {
	b[rec.Author] = append(b[rec.Author], rec)
}

// Keys returns author keys sorted case-insensitively, ties broken by raw order
func (b AuthorBucket) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareAuthorKeys)
	return keys
}

// Count returns the number of records across all authors
func (b AuthorBucket) Count() int {
	n := 0
	for _, records := range b {
		n += len(records)
	}
	return n
}

// Records returns all records merged into one chronological sequence. Records
// with the same timestamp keep author key order, then per-author order.
func (b AuthorBucket) Records() []*CommitRecord {
	merged := make([]*CommitRecord, 0, b.Count())
	for _, k := range b.Keys() {
		merged = append(merged, b[k]...)
	}
	SortRecords(merged)
	return merged
}

// SHAs returns the set of SHAs held by the bucket
func (b AuthorBucket) SHAs() map[string]struct{} {
	shas := make(map[string]struct{}, b.Count())
	for _, records := range b {
		for _, rec := range records {
			shas[rec.SHA] = struct{}{}
		}
	}
	return shas
}

// SortRecords sorts records by timestamp ascending, keeping the original
// order of records sharing a timestamp
func SortRecords(records []*CommitRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
}

// SortAuthors sorts author names case-insensitively in place
func SortAuthors(authors []string) {
	slices.SortFunc(authors, compareAuthorKeys)
}

func compareAuthorKeys(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
