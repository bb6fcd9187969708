package usecase

import (
	"cmp"
	"slices"
	"strings"

	"github.com/pferrot/grevos/pkg/domain/model"
	"github.com/pferrot/grevos/pkg/domain/types"
)

// Combine appends the records of incoming to existing, author by author.
// existing is modified and returned; a nil existing returns incoming.
func Combine(existing, incoming model.AuthorBucket) model.AuthorBucket {
	if existing == nil {
		return incoming
	}
	for author, records := range incoming {
		existing[author] = append(existing[author], records...)
	}
	return existing
}

// Finalize sorts every author chronologically and recomputes running totals.
// Calling it again yields the same result.
func Finalize(bucket model.AuthorBucket) {
	for _, records := range bucket {
		finalizeRecords(records)
	}
}

func finalizeRecords(records []*model.CommitRecord) {
	model.SortRecords(records)
	totals := model.RunningTotals{}
	for _, rec := range records {
		totals = totals.Add(rec.Stats)
		rec.RunningTotals = totals
	}
}

// RemoveExcluded drops records by SHA or by difference outside the
// configured range. Authors left without records are removed. Returns the
// number of dropped records.
func RemoveExcluded(bucket model.AuthorBucket, filter model.Filter) int {
	excluded := make(map[string]struct{}, len(filter.ExcludedSHAs))
	for _, sha := range filter.ExcludedSHAs {
		excluded[sha] = struct{}{}
	}

	removed := 0
	for author, records := range bucket {
		kept := records[:0]
		for _, rec := range records {
			if _, ok := excluded[rec.SHA]; ok {
				removed++
				continue
			}
			if filter.MinDifference != nil && rec.Stats.Difference < *filter.MinDifference {
				removed++
				continue
			}
			if filter.MaxDifference != nil && rec.Stats.Difference > *filter.MaxDifference {
				removed++
				continue
			}
			kept = append(kept, rec)
		}

		if len(kept) == 0 {
			delete(bucket, author)
		} else {
			bucket[author] = kept
		}
	}
	return removed
}

// RankAndCollapse merges every author that is not selected into
// types.OthersAuthor. Authors are ranked by their final running difference,
// ties broken by case-insensitive name. The bucket must be finalized.
// Returns the hidden authors sorted case-insensitively.
func RankAndCollapse(bucket model.AuthorBucket, sel model.Selection) []string {
	if sel.TopN <= 0 && len(sel.Authors) == 0 {
		return nil
	}

	ranked := bucket.Keys()
	slices.SortStableFunc(ranked, func(a, b string) int {
		return cmp.Compare(finalDifference(bucket[b]), finalDifference(bucket[a]))
	})

	allowed := make(map[string]struct{}, len(sel.Authors))
	for _, author := range sel.Authors {
		allowed[strings.ToLower(author)] = struct{}{}
	}

	var hidden []string
	rank := 0
	for _, author := range ranked {
		if author == types.OthersAuthor {
			continue
		}
		hide := sel.TopN > 0 && rank >= sel.TopN
		rank++
		if len(allowed) > 0 {
			if _, ok := allowed[strings.ToLower(author)]; !ok {
				hide = true
			}
		}
		if hide {
			hidden = append(hidden, author)
		}
	}

	if len(hidden) == 0 {
		return nil
	}

	for _, author := range hidden {
		bucket[types.OthersAuthor] = append(bucket[types.OthersAuthor], bucket[author]...)
		delete(bucket, author)
	}
	// Records keep their original author, only the bucket totals change
	finalizeRecords(bucket[types.OthersAuthor])

	model.SortAuthors(hidden)
	return hidden
}

func finalDifference(records []*model.CommitRecord) int {
	if len(records) == 0 {
		return 0
	}
	return records[len(records)-1].RunningTotals.Difference
}
