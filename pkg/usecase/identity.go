package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pferrot/grevos/pkg/domain/model"
	"github.com/pferrot/grevos/pkg/domain/types"
)

// ResolveAuthor picks the author key of a commit without a linked account.
// Lookup order: email mapping, name mapping, raw name, raw email.
func ResolveAuthor(rec *model.CommitRecord, mapping *model.AuthorMapping) (string, bool) {
	if mapping != nil {
		if author, ok := mapping.ByEmail(rec.AuthorEmail); ok {
			return author, true
		}
		if author, ok := mapping.ByName(rec.AuthorName); ok {
			return author, true
		}
	}
	if rec.AuthorName != "" {
		return rec.AuthorName, true
	}
	if rec.AuthorEmail != "" {
		return rec.AuthorEmail, true
	}
	return "", false
}

// ResolveUnknown moves every resolvable record of types.UnknownAuthor to its
// author. With allowUnknown false, a record left unresolved is an error and
// the bucket is left untouched. Returns the number of resolved records.
func ResolveUnknown(ctx context.Context, bucket model.AuthorBucket, mapping *model.AuthorMapping, allowUnknown bool) (int, error) {
	unknown, ok := bucket[types.UnknownAuthor]
	if !ok {
		return 0, nil
	}
	logger := ctxlog.From(ctx)

	type move struct {
		rec    *model.CommitRecord
		author string
	}

	// The bucket is only modified once every record is accounted for
	var moves []move
	var remaining []*model.CommitRecord
	for _, rec := range unknown {
		author, ok := ResolveAuthor(rec, mapping)
		if !ok {
			if !allowUnknown {
				return 0, goerr.New("commit author cannot be resolved",
					goerr.V("sha", rec.SHA),
					goerr.V("repository", rec.OwnerRepo()),
					goerr.T(types.ErrTagUnknownAuthor),
				)
			}
			remaining = append(remaining, rec)
			continue
		}
		if types.IsReservedAuthor(author) {
			logger.Warn("Resolved author collides with a reserved author key", "sha", rec.SHA, "author", author)
		}
		moves = append(moves, move{rec: rec, author: author})
	}

	for _, m := range moves {
		logger.Debug("Resolved commit author", "sha", m.rec.SHA, "author", m.author)
		m.rec.Author = m.author
		bucket.Add(m.rec)
	}

	if len(remaining) == 0 {
		delete(bucket, types.UnknownAuthor)
	} else {
		bucket[types.UnknownAuthor] = remaining
		logger.Warn("Some commit authors could not be resolved", "commits", len(remaining))
	}

	return len(moves), nil
}
