package services

import (
	"errors"

	"gorm.io/gorm"
)

// Outcome tags the result of a single relationship write.
type Outcome int

const (
	// Applied means the row was inserted or deleted.
	Applied Outcome = iota
	// Duplicate means an insert hit the unique key of an existing row.
	Duplicate
	// Missing means a delete matched no row.
	Missing
	// Dangling means an insert referenced a row that does not exist.
	Dangling
	// Failed means storage failed for a reason unrelated to the key.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Duplicate:
		return "duplicate"
	case Missing:
		return "missing"
	case Dangling:
		return "dangling"
	default:
		return "failed"
	}
}

// Relation names the unique-keyed fact a write touched.
type Relation int

const (
	RelationFollow Relation = iota
	RelationLike
	RelationReview
)

// conflictErrors is the whole policy for what a duplicate, missing or
// dangling relationship means to a caller.
var conflictErrors = map[Relation]struct {
	duplicate error
	missing   error
	dangling  error
}{
	RelationFollow: {duplicate: ErrAlreadyFollowing, missing: ErrNotFollowing, dangling: notFoundError("user")},
	RelationLike:   {duplicate: ErrAlreadyLiked, missing: ErrNotLiked, dangling: notFoundError("review")},
	RelationReview: {duplicate: ErrAlreadyReviewed, missing: ErrNotFound, dangling: notFoundError("media item or author")},
}

// WriteResult is what a transaction body hands back to its caller instead of
// raising a vendor error. Cause is set only when Outcome is Failed.
type WriteResult struct {
	Relation Relation
	Outcome  Outcome
	Cause    error
}

// errRollback aborts a transaction whose WriteResult already records why.
var errRollback = errors.New("relationship write not applied")

// TranslateInsert classifies the error returned by an insert. It relies on
// the dialector translating unique violations to gorm.ErrDuplicatedKey and
// foreign key violations to gorm.ErrForeignKeyViolated.
func TranslateInsert(rel Relation, err error) WriteResult {
	switch {
	case err == nil:
		return WriteResult{Relation: rel, Outcome: Applied}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return WriteResult{Relation: rel, Outcome: Duplicate}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return WriteResult{Relation: rel, Outcome: Dangling}
	default:
		return WriteResult{Relation: rel, Outcome: Failed, Cause: err}
	}
}

// TranslateDelete classifies the result of a delete by rows affected.
func TranslateDelete(rel Relation, result *gorm.DB) WriteResult {
	switch {
	case result.Error != nil:
		return WriteResult{Relation: rel, Outcome: Failed, Cause: result.Error}
	case result.RowsAffected == 0:
		return WriteResult{Relation: rel, Outcome: Missing}
	default:
		return WriteResult{Relation: rel, Outcome: Applied}
	}
}

// Applied reports whether the write took effect.
func (r WriteResult) Applied() bool {
	return r.Outcome == Applied
}

// TxErr is what a transaction body returns for this result: nil to keep
// going, errRollback or the storage cause to abort.
func (r WriteResult) TxErr() error {
	switch r.Outcome {
	case Applied:
		return nil
	case Failed:
		return r.Cause
	default:
		return errRollback
	}
}

// Err maps the result to the domain error the caller sees.
func (r WriteResult) Err() error {
	switch r.Outcome {
	case Applied:
		return nil
	case Duplicate:
		return conflictErrors[r.Relation].duplicate
	case Missing:
		return conflictErrors[r.Relation].missing
	case Dangling:
		return conflictErrors[r.Relation].dangling
	default:
		return internalError("relationship write", r.Cause)
	}
}
