package services

import (
	"errors"
	"testing"

	"gorm.io/gorm"
)

func TestTranslateInsert(t *testing.T) {
	storage := errors.New("disk full")
	tests := []struct {
		name    string
		rel     Relation
		err     error
		outcome Outcome
		want    error
	}{
		{"applied", RelationFollow, nil, Applied, nil},
		{"duplicate follow", RelationFollow, gorm.ErrDuplicatedKey, Duplicate, ErrAlreadyFollowing},
		{"duplicate like", RelationLike, gorm.ErrDuplicatedKey, Duplicate, ErrAlreadyLiked},
		{"duplicate review", RelationReview, gorm.ErrDuplicatedKey, Duplicate, ErrAlreadyReviewed},
		{"dangling follow", RelationFollow, gorm.ErrForeignKeyViolated, Dangling, ErrNotFound},
		{"dangling review", RelationReview, gorm.ErrForeignKeyViolated, Dangling, ErrNotFound},
		{"storage failure", RelationLike, storage, Failed, ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := TranslateInsert(tt.rel, tt.err)
			if r.Outcome != tt.outcome {
				t.Fatalf("outcome = %v, want %v", r.Outcome, tt.outcome)
			}
			if got := r.Err(); !errors.Is(got, tt.want) || (tt.want == nil && got != nil) {
				t.Errorf("Err() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTranslateInsertKeepsCause(t *testing.T) {
	storage := errors.New("disk full")
	r := TranslateInsert(RelationFollow, storage)
	if !errors.Is(r.TxErr(), storage) {
		t.Errorf("TxErr() = %v, want the storage error", r.TxErr())
	}
	if err := r.Err(); !errors.Is(err, ErrInternal) || !errors.Is(err, storage) {
		t.Errorf("Err() = %v, want internal wrapping the cause", err)
	}
}

func TestTranslateDelete(t *testing.T) {
	tests := []struct {
		name    string
		result  *gorm.DB
		rel     Relation
		outcome Outcome
		want    error
	}{
		{"applied", &gorm.DB{RowsAffected: 1}, RelationFollow, Applied, nil},
		{"missing follow", &gorm.DB{}, RelationFollow, Missing, ErrNotFollowing},
		{"missing like", &gorm.DB{}, RelationLike, Missing, ErrNotLiked},
		{"failed", &gorm.DB{Error: errors.New("timeout")}, RelationLike, Failed, ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := TranslateDelete(tt.rel, tt.result)
			if r.Outcome != tt.outcome {
				t.Fatalf("outcome = %v, want %v", r.Outcome, tt.outcome)
			}
			if got := r.Err(); !errors.Is(got, tt.want) || (tt.want == nil && got != nil) {
				t.Errorf("Err() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDanglingIsNotRetryable(t *testing.T) {
	r := TranslateInsert(RelationFollow, gorm.ErrForeignKeyViolated)
	if err := txError("follow", r.TxErr(), r); errors.Is(err, ErrInternal) || ErrorKind(err) != "not_found" {
		t.Errorf("kind = %s (%v), want not_found", ErrorKind(err), err)
	}
}

func TestTxErrRollsBackConflicts(t *testing.T) {
	for _, o := range []Outcome{Duplicate, Missing, Dangling} {
		r := WriteResult{Relation: RelationLike, Outcome: o}
		if !errors.Is(r.TxErr(), errRollback) {
			t.Errorf("%v: TxErr() = %v, want rollback", o, r.TxErr())
		}
		if err := txError("op", r.TxErr(), r); errors.Is(err, errRollback) {
			t.Errorf("%v: rollback sentinel leaked to caller", o)
		}
	}
}

func TestOutcomeString(t *testing.T) {
	for o, want := range map[Outcome]string{Applied: "applied", Duplicate: "duplicate", Missing: "missing", Dangling: "dangling", Failed: "failed"} {
		if o.String() != want {
			t.Errorf("%d.String() = %q, want %q", o, o.String(), want)
		}
	}
}
