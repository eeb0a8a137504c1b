package services

import (
	"context"
	"strings"
	"testing"

	"github.com/mediashelf/mediashelf-backend/internal/models"
)

// Callers arrive with an opaque token subject and no users row yet.
const tokenOnlyUser = "token-subject-without-row"

func TestFirstWriteCreatesUserProjection(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()
	m := seedMedia(t, engine.db, "m")
	b := seedUser(t, engine.db, "b")

	res, err := newReviewService(engine).CreateReview(ctx, tokenOnlyUser, rated(m, 4))
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	assertAggregate(t, engine, m, 4.0, 1)

	if _, err := NewFollowService(engine).Follow(ctx, "another-token-subject", b); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if _, err := NewLikeService(engine).LikeReview(ctx, "liker-token-subject", res.Review.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	_, err = NewCommentService(engine, 2000).AddComment(ctx, "commenter-token-subject", CreateCommentRequest{ReviewID: res.Review.ID, Text: "hi"})
	if err != nil {
		t.Fatalf("comment: %v", err)
	}

	for _, id := range []string{tokenOnlyUser, "another-token-subject", "liker-token-subject", "commenter-token-subject"} {
		if n := countRows(t, engine.db, &models.User{}, "id = ?", id); n != 1 {
			t.Errorf("projection rows for %s = %d, want 1", id, n)
		}
	}
}

func TestEnsureUserKeepsExistingRow(t *testing.T) {
	engine, _ := newTestEngine(t)
	a := seedUser(t, engine.db, "alice")

	if err := ensureUser(engine.db, a); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	var u models.User
	if err := engine.db.Where("id = ?", a).First(&u).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if u.Name != "alice" {
		t.Errorf("name = %q, want alice", u.Name)
	}
}

func TestFollowUnknownTargetIsNotRetryable(t *testing.T) {
	engine, notes := newTestEngine(t)

	_, err := NewFollowService(engine).Follow(context.Background(), tokenOnlyUser, "nobody")
	wantKind(t, err, ErrNotFound)
	if ErrorKind(err) == "internal" {
		t.Errorf("unknown target surfaced as internal: %v", err)
	}
	// The projection insert rolls back with the rejected follow.
	if n := countRows(t, engine.db, &models.User{}, "id = ?", tokenOnlyUser); n != 0 {
		t.Errorf("projection survived rollback")
	}
	if notes.count() != 0 {
		t.Errorf("rejected write notified")
	}
}

func TestUpdateName(t *testing.T) {
	engine, notes := newTestEngine(t)
	svc := NewUserService(engine)
	ctx := context.Background()

	u, err := svc.UpdateName(ctx, tokenOnlyUser, "  Ada  ")
	if err != nil {
		t.Fatalf("update name: %v", err)
	}
	if u.ID != tokenOnlyUser || u.Name != "Ada" {
		t.Errorf("user = %+v", u)
	}

	u, err = svc.UpdateName(ctx, tokenOnlyUser, "Ada Lovelace")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if u.Name != "Ada Lovelace" {
		t.Errorf("name = %q", u.Name)
	}
	if n := countRows(t, engine.db, &models.User{}, "id = ?", tokenOnlyUser); n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
	if notes.count() != 2 {
		t.Errorf("notifications = %d, want 2", notes.count())
	}

	for _, bad := range []string{"", " a ", strings.Repeat("x", NameMaxLength+1)} {
		_, err := svc.UpdateName(ctx, tokenOnlyUser, bad)
		wantKind(t, err, ErrValidation)
	}
}

func TestDeleteUserRecomputesEverythingItTouched(t *testing.T) {
	engine, notes := newTestEngine(t)
	ctx := context.Background()
	reviews := newReviewService(engine)
	likes := NewLikeService(engine)
	comments := NewCommentService(engine, 2000)
	follows := NewFollowService(engine)
	users := NewUserService(engine)

	gone := seedUser(t, engine.db, "gone")
	stay := seedUser(t, engine.db, "stay")
	m1 := seedMedia(t, engine.db, "m1")
	m2 := seedMedia(t, engine.db, "m2")

	goneM1, err := reviews.CreateReview(ctx, gone, rated(m1, 5))
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if _, err := reviews.CreateReview(ctx, gone, CreateReviewRequest{MediaID: m2, ReviewInput: ReviewInput{Liked: boolPtr(true)}}); err != nil {
		t.Fatalf("review: %v", err)
	}
	stayM1, err := reviews.CreateReview(ctx, stay, rated(m1, 2))
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	assertAggregate(t, engine, m1, 3.5, 2)

	// Edges on both sides of the account.
	if _, err := likes.LikeReview(ctx, gone, stayM1.Review.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := likes.LikeReview(ctx, stay, goneM1.Review.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := comments.AddComment(ctx, gone, CreateCommentRequest{ReviewID: stayM1.Review.ID, Text: "nope"}); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if _, err := follows.Follow(ctx, gone, stay); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if _, err := follows.Follow(ctx, stay, gone); err != nil {
		t.Fatalf("follow: %v", err)
	}
	notes.reset()

	out, err := users.DeleteUser(ctx, gone)
	if err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if out.ReviewsDeleted != 2 || len(out.Aggregates) != 2 {
		t.Errorf("deletion = %+v", out)
	}

	assertAggregate(t, engine, m1, 2.0, 1)
	assertAggregate(t, engine, m2, 0, 0)
	if m := loadMedia(t, engine.db, m2); m.TotalLikes != 0 {
		t.Errorf("m2 likes = %d, want 0", m.TotalLikes)
	}

	var kept models.Review
	if err := engine.db.Where("id = ?", stayM1.Review.ID).First(&kept).Error; err != nil {
		t.Fatalf("load kept review: %v", err)
	}
	if kept.TotalLikes != 0 || kept.TotalComments != 0 {
		t.Errorf("kept review counters = (%d, %d), want (0, 0)", kept.TotalLikes, kept.TotalComments)
	}

	for _, c := range []struct {
		model interface{}
		query string
	}{
		{&models.User{}, "id = ?"},
		{&models.Review{}, "user_id = ?"},
		{&models.ReviewLike{}, "user_id = ?"},
		{&models.Comment{}, "user_id = ?"},
	} {
		if n := countRows(t, engine.db, c.model, c.query, gone); n != 0 {
			t.Errorf("%T rows left = %d", c.model, n)
		}
	}
	if n := countRows(t, engine.db, &models.ReviewLike{}, "review_id = ?", goneM1.Review.ID); n != 0 {
		t.Errorf("likes on deleted review left = %d", n)
	}
	if n := countRows(t, engine.db, &models.Follow{}, "follower_id = ? OR following_id = ?", gone, gone); n != 0 {
		t.Errorf("follow edges left = %d", n)
	}

	stats, err := follows.GetUserStats(ctx, stay)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalFollowers != 0 || stats.TotalFollowing != 0 {
		t.Errorf("stats = %+v", stats)
	}

	if notes.count() != 1 || notes.changes[0].Subject != gone {
		t.Fatalf("want one change for %s, got %+v", gone, notes.changes)
	}
	want := map[string]bool{
		"/profile/" + gone:            true,
		"/media/" + m1:                true,
		"/media/" + m2:                true,
		"/review/" + stayM1.Review.ID: true,
	}
	for _, p := range notes.paths() {
		if !want[p] {
			t.Errorf("unexpected path %s", p)
		}
		delete(want, p)
	}
	if len(want) != 0 {
		t.Errorf("missing paths %v", want)
	}
}

func TestDeleteUserWithoutActivity(t *testing.T) {
	engine, _ := newTestEngine(t)
	users := NewUserService(engine)
	ctx := context.Background()
	a := seedUser(t, engine.db, "a")

	out, err := users.DeleteUser(ctx, a)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if out.ReviewsDeleted != 0 || len(out.Aggregates) != 0 {
		t.Errorf("deletion = %+v", out)
	}

	_, err = users.DeleteUser(ctx, a)
	wantKind(t, err, ErrNotFound)
	_, err = users.DeleteUser(ctx, "")
	wantKind(t, err, ErrValidation)
}

func TestSortedUniqueWithout(t *testing.T) {
	got := without(sortedUnique([]string{"c", "a", "c", "b"}), []string{"b"})
	if strings.Join(got, ",") != "a,c" {
		t.Errorf("got %v, want [a c]", got)
	}
	if got := sortedUnique(nil); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}
