package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/solvehub/server/internal/models"
)

func newTestStore(t *testing.T) *PostStore {
	t.Helper()

	db, err := Open("", filepath.Join(t.TempDir(), "solvehub.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return New(db)
}

func registerAndLogin(t *testing.T, s *PostStore, username, email string) Session {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, s.Register(ctx, username, email, "hunter2hunter2"))

	sess, err := s.Authenticate(ctx, email, "hunter2hunter2")
	require.NoError(t, err)
	return sess
}

func TestRegisterHashesPassword(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, "alex", "alex@example.com", "plaintext-password"))

	var user models.User
	require.NoError(t, s.db.Where("email = ?", "alex@example.com").First(&user).Error)

	assert.NotEqual(t, "plaintext-password", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("plaintext-password")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, "first", "dup@example.com", "password-one"))

	err := s.Register(ctx, "second", "dup@example.com", "password-two")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	var count int64
	require.NoError(t, s.db.Model(&models.User{}).Where("email = ?", "dup@example.com").Count(&count).Error)
	assert.EqualValues(t, 1, count, "failed registration must not leave a second row")
}

func TestAuthenticateInvalidCredentialsIndistinguishable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, "alex", "alex@example.com", "correct-password"))

	_, wrongPass := s.Authenticate(ctx, "alex@example.com", "wrong-password")
	_, unknownEmail := s.Authenticate(ctx, "nobody@example.com", "whatever")

	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), unknownEmail.Error(), "caller must not be able to tell the cases apart")
}

func TestAuthenticateReturnsSession(t *testing.T) {
	s := newTestStore(t)

	sess := registerAndLogin(t, s, "alex", "alex@example.com")

	assert.NotZero(t, sess.UserID)
	assert.Equal(t, "alex", sess.Username)
	assert.NotEmpty(t, sess.Token, "session must carry an anti-forgery token")
}

func TestOwnershipGate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner := registerAndLogin(t, s, "owner", "owner@example.com")
	other := registerAndLogin(t, s, "other", "other@example.com")

	id, err := s.CreatePost(ctx, owner, PostFields{
		ProblemNo: "1337",
		Title:     "Two Sum",
		Code:      "func twoSum() {}",
	}, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, s.EditPost(ctx, other, id, PostFields{Title: "hijacked"}, nil), ErrForbidden)
	assert.ErrorIs(t, s.DeletePost(ctx, other, id), ErrForbidden)

	require.NoError(t, s.EditPost(ctx, owner, id, PostFields{
		ProblemNo: "1337",
		Title:     "Two Sum, revisited",
		Code:      "func twoSum() {}",
	}, nil))
	require.NoError(t, s.DeletePost(ctx, owner, id))

	_, err = s.GetPost(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditImageSemantics(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sess := registerAndLogin(t, s, "alex", "alex@example.com")

	original := "/uploads/abc_original.png"
	id, err := s.CreatePost(ctx, sess, PostFields{Title: "t", Code: "c"}, &original)
	require.NoError(t, err)

	// edit without new image bytes keeps the stored locator
	require.NoError(t, s.EditPost(ctx, sess, id, PostFields{Title: "t2", Code: "c2"}, nil))
	view, err := s.GetPost(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, view.Image)
	assert.Equal(t, original, *view.Image)
	assert.Equal(t, "t2", view.Title)

	// edit with a new locator replaces it outright
	replacement := "/uploads/def_replacement.png"
	require.NoError(t, s.EditPost(ctx, sess, id, PostFields{Title: "t2", Code: "c2"}, &replacement))
	view, err = s.GetPost(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, view.Image)
	assert.Equal(t, replacement, *view.Image)
}

func TestSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sess := registerAndLogin(t, s, "searcher", "searcher@example.com")

	_, err := s.CreatePost(ctx, sess, PostFields{
		ProblemNo: "LC-9921",
		Title:     "Binary tree paths",
		Code:      "func paths() {}",
		Notes:     "recursion",
	}, nil)
	require.NoError(t, err)
	_, err = s.CreatePost(ctx, sess, PostFields{
		ProblemNo: "CF-17A",
		Title:     "Noldbach problem",
		Code:      "func sieve() {}",
	}, nil)
	require.NoError(t, err)

	// matches only the problem reference, nothing else
	got, err := s.List(ctx, "9921")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "LC-9921", got[0].ProblemNo)

	// case-insensitive on every backend
	got, err = s.List(ctx, "noldbach")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "CF-17A", got[0].ProblemNo)

	// username matches too
	got, err = s.List(ctx, "SEARCHER")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// no hit anywhere
	got, err = s.List(ctx, "zzz-not-there")
	require.NoError(t, err)
	assert.Empty(t, got)

	// blank and whitespace queries behave like no query
	all, err := s.List(ctx, "")
	require.NoError(t, err)
	spaced, err := s.List(ctx, "   ")
	require.NoError(t, err)
	assert.Equal(t, all, spaced)
	assert.Len(t, all, 2)
}

func TestListOrdersByDescendingID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sess := registerAndLogin(t, s, "alex", "alex@example.com")

	// creation timestamps tie at minute granularity; ordering must come
	// from the id alone
	for _, title := range []string{"first", "second", "third"} {
		_, err := s.CreatePost(ctx, sess, PostFields{Title: title, Code: "c"}, nil)
		require.NoError(t, err)
	}

	views, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, views, 3)

	for i := 1; i < len(views); i++ {
		assert.Greater(t, views[i-1].ID, views[i].ID)
	}
	assert.Equal(t, "third", views[0].Title)
}

func TestGetPostNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetPost(context.Background(), 4242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountDeletionCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sess := registerAndLogin(t, s, "doomed", "doomed@example.com")
	_, err := s.CreatePost(ctx, sess, PostFields{Title: "orphan me", Code: "c"}, nil)
	require.NoError(t, err)

	// account removal is administrative, not an exposed operation; the
	// schema's ON DELETE CASCADE must still take the posts with it
	require.NoError(t, s.db.Delete(&models.User{}, sess.UserID).Error)

	var count int64
	require.NoError(t, s.db.Model(&models.Post{}).Where("user_id = ?", sess.UserID).Count(&count).Error)
	assert.Zero(t, count, "no orphaned posts with dangling owner ids")
}

func TestEnsureExternalAccount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.EnsureExternalAccount(ctx, "Google Person", "gp@example.com")
	require.NoError(t, err)

	second, err := s.EnsureExternalAccount(ctx, "Google Person", "gp@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID, "same email must map to one account")

	// external accounts have no usable password
	_, err = s.Authenticate(ctx, "gp@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
