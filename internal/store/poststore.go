package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/solvehub/server/internal/models"
	"github.com/solvehub/server/internal/utils"
)

// dateLayout matches the board's original display format; Post.Date is a
// string, not a temporal column, on both backends.
const dateLayout = "2006-01-02 15:04"

// dummyHash is a valid bcrypt digest compared against when the email lookup
// misses, so an unknown email costs roughly the same as a wrong password.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// PostStore is the persistence and authorization core: accounts, posts, and
// the owner-only gate on edit and delete. It is handed an already-open GORM
// handle and is oblivious to which backend flavor is behind it.
type PostStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// Session is the authenticated identity a caller holds between requests:
// account id, display name, and an anti-forgery token minted at login.
type Session struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// PostFields are the author-editable parts of a post.
type PostFields struct {
	ProblemNo string
	Title     string
	Code      string
	Notes     string
}

// PostView is a post joined with its author's username, the shape every
// read path returns.
type PostView struct {
	ID        uint    `json:"id"`
	UserID    uint    `json:"userId"`
	ProblemNo string  `json:"problemNo"`
	Title     string  `json:"title"`
	Code      string  `json:"code"`
	Image     *string `json:"image,omitempty"`
	Notes     string  `json:"notes"`
	Date      string  `json:"date"`
	Username  string  `json:"username"`
}

func (s *PostStore) joined(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("posts").
		Select("posts.*, users.username").
		Joins("JOIN users ON users.id = posts.user_id")
}

// List returns all posts newest-id first. A non-blank query narrows the
// result to posts whose author username, title, notes, or problem reference
// contains it as a case-insensitive substring. Lowercasing both sides keeps
// the match case-insensitive on SQLite and Postgres alike instead of
// leaning on whichever LIKE the dialect defaults to.
func (s *PostStore) List(ctx context.Context, query string) ([]PostView, error) {
	tx := s.joined(ctx).Order("posts.id DESC")

	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		tx = tx.Where(
			"LOWER(users.username) LIKE ? OR LOWER(posts.title) LIKE ? OR LOWER(posts.notes) LIKE ? OR LOWER(posts.problem_no) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	views := make([]PostView, 0)
	if err := tx.Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

// Register creates an account with a bcrypt-hashed password. Duplicate
// detection rides on the unique index, not a prior SELECT, so two racing
// registrations cannot both land.
func (s *PostStore) Register(ctx context.Context, username, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// Authenticate checks an email/password pair and mints a session. Unknown
// email and wrong password both come back as ErrInvalidCredentials with
// nothing to tell them apart.
func (s *PostStore) Authenticate(ctx context.Context, email, password string) (Session, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}

	return s.newSession(user)
}

// EnsureExternalAccount logs in, or first registers, an account vouched for
// by an external identity provider. Such accounts carry an empty password
// hash, which bcrypt can never match, so they are unreachable via the
// password path.
func (s *PostStore) EnsureExternalAccount(ctx context.Context, username, email string) (Session, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{Username: username, Email: email, Password: ""}
		err = s.db.WithContext(ctx).Create(&user).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race with a concurrent callback; use the winner's row
			err = s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
		}
	}
	if err != nil {
		return Session{}, err
	}
	return s.newSession(user)
}

func (s *PostStore) newSession(user models.User) (Session, error) {
	token, err := utils.GenerateSecureToken(16)
	if err != nil {
		return Session{}, err
	}
	return Session{UserID: user.ID, Username: user.Username, Token: token}, nil
}

// CreatePost inserts a post owned by the session's account. The image
// locator, when present, must already be durably stored; callers upload to
// the blob store first so a failed upload never leaves a dangling reference.
// The timestamp is captured here, never client-supplied.
func (s *PostStore) CreatePost(ctx context.Context, sess Session, fields PostFields, image *string) (uint, error) {
	post := models.Post{
		UserID:    sess.UserID,
		ProblemNo: fields.ProblemNo,
		Title:     fields.Title,
		Code:      fields.Code,
		Notes:     fields.Notes,
		Image:     image,
		Date:      time.Now().Format(dateLayout),
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return 0, err
	}
	return post.ID, nil
}

// GetPost returns one post with its author's username. Public; no session
// required.
func (s *PostStore) GetPost(ctx context.Context, id uint) (PostView, error) {
	var view PostView
	err := s.joined(ctx).Where("posts.id = ?", id).Take(&view).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PostView{}, ErrNotFound
	}
	if err != nil {
		return PostView{}, err
	}
	return view, nil
}

// EditPost updates an owned post's fields. A nil newImage leaves the stored
// locator untouched; a non-nil one replaces it outright. Owner/timestamp
// are immutable.
func (s *PostStore) EditPost(ctx context.Context, sess Session, id uint, fields PostFields, newImage *string) error {
	post, err := s.ownedPost(ctx, sess, id)
	if err != nil {
		return err
	}

	// map form so blanked-out fields are written too
	updates := map[string]any{
		"problem_no": fields.ProblemNo,
		"title":      fields.Title,
		"code":       fields.Code,
		"notes":      fields.Notes,
	}
	if newImage != nil {
		updates["image"] = *newImage
	}

	return s.db.WithContext(ctx).Model(&post).Updates(updates).Error
}

// DeletePost removes an owned post. No recycle bin.
func (s *PostStore) DeletePost(ctx context.Context, sess Session, id uint) error {
	post, err := s.ownedPost(ctx, sess, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&post).Error
}

func (s *PostStore) ownedPost(ctx context.Context, sess Session, id uint) (models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return post, ErrNotFound
	}
	if err != nil {
		return post, err
	}
	if post.UserID != sess.UserID {
		return post, ErrForbidden
	}
	return post, nil
}
