package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/solvehub/server/internal/api/middleware"
	"github.com/solvehub/server/internal/blob"
	"github.com/solvehub/server/internal/store"
	"github.com/solvehub/server/internal/utils"
)

const maxUploadSize = 10 << 20 // 10 MB

// GET /api/v1/posts?q=
// ListPosts godoc
// @Summary List or search posts
// @Description Returns all posts newest first. A non-empty q narrows to posts whose author, title, notes or problem reference contains it (case-insensitive).
// @Tags Posts
// @Produce json
// @Param q query string false "Search term"
// @Success 200 {object} utils.Payload
// @Router /api/v1/posts [get]
func ListPosts(w http.ResponseWriter, r *http.Request) {
	views, err := posts.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		internalError(w, "list posts", err)
		return
	}

	utils.OK(w, http.StatusOK, "Posts retrieved", map[string]any{
		"posts": views,
	})
}

// GET /api/v1/posts/{id}
// GetPost godoc
// @Summary View a single post
// @Tags Posts
// @Produce json
// @Param id path int true "Post id"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/posts/{id} [get]
func GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	view, err := posts.GetPost(r.Context(), id)
	if err != nil {
		storeError(w, "get post", err)
		return
	}

	utils.OK(w, http.StatusOK, "Post retrieved", view)
}

// POST /api/v1/posts
// CreatePost godoc
// @Summary Create a post
// @Description Multipart form: problem_no, title, code, notes, optional image. The image is stored before the row is written.
// @Tags Posts
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/v1/posts [post]
func CreatePost(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Please log in first")
		return
	}

	fields, ok := postForm(w, r)
	if !ok {
		return
	}

	// image first: if storage fails we abort before any row exists,
	// so a post never points at a blob that was not written
	locator, ok := saveUploadedImage(w, r)
	if !ok {
		return
	}

	id, err := posts.CreatePost(r.Context(), sess, fields, locator)
	if err != nil {
		internalError(w, "create post", err)
		return
	}

	utils.OK(w, http.StatusCreated, "Post uploaded!", map[string]any{"id": id})
}

// PUT /api/v1/posts/{id}
// UpdatePost godoc
// @Summary Edit an owned post
// @Description Replaces the editable fields. Omitting the image part keeps the stored image; supplying one replaces it.
// @Tags Posts
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Post id"
// @Success 200 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/posts/{id} [put]
func UpdatePost(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Please log in first")
		return
	}

	id, ok := postID(w, r)
	if !ok {
		return
	}

	fields, ok := postForm(w, r)
	if !ok {
		return
	}

	locator, ok := saveUploadedImage(w, r)
	if !ok {
		return
	}

	if err := posts.EditPost(r.Context(), sess, id, fields, locator); err != nil {
		storeError(w, "edit post", err)
		return
	}

	utils.OK(w, http.StatusOK, "Post updated successfully!", nil)
}

// DELETE /api/v1/posts/{id}
// DeletePost godoc
// @Summary Delete an owned post
// @Tags Posts
// @Produce json
// @Param id path int true "Post id"
// @Success 200 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/posts/{id} [delete]
func DeletePost(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Please log in first")
		return
	}

	id, ok := postID(w, r)
	if !ok {
		return
	}

	if err := posts.DeletePost(r.Context(), sess, id); err != nil {
		storeError(w, "delete post", err)
		return
	}

	utils.OK(w, http.StatusOK, "Post deleted.", nil)
}

// GET /api/v1/posts/{id}/image
// PostImageURL godoc
// @Summary Resolve a post's image to a fetchable URL
// @Description For the hosted blob flavor with a private bucket this returns a short-lived presigned URL; otherwise the stored locator.
// @Tags Posts
// @Produce json
// @Param id path int true "Post id"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/v1/posts/{id}/image [get]
func PostImageURL(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	view, err := posts.GetPost(r.Context(), id)
	if err != nil {
		storeError(w, "get post", err)
		return
	}
	if view.Image == nil {
		utils.Fail(w, http.StatusNotFound, "Post has no image")
		return
	}

	url := *view.Image
	if presigner, ok := blobs.(blob.Presigner); ok {
		url, err = presigner.PresignGet(r.Context(), *view.Image, 15*time.Minute)
		if err != nil {
			internalError(w, "presign image", err)
			return
		}
	}

	utils.OK(w, http.StatusOK, "Image URL generated", map[string]any{"url": url})
}

func postID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid post id")
		return 0, false
	}
	return uint(id), true
}

func postForm(w http.ResponseWriter, r *http.Request) (store.PostFields, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid upload form")
		return store.PostFields{}, false
	}

	fields := store.PostFields{
		ProblemNo: r.FormValue("problem_no"),
		Title:     r.FormValue("title"),
		Code:      r.FormValue("code"),
		Notes:     r.FormValue("notes"),
	}
	if fields.Title == "" || fields.Code == "" {
		utils.Fail(w, http.StatusBadRequest, "Title and code are required")
		return store.PostFields{}, false
	}
	return fields, true
}

// saveUploadedImage validates and stores the optional image part. A nil
// locator with ok=true means no image was supplied; edit paths treat that
// as "keep the current one".
func saveUploadedImage(w http.ResponseWriter, r *http.Request) (*string, bool) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, true
	}
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid image upload")
		return nil, false
	}
	defer file.Close()

	normalized, err := blob.NormalizeImage(file)
	if err != nil {
		if errors.Is(err, blob.ErrUnsupportedImage) {
			utils.Fail(w, http.StatusBadRequest, "Image must be JPEG, PNG or GIF")
			return nil, false
		}
		internalError(w, "normalize image", err)
		return nil, false
	}

	locator, err := blobs.Save(r.Context(), normalized, header.Filename)
	if err != nil {
		internalError(w, "store image", err)
		return nil, false
	}
	return &locator, true
}

func storeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.Fail(w, http.StatusNotFound, "Post not found.")
	case errors.Is(err, store.ErrForbidden):
		utils.Fail(w, http.StatusForbidden, "Not authorized.")
	default:
		internalError(w, op, err)
	}
}
