package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/rpupo63/travel-journal-backend/errs"
	"github.com/rpupo63/travel-journal-backend/models"
)

// maxUploadMemory bounds the in-memory portion of a parsed multipart form;
// larger uploads spill to temp files.
const maxUploadMemory = 32 << 20

// postStore is the subset of database.PostRepo the post handlers use.
type postStore interface {
	FindAll(filter models.Filter) ([]*models.Post, error)
	FindByID(id uuid.UUID) (*models.Post, error)
	Add(post *models.Post) error
	Update(post *models.Post) error
	Delete(id uuid.UUID) error
}

// imageUploader bridges an uploaded file buffer to the external media host.
type imageUploader interface {
	Upload(ctx context.Context, data []byte, mimeType string) (string, error)
}

type postHandler struct {
	responder Responder
	logger    zerolog.Logger
	posts     postStore
	uploader  imageUploader
}

func newPostHandler(posts postStore, uploader imageUploader) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder: NewResponder(logger),
		logger:    logger,
		posts:     posts,
		uploader:  uploader,
	}
}

// postInput is the validated multipart payload shared by create and update.
type postInput struct {
	Title    string
	Content  string
	Location *string
	ImageURL *string // explicit imageUrl form value, if any
	Tags     datatypes.JSONSlice[string]
	Image    *imageFile
}

// imageFile holds an uploaded file's bytes for the duration of one request.
type imageFile struct {
	Data     []byte
	MimeType string
}

// postInputFromForm validates the multipart form and builds the typed input.
// The request's multipart form must already be parsed.
func postInputFromForm(r *http.Request) (*postInput, *errs.ApiErr) {
	if strings.TrimSpace(r.FormValue("title")) == "" {
		return nil, errs.NewMissingRequiredFieldError("title")
	}
	if strings.TrimSpace(r.FormValue("content")) == "" {
		return nil, errs.NewMissingRequiredFieldError("content")
	}

	input := postInput{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
		Tags:    models.NormalizeTags(r.MultipartForm.Value["tags"]),
	}
	if value := r.FormValue("location"); value != "" {
		input.Location = &value
	}
	if value := r.FormValue("imageUrl"); value != "" {
		input.ImageURL = &value
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			return nil, errs.NewInvalidFieldError("image", "could not read uploaded file")
		}
		input.Image = &imageFile{Data: data, MimeType: header.Header.Get("Content-Type")}
	case errors.Is(err, http.ErrMissingFile):
		// no image attached
	default:
		return nil, errs.NewInvalidFieldError("image", err.Error())
	}

	return &input, nil
}

// parsePostID extracts and validates the postID path parameter.
func parsePostID(r *http.Request) (uuid.UUID, *errs.ApiErr) {
	postIDStr := chi.URLParam(r, "postID")
	if postIDStr == "" {
		return uuid.Nil, errs.NewBadRequestError("missing postID")
	}

	postID, err := uuid.Parse(postIDStr)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid postID")
	}
	return postID, nil
}

// listPosts retrieves all posts, optionally filtered by a search term
// @Summary List posts
// @Description Retrieves all posts sorted newest first, optionally filtered by a free-text search over title, content, location and tags
// @Tags Posts
// @Produce json
// @Param search query string false "Free-text search term"
// @Success 200 {array} models.Post "Posts, newest first"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching posts"
// @Router /api/posts [get]
func (h postHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := models.SearchPosts(r.URL.Query().Get("search"))

		posts, err := h.posts.FindAll(filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "posts", err))
			return
		}

		if posts == nil {
			posts = []*models.Post{}
		}

		h.responder.WriteJSON(w, posts)
	}
}

// getPost retrieves a specific post by ID
// @Summary Get post
// @Description Retrieves a single post by its identifier
// @Tags Posts
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Success 200 {object} models.Post "Post details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid postID"
// @Failure 404 {object} ErrorResponse "Not Found - Post not found"
// @Router /api/posts/{postID} [get]
func (h postHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, apiErr := parsePostID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		post, err := h.posts.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "post", err))
			return
		}

		if post == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("post not found"))
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// createPost creates a new post
// @Summary Create post
// @Description Creates a new journal post from a multipart form; an attached image is uploaded to the media host first
// @Tags Posts
// @Accept mpfd
// @Produce json
// @Success 201 {object} models.Post "Created post"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing required field or upload/save failure"
// @Router /api/posts [post]
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			h.logger.Error().Err(err).Msg("Failed to parse multipart form")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart form", err))
			return
		}

		input, apiErr := postInputFromForm(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		post := models.Post{
			Title:    input.Title,
			Content:  input.Content,
			Location: input.Location,
			Tags:     input.Tags,
		}

		// Upload before persisting so a failed upload creates no record
		if input.Image != nil {
			imageURL, err := h.uploader.Upload(r.Context(), input.Image.Data, input.Image.MimeType)
			if err != nil {
				h.logger.Error().Err(err).Msg("Image upload failed")
				h.responder.WriteError(w, errs.NewWriteFailedError("create post", err))
				return
			}
			post.ImageURL = &imageURL
		}

		if err := h.posts.Add(&post); err != nil {
			h.responder.WriteError(w, errs.NewWriteFailedError("create post", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, post)
	}
}

// updatePost replaces an existing post's fields
// @Summary Update post
// @Description Replaces all post fields from a multipart form. imageUrl precedence: freshly uploaded file, then explicit imageUrl value, then the existing record's value
// @Tags Posts
// @Accept mpfd
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Success 200 {object} models.Post "Updated post"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid input or upload/save failure"
// @Failure 404 {object} ErrorResponse "Not Found - Post not found"
// @Router /api/posts/{postID} [put]
func (h postHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, apiErr := parsePostID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		existing, err := h.posts.FindByID(postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "post", err))
			return
		}

		if existing == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("post not found"))
			return
		}

		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			h.logger.Error().Err(err).Msg("Failed to parse multipart form")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart form", err))
			return
		}

		input, apiErr := postInputFromForm(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		// Full-field replace: omitted optional fields are written as absent
		post := models.Post{
			ID:        postID,
			Title:     input.Title,
			Content:   input.Content,
			Location:  input.Location,
			Tags:      input.Tags,
			CreatedAt: existing.CreatedAt,
		}

		switch {
		case input.Image != nil:
			imageURL, err := h.uploader.Upload(r.Context(), input.Image.Data, input.Image.MimeType)
			if err != nil {
				h.logger.Error().Err(err).Msg("Image upload failed")
				h.responder.WriteError(w, errs.NewWriteFailedError("update post", err))
				return
			}
			post.ImageURL = &imageURL
		case input.ImageURL != nil:
			post.ImageURL = input.ImageURL
		default:
			// No new file and no explicit value: keep the stored URL
			post.ImageURL = existing.ImageURL
		}

		if err := h.posts.Update(&post); err != nil {
			h.responder.WriteError(w, errs.NewWriteFailedError("update post", err))
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// deletePost deletes a post by ID
// @Summary Delete post
// @Description Removes a post unconditionally. The image at the media host is not cleaned up
// @Tags Posts
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Success 200 {object} map[string]string "Success message"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid postID"
// @Failure 404 {object} ErrorResponse "Not Found - Post not found"
// @Router /api/posts/{postID} [delete]
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, apiErr := parsePostID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if err := h.posts.Delete(postID); err != nil {
			var deleteErr *errs.ApiErr
			if errors.As(err, &deleteErr) {
				h.responder.WriteError(w, deleteErr)
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("delete", "post", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "post deleted successfully",
		})
	}
}
