package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rpupo63/travel-journal-backend/errs"
	"github.com/rpupo63/travel-journal-backend/models"
)

// fakePostStore emulates the store contract the handlers rely on: ids are
// assigned on insert, timestamps are touched on every save, and listing
// returns newest first.
type fakePostStore struct {
	posts      []*models.Post
	lastFilter models.Filter
	findAllErr error
	addErr     error
	updateErr  error
	tagsErr    error
}

func (s *fakePostStore) FindAll(filter models.Filter) ([]*models.Post, error) {
	s.lastFilter = filter
	if s.findAllErr != nil {
		return nil, s.findAllErr
	}

	out := make([]*models.Post, len(s.posts))
	copy(out, s.posts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *fakePostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	for _, post := range s.posts {
		if post.ID == id {
			found := *post
			return &found, nil
		}
	}
	return nil, nil
}

func (s *fakePostStore) Add(post *models.Post) error {
	if s.addErr != nil {
		return s.addErr
	}

	post.Touch(time.Now())
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	stored := *post
	s.posts = append(s.posts, &stored)
	return nil
}

func (s *fakePostStore) Update(post *models.Post) error {
	if s.updateErr != nil {
		return s.updateErr
	}

	post.Touch(time.Now())
	for i, existing := range s.posts {
		if existing.ID == post.ID {
			stored := *post
			s.posts[i] = &stored
			return nil
		}
	}
	stored := *post
	s.posts = append(s.posts, &stored)
	return nil
}

func (s *fakePostStore) Delete(id uuid.UUID) error {
	for i, post := range s.posts {
		if post.ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return nil
		}
	}
	return errs.NewNotFound("post")
}

func (s *fakePostStore) DistinctTags() ([]string, error) {
	if s.tagsErr != nil {
		return nil, s.tagsErr
	}

	seen := make(map[string]bool)
	tags := []string{}
	for _, post := range s.posts {
		for _, tag := range post.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags, nil
}

type fakeUploader struct {
	url     string
	err     error
	calls   int
	gotData []byte
	gotMime string
}

func (u *fakeUploader) Upload(ctx context.Context, data []byte, mimeType string) (string, error) {
	u.calls++
	u.gotData = data
	u.gotMime = mimeType
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}

func newTestRouter(store *fakePostStore, uploader imageUploader) http.Handler {
	handlers := &routeHandlers{
		postHandler: postHandler{
			responder: NewResponder(zerolog.Nop()),
			logger:    zerolog.Nop(),
			posts:     store,
			uploader:  uploader,
		},
		tagHandler: tagHandler{
			responder: NewResponder(zerolog.Nop()),
			logger:    zerolog.Nop(),
			tags:      store,
		},
	}

	router := chi.NewRouter()
	setupAPIRoutes(router, handlers)
	return router
}

type formFile struct {
	field    string
	filename string
	mimeType string
	data     []byte
}

// multipartBody assembles a multipart form with repeated-value fields and an
// optional file part carrying an explicit content type.
func multipartBody(fields map[string][]string, file *formFile) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for field, values := range fields {
		for _, value := range values {
			_ = writer.WriteField(field, value)
		}
	}

	if file != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+file.field+`"; filename="`+file.filename+`"`)
		header.Set("Content-Type", file.mimeType)
		part, _ := writer.CreatePart(header)
		_, _ = part.Write(file.data)
	}

	_ = writer.Close()
	return body, writer.FormDataContentType()
}

func doRequest(handler http.Handler, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodePost(body *bytes.Buffer) (models.Post, error) {
	var post models.Post
	err := json.NewDecoder(body).Decode(&post)
	return post, err
}

func strPtr(s string) *string {
	return &s
}

var errStoreDown = errors.New("store unavailable")
