package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/rpupo63/travel-journal-backend/models"
)

func TestListTags(t *testing.T) {
	c := qt.New(t)

	first := &models.Post{
		ID:      uuid.New(),
		Title:   "Kyoto",
		Content: "temples",
		Tags:    datatypes.JSONSlice[string]{"temple", "asia", "temple"},
	}
	first.Touch(time.Now())
	second := &models.Post{
		ID:      uuid.New(),
		Title:   "Lisbon",
		Content: "tram rides",
		Tags:    datatypes.JSONSlice[string]{"europe", "asia"},
	}
	second.Touch(time.Now())

	store := &fakePostStore{posts: []*models.Post{first, second}}
	router := newTestRouter(store, &fakeUploader{})

	rec := doRequest(router, http.MethodGet, "/api/tags", nil, "")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)

	var tags []string
	c.Assert(json.NewDecoder(rec.Body).Decode(&tags), qt.IsNil)

	// Distinct, flattened, alphabetical
	c.Assert(tags, qt.DeepEquals, []string{"asia", "europe", "temple"})
}

func TestListTagsEmptyStoreReturnsEmptyArray(t *testing.T) {
	c := qt.New(t)

	router := newTestRouter(&fakePostStore{}, &fakeUploader{})

	rec := doRequest(router, http.MethodGet, "/api/tags", nil, "")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Equals, "[]")
}

func TestListTagsStoreFailure(t *testing.T) {
	c := qt.New(t)

	store := &fakePostStore{tagsErr: errStoreDown}
	router := newTestRouter(store, &fakeUploader{})

	rec := doRequest(router, http.MethodGet, "/api/tags", nil, "")
	c.Assert(rec.Code, qt.Equals, http.StatusInternalServerError)
}

// Creating a post with tags makes them visible in the tag listing exactly once each.
func TestCreateThenListTags(t *testing.T) {
	c := qt.New(t)

	store := &fakePostStore{}
	router := newTestRouter(store, &fakeUploader{})

	body, contentType := multipartBody(map[string][]string{
		"title":   {"Kyoto"},
		"content": {"temples"},
		"tags":    {"asia", "temple"},
	}, nil)
	rec := doRequest(router, http.MethodPost, "/api/posts", body, contentType)
	c.Assert(rec.Code, qt.Equals, http.StatusCreated)

	rec = doRequest(router, http.MethodGet, "/api/tags", nil, "")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)

	var tags []string
	c.Assert(json.NewDecoder(rec.Body).Decode(&tags), qt.IsNil)
	c.Assert(tags, qt.DeepEquals, []string{"asia", "temple"})
}
