package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// tagStore is the subset of database.PostRepo the tag handler uses.
type tagStore interface {
	DistinctTags() ([]string, error)
}

type tagHandler struct {
	responder Responder
	logger    zerolog.Logger
	tags      tagStore
}

func newTagHandler(tags tagStore) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger),
		logger:    logger,
		tags:      tags,
	}
}

// listTags retrieves the distinct tag values across all posts
// @Summary List tags
// @Description Returns every distinct tag value, flattened across posts and sorted alphabetically
// @Tags Tags
// @Produce json
// @Success 200 {array} string "Sorted distinct tags"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error aggregating tags"
// @Router /api/tags [get]
func (h tagHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.tags.DistinctTags()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("aggregate", "tags", err))
			return
		}

		if tags == nil {
			tags = []string{}
		}

		h.responder.WriteJSON(w, tags)
	}
}
