package api

import (
	"github.com/rpupo63/travel-journal-backend/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, uploader imageUploader) *routeHandlers {
	return &routeHandlers{
		postHandler: newPostHandler(database.PostRepo(), uploader),
		tagHandler:  newTagHandler(database.PostRepo()),
	}
}
