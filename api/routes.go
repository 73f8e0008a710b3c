package api

import (
	"github.com/go-chi/chi/v5"
)

// setupAPIRoutes mounts the journal API under /api
func setupAPIRoutes(r chi.Router, handlers *routeHandlers) {
	r.Route("/api", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		// Post endpoints
		r.Get("/posts", handlers.postHandler.listPosts())
		r.Get("/posts/{postID}", handlers.postHandler.getPost())
		r.Post("/posts", handlers.postHandler.createPost())
		r.Put("/posts/{postID}", handlers.postHandler.updatePost())
		r.Delete("/posts/{postID}", handlers.postHandler.deletePost())

		// Tag endpoints
		r.Get("/tags", handlers.tagHandler.listTags())
	})
}
