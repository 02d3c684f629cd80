package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/solvehub/server/docs"

	"github.com/solvehub/server/internal/api/handlers"
	"github.com/solvehub/server/internal/api/middleware"
	"github.com/solvehub/server/internal/blob"
	"github.com/solvehub/server/internal/config"
	"github.com/solvehub/server/internal/store"
)

// SetupRouter wires the full route surface. Protected routes sit behind the
// session cookie middleware; everything else is public.
func SetupRouter(cfg config.Config, st *store.PostStore, blobs blob.Store) http.Handler {
	handlers.Init(cfg, st, blobs)

	mux := http.NewServeMux()
	c := cors.New(cfg.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mux.Handle("/docs/", httpSwagger.WrapHandler)

	mux.HandleFunc("POST /api/v1/auth/sign-up", handlers.RegisterUser)
	mux.HandleFunc("POST /api/v1/auth/login", handlers.LoginUser)
	mux.HandleFunc("GET /api/v1/auth/google/login", handlers.HandleGoogleLogin)
	mux.HandleFunc("GET /api/v1/auth/google/callback", handlers.HandleGoogleCallback)

	mux.HandleFunc("GET /api/v1/posts", handlers.ListPosts)
	mux.HandleFunc("GET /api/v1/posts/{id}", handlers.GetPost)
	mux.HandleFunc("GET /api/v1/posts/{id}/image", handlers.PostImageURL)

	// ---------- PROTECTED ROUTES ----------
	auth := func(h http.HandlerFunc) http.Handler {
		return middleware.Auth(cfg.JWTSecret, h)
	}

	mux.Handle("POST /api/v1/auth/logout", auth(handlers.Logout))
	mux.Handle("POST /api/v1/posts", auth(handlers.CreatePost))
	mux.Handle("PUT /api/v1/posts/{id}", auth(handlers.UpdatePost))
	mux.Handle("DELETE /api/v1/posts/{id}", auth(handlers.DeletePost))

	// local blob flavor serves its uploads directory directly
	if local, ok := blobs.(*blob.Local); ok {
		mux.Handle("GET "+blob.PublicPrefix+"/", http.StripPrefix(blob.PublicPrefix+"/",
			http.FileServer(http.Dir(local.Dir()))))
	}

	log.Println("Router initialized")
	handler := c.Handler(mux)
	handler = middleware.Logger(handler)
	return handler
}
