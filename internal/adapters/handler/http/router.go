package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

func NewHandler(pollHandler *PollHandler, voteHandler *VoteHandler, userHandler *UserHandler, authHandler *AuthHandler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(CORS(allowedOrigins))

	if authHandler != nil {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})
		r.Post("/oauth/callback", authHandler.GoogleCallback)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		if userHandler != nil {
			r.Group(func(r chi.Router) {
				r.Use(RequireAuth)
				r.Get("/me", userHandler.GetMe)
				r.Patch("/me", userHandler.UpdateMe)
			})
		}

		r.Route("/polls", func(r chi.Router) {
			r.Get("/", pollHandler.ListPolls)
			r.Get("/{id}", pollHandler.GetPoll)
			r.Get("/{id}/votes", voteHandler.GetTally)

			r.Group(func(r chi.Router) {
				r.Use(RequireAuth)
				r.Post("/", pollHandler.CreatePoll)
				r.Patch("/{id}", pollHandler.EditPoll)
				r.Delete("/{id}", pollHandler.DeletePoll)
				r.Post("/{id}/flag", pollHandler.FlagPoll)
				r.Post("/{id}/votes", voteHandler.CastVote)
				r.Delete("/{id}/votes", voteHandler.UndoVote)
				r.Get("/{id}/my-vote", voteHandler.GetMyVote)
			})
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}
