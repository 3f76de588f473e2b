package server

import (
	"net/http"

	"connect-four/internal/middleware"
	"connect-four/internal/rpc/gamev1/gamev1connect"

	"github.com/rs/zerolog"
)

// NewHandler mounts the game service with request ids and participant
// extraction applied.
func NewHandler(games *GameServer, logger zerolog.Logger) http.Handler {
	path, handler := gamev1connect.NewGameServiceHandler(games)

	mux := http.NewServeMux()
	mux.Handle(path, middleware.RequestID(logger)(middleware.Participant(handler)))
	return mux
}
