package middleware

import (
	"context"
	"net/http"
	"strings"

	"connect-four/internal/domain"
	"connect-four/internal/rpc/gamev1/gamev1connect"

	"github.com/rs/zerolog"
)

const ParticipantKey contextKey = "participant_id"

// Participant copies the gateway-supplied participant id into the request
// context. It never rejects a request; handlers that need an actor do.
func Participant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(gamev1connect.ParticipantHeader))
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), ParticipantKey, domain.ParticipantID(id))
		logger := zerolog.Ctx(ctx).With().Str("participant", id).Logger()
		ctx = logger.WithContext(ctx)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetParticipant(ctx context.Context) (domain.ParticipantID, bool) {
	id, ok := ctx.Value(ParticipantKey).(domain.ParticipantID)
	return id, ok && id != ""
}
