// Package gamev1connect wires the connectfour.v1.GameService procedures to
// Connect handlers.
package gamev1connect

import (
	"context"
	"encoding/json"
	"net/http"

	gamev1 "connect-four/internal/rpc/gamev1"

	"connectrpc.com/connect"
)

const GameServiceName = "connectfour.v1.GameService"

const (
	GameServiceChallengeProcedure    = "/connectfour.v1.GameService/Challenge"
	GameServiceAcceptProcedure       = "/connectfour.v1.GameService/Accept"
	GameServiceDeclineProcedure      = "/connectfour.v1.GameService/Decline"
	GameServicePlayProcedure         = "/connectfour.v1.GameService/Play"
	GameServiceGetScoreCardProcedure = "/connectfour.v1.GameService/GetScoreCard"
	GameServiceGetMatchProcedure     = "/connectfour.v1.GameService/GetMatch"
	GameServiceListMatchesProcedure  = "/connectfour.v1.GameService/ListMatches"
)

// ParticipantHeader names the acting participant, set by the gateway.
const ParticipantHeader = "X-Participant-ID"

// ErrorCodeHeader carries the game error code on failed calls.
const ErrorCodeHeader = "Game-Error-Code"

type GameServiceHandler interface {
	Challenge(context.Context, *connect.Request[gamev1.ChallengeRequest]) (*connect.Response[gamev1.ChallengeResponse], error)
	Accept(context.Context, *connect.Request[gamev1.AcceptRequest]) (*connect.Response[gamev1.AcceptResponse], error)
	Decline(context.Context, *connect.Request[gamev1.DeclineRequest]) (*connect.Response[gamev1.DeclineResponse], error)
	Play(context.Context, *connect.Request[gamev1.PlayRequest]) (*connect.Response[gamev1.PlayResponse], error)
	GetScoreCard(context.Context, *connect.Request[gamev1.GetScoreCardRequest]) (*connect.Response[gamev1.GetScoreCardResponse], error)
	GetMatch(context.Context, *connect.Request[gamev1.GetMatchRequest]) (*connect.Response[gamev1.GetMatchResponse], error)
	ListMatches(context.Context, *connect.Request[gamev1.ListMatchesRequest]) (*connect.Response[gamev1.ListMatchesResponse], error)
}

// NewGameServiceHandler builds an HTTP handler serving every procedure of
// the service. The path is the prefix to mount it under.
func NewGameServiceHandler(svc GameServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	challenge := connect.NewUnaryHandler(GameServiceChallengeProcedure, svc.Challenge, opts...)
	accept := connect.NewUnaryHandler(GameServiceAcceptProcedure, svc.Accept, opts...)
	decline := connect.NewUnaryHandler(GameServiceDeclineProcedure, svc.Decline, opts...)
	play := connect.NewUnaryHandler(GameServicePlayProcedure, svc.Play, opts...)
	getScoreCard := connect.NewUnaryHandler(GameServiceGetScoreCardProcedure, svc.GetScoreCard, opts...)
	getMatch := connect.NewUnaryHandler(GameServiceGetMatchProcedure, svc.GetMatch, opts...)
	listMatches := connect.NewUnaryHandler(GameServiceListMatchesProcedure, svc.ListMatches, opts...)

	return "/" + GameServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GameServiceChallengeProcedure:
			challenge.ServeHTTP(w, r)
		case GameServiceAcceptProcedure:
			accept.ServeHTTP(w, r)
		case GameServiceDeclineProcedure:
			decline.ServeHTTP(w, r)
		case GameServicePlayProcedure:
			play.ServeHTTP(w, r)
		case GameServiceGetScoreCardProcedure:
			getScoreCard.ServeHTTP(w, r)
		case GameServiceGetMatchProcedure:
			getMatch.ServeHTTP(w, r)
		case GameServiceListMatchesProcedure:
			listMatches.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// JSONCodec encodes plain Go structs. It replaces Connect's protobuf JSON
// codec, which only accepts generated messages.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
