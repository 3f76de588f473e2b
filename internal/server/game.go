package server

import (
	"context"
	"errors"
	"strings"

	"connect-four/internal/domain"
	"connect-four/internal/game"
	"connect-four/internal/middleware"
	gamev1 "connect-four/internal/rpc/gamev1"
	"connect-four/internal/rpc/gamev1/gamev1connect"
	"connect-four/internal/service"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

type GameServer struct {
	games  *service.GameService
	logger zerolog.Logger
}

func NewGameServer(games *service.GameService, logger zerolog.Logger) *GameServer {
	return &GameServer{games: games, logger: logger}
}

var _ gamev1connect.GameServiceHandler = (*GameServer)(nil)

var errNoParticipant = errors.New("missing " + gamev1connect.ParticipantHeader + " header")

func (s *GameServer) Challenge(ctx context.Context, req *connect.Request[gamev1.ChallengeRequest]) (*connect.Response[gamev1.ChallengeResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	opponent, err := participantArg("opponent", req.Msg.Opponent)
	if err != nil {
		return nil, err
	}

	id, err := s.games.Challenge(ctx, actor, opponent)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&gamev1.ChallengeResponse{MatchID: string(id)}), nil
}

func (s *GameServer) Accept(ctx context.Context, req *connect.Request[gamev1.AcceptRequest]) (*connect.Response[gamev1.AcceptResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	challenger, err := participantArg("challenger", req.Msg.Challenger)
	if err != nil {
		return nil, err
	}

	if err := s.games.Accept(ctx, actor, challenger); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&gamev1.AcceptResponse{}), nil
}

func (s *GameServer) Decline(ctx context.Context, req *connect.Request[gamev1.DeclineRequest]) (*connect.Response[gamev1.DeclineResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	other, err := participantArg("other", req.Msg.Other)
	if err != nil {
		return nil, err
	}

	if err := s.games.Decline(ctx, actor, other); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&gamev1.DeclineResponse{}), nil
}

func (s *GameServer) Play(ctx context.Context, req *connect.Request[gamev1.PlayRequest]) (*connect.Response[gamev1.PlayResponse], error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}

	opponent, err := participantArg("opponent", req.Msg.Opponent)
	if err != nil {
		return nil, err
	}

	outcome, err := s.games.Play(ctx, actor, opponent, req.Msg.Column)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&gamev1.PlayResponse{Outcome: outcome}), nil
}

func (s *GameServer) GetScoreCard(ctx context.Context, req *connect.Request[gamev1.GetScoreCardRequest]) (*connect.Response[gamev1.GetScoreCardResponse], error) {
	participant := domain.ParticipantID(strings.TrimSpace(req.Msg.Participant))
	if participant == "" {
		actor, err := actorFrom(ctx)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("participant is required"))
		}
		participant = actor
	}

	card, err := s.games.GetScoreCard(ctx, participant)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&gamev1.GetScoreCardResponse{ScoreCard: card}), nil
}

func (s *GameServer) GetMatch(ctx context.Context, req *connect.Request[gamev1.GetMatchRequest]) (*connect.Response[gamev1.GetMatchResponse], error) {
	if req.Msg.MatchID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("match_id is required"))
	}

	view, err := s.games.GetMatch(ctx, domain.MatchID(req.Msg.MatchID))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&gamev1.GetMatchResponse{Match: view}), nil
}

func (s *GameServer) ListMatches(ctx context.Context, req *connect.Request[gamev1.ListMatchesRequest]) (*connect.Response[gamev1.ListMatchesResponse], error) {
	ids, err := s.games.ListMatches(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return connect.NewResponse(&gamev1.ListMatchesResponse{MatchIDs: out}), nil
}

func actorFrom(ctx context.Context) (domain.ParticipantID, error) {
	actor, ok := middleware.GetParticipant(ctx)
	if !ok {
		return "", connect.NewError(connect.CodeUnauthenticated, errNoParticipant)
	}
	return actor, nil
}

// participantArg trims a counterparty id from a request body. Empty ids
// never name a participant.
func participantArg(field, value string) (domain.ParticipantID, error) {
	id := strings.TrimSpace(value)
	if id == "" {
		return "", connect.NewError(connect.CodeInvalidArgument, errors.New(field+" is required"))
	}
	return domain.ParticipantID(id), nil
}

func toConnectError(err error) error {
	code := game.CodeOf(err)
	if code == game.CodeUnknown {
		if errors.Is(err, context.DeadlineExceeded) {
			return connect.NewError(connect.CodeDeadlineExceeded, err)
		}
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}

	cerr := connect.NewError(connectCode(code), err)
	cerr.Meta().Set(gamev1connect.ErrorCodeHeader, string(code))
	return cerr
}

func connectCode(code game.Code) connect.Code {
	switch code {
	case game.CodeCannotPlayYourself, game.CodeCannotAcceptOwnChallenge, game.CodeInvalidColumn:
		return connect.CodeInvalidArgument
	case game.CodeChallengeExists, game.CodeActiveGameExists:
		return connect.CodeAlreadyExists
	case game.CodeChallengeDoesNotExist, game.CodeGameDoesNotExist:
		return connect.CodeNotFound
	default:
		return connect.CodeFailedPrecondition
	}
}
