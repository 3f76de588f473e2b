package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"connect-four/internal/constants"
	"connect-four/internal/domain"
	"connect-four/internal/game"
	gamev1 "connect-four/internal/rpc/gamev1"
	"connect-four/internal/rpc/gamev1/gamev1connect"

	"github.com/valyala/fasthttp"
)

// GameClient calls the game service over Connect's unary JSON protocol,
// acting as one participant.
type GameClient struct {
	baseURL     string
	participant domain.ParticipantID
	client      *fasthttp.Client
}

// RemoteError is a failed call that carries no game error code.
type RemoteError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *RemoteError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("API error: %d", e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewGameClient(baseURL string, participant domain.ParticipantID) *GameClient {
	return &GameClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		participant: participant,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ClientTimeout,
			WriteTimeout:        constants.ClientTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (c *GameClient) Challenge(ctx context.Context, opponent domain.ParticipantID) (domain.MatchID, error) {
	resp, err := doRequest[gamev1.ChallengeResponse](ctx, c, gamev1connect.GameServiceChallengeProcedure, &gamev1.ChallengeRequest{
		Opponent: string(opponent),
	})
	if err != nil {
		return "", err
	}
	return domain.MatchID(resp.MatchID), nil
}

func (c *GameClient) Accept(ctx context.Context, challenger domain.ParticipantID) error {
	_, err := doRequest[gamev1.AcceptResponse](ctx, c, gamev1connect.GameServiceAcceptProcedure, &gamev1.AcceptRequest{
		Challenger: string(challenger),
	})
	return err
}

func (c *GameClient) Decline(ctx context.Context, other domain.ParticipantID) error {
	_, err := doRequest[gamev1.DeclineResponse](ctx, c, gamev1connect.GameServiceDeclineProcedure, &gamev1.DeclineRequest{
		Other: string(other),
	})
	return err
}

func (c *GameClient) Play(ctx context.Context, opponent domain.ParticipantID, column int) (domain.Outcome, error) {
	resp, err := doRequest[gamev1.PlayResponse](ctx, c, gamev1connect.GameServicePlayProcedure, &gamev1.PlayRequest{
		Opponent: string(opponent),
		Column:   column,
	})
	if err != nil {
		return domain.Outcome{}, err
	}
	return resp.Outcome, nil
}

func (c *GameClient) GetScoreCard(ctx context.Context, participant domain.ParticipantID) (domain.ScoreCard, error) {
	resp, err := doRequest[gamev1.GetScoreCardResponse](ctx, c, gamev1connect.GameServiceGetScoreCardProcedure, &gamev1.GetScoreCardRequest{
		Participant: string(participant),
	})
	if err != nil {
		return domain.ScoreCard{}, err
	}
	return resp.ScoreCard, nil
}

func (c *GameClient) GetMatch(ctx context.Context, id domain.MatchID) (domain.MatchView, error) {
	resp, err := doRequest[gamev1.GetMatchResponse](ctx, c, gamev1connect.GameServiceGetMatchProcedure, &gamev1.GetMatchRequest{
		MatchID: string(id),
	})
	if err != nil {
		return domain.MatchView{}, err
	}
	return resp.Match, nil
}

func (c *GameClient) ListMatches(ctx context.Context) ([]domain.MatchID, error) {
	resp, err := doRequest[gamev1.ListMatchesResponse](ctx, c, gamev1connect.GameServiceListMatchesProcedure, &gamev1.ListMatchesRequest{})
	if err != nil {
		return nil, err
	}

	ids := make([]domain.MatchID, len(resp.MatchIDs))
	for i, id := range resp.MatchIDs {
		ids[i] = domain.MatchID(id)
	}
	return ids, nil
}

func doRequest[T any](ctx context.Context, client *GameClient, procedure string, body any) (*T, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(client.baseURL + procedure)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Connect-Protocol-Version", "1")
	if client.participant != "" {
		req.Header.Set(gamev1connect.ParticipantHeader, string(client.participant))
	}
	req.SetBody(payload)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, decodeError(resp)
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// decodeError rebuilds a game.Error when the server sent a game error
// code so callers can match it with errors.Is.
func decodeError(resp *fasthttp.Response) error {
	remote := &RemoteError{Status: resp.StatusCode()}
	_ = json.Unmarshal(resp.Body(), remote)

	code := game.Code(resp.Header.Peek(gamev1connect.ErrorCodeHeader))
	if code != "" && game.FromCode(code) != nil {
		msg := remote.Message
		if msg == "" {
			msg = game.FromCode(code).Message
		}
		return &game.Error{Code: code, Message: msg}
	}
	return remote
}
