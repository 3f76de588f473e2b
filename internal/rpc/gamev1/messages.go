// Package gamev1 holds the JSON messages of the connectfour.v1 API.
package gamev1

import "connect-four/internal/domain"

type ChallengeRequest struct {
	Opponent string `json:"opponent"`
}

type ChallengeResponse struct {
	MatchID string `json:"match_id"`
}

type AcceptRequest struct {
	Challenger string `json:"challenger"`
}

type AcceptResponse struct{}

type DeclineRequest struct {
	Other string `json:"other"`
}

type DeclineResponse struct{}

type PlayRequest struct {
	Opponent string `json:"opponent"`
	Column   int    `json:"column"`
}

type PlayResponse struct {
	Outcome domain.Outcome `json:"outcome"`
}

type GetScoreCardRequest struct {
	Participant string `json:"participant"`
}

type GetScoreCardResponse struct {
	ScoreCard domain.ScoreCard `json:"score_card"`
}

type GetMatchRequest struct {
	MatchID string `json:"match_id"`
}

type GetMatchResponse struct {
	Match domain.MatchView `json:"match"`
}

type ListMatchesRequest struct{}

type ListMatchesResponse struct {
	MatchIDs []string `json:"match_ids"`
}
