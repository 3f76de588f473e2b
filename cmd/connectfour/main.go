package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"connect-four/internal/api"
	"connect-four/internal/constants"
	"connect-four/internal/domain"
	"connect-four/internal/game"

	"github.com/rs/zerolog"
)

const usage = `usage: connectfour [-addr URL] [-as ID] <command> [args]

commands:
  challenge <opponent>
  accept <challenger>
  decline <other>
  play <opponent> <column>
  scorecard [participant]
  match <match-id>
  matches
`

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		ev := logger.Error().Err(err)
		if code := game.CodeOf(err); code != game.CodeUnknown {
			ev = ev.Str("code", string(code))
		}
		ev.Msg("command failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("connectfour", flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.Usage = func() { fmt.Fprint(stdout, usage) }
	addr := fs.String("addr", envOr("CONNECTFOUR_ADDR", "http://localhost:8080"), "game server base URL")
	as := fs.String("as", os.Getenv("CONNECTFOUR_PARTICIPANT"), "acting participant id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return flag.ErrHelp
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ClientTimeout)
	defer cancel()

	client := api.NewGameClient(*addr, domain.ParticipantID(*as))
	cmd, rest := fs.Arg(0), fs.Args()[1:]

	switch cmd {
	case "challenge":
		if err := need(cmd, rest, 1); err != nil {
			return err
		}
		id, err := client.Challenge(ctx, domain.ParticipantID(rest[0]))
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, id)

	case "accept":
		if err := need(cmd, rest, 1); err != nil {
			return err
		}
		if err := client.Accept(ctx, domain.ParticipantID(rest[0])); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "accepted")

	case "decline":
		if err := need(cmd, rest, 1); err != nil {
			return err
		}
		if err := client.Decline(ctx, domain.ParticipantID(rest[0])); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "declined")

	case "play":
		if err := need(cmd, rest, 2); err != nil {
			return err
		}
		column, err := strconv.Atoi(rest[1])
		if err != nil {
			return fmt.Errorf("column must be a number: %w", err)
		}
		outcome, err := client.Play(ctx, domain.ParticipantID(rest[0]), column)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, outcome)

	case "scorecard":
		var participant domain.ParticipantID
		if len(rest) > 0 {
			participant = domain.ParticipantID(rest[0])
		}
		card, err := client.GetScoreCard(ctx, participant)
		if err != nil {
			return err
		}
		return printJSON(stdout, card)

	case "match":
		if err := need(cmd, rest, 1); err != nil {
			return err
		}
		view, err := client.GetMatch(ctx, domain.MatchID(rest[0]))
		if err != nil {
			return err
		}
		printMatch(stdout, view)

	case "matches":
		ids, err := client.ListMatches(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(stdout, id)
		}

	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func need(cmd string, args []string, n int) error {
	if len(args) < n {
		return fmt.Errorf("%s needs %d argument(s), got %d", cmd, n, len(args))
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printMatch(w io.Writer, v domain.MatchView) {
	fmt.Fprintf(w, "match %s: %s vs %s\n", v.ID, v.PlayerOne, v.PlayerTwo)
	switch {
	case v.Outcome.Terminal():
		fmt.Fprintf(w, "outcome: %s\n", v.Outcome)
	case v.Active:
		next := v.PlayerOne
		if v.LastMover != nil && *v.LastMover == v.PlayerOne {
			next = v.PlayerTwo
		}
		fmt.Fprintf(w, "in progress, %s to move\n", next)
	default:
		fmt.Fprintln(w, "waiting for acceptance")
	}
	if v.Board != nil {
		fmt.Fprint(w, renderBoard(*v.Board))
	}
}

// renderBoard draws the grid top row first, as it looks when played.
func renderBoard(g domain.Grid) string {
	var b strings.Builder
	for r := domain.Rows - 1; r >= 0; r-- {
		for c := 0; c < domain.Columns; c++ {
			switch g[r][c] {
			case domain.PlayerOne:
				b.WriteByte('X')
			case domain.PlayerTwo:
				b.WriteByte('O')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	for c := 0; c < domain.Columns; c++ {
		b.WriteString(strconv.Itoa(c))
	}
	b.WriteByte('\n')
	return b.String()
}
