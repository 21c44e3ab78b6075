package pubg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dinnerwatch/internal/watcher"
)

// ResolvePlayer maps a player name to its account id. Any failure is a
// *watcher.LookupError.
func (c *Client) ResolvePlayer(ctx context.Context, name string) (string, error) {
	players, err := c.GetPlayersByName(ctx, name)
	if err != nil {
		return "", &watcher.LookupError{Name: name, Err: err}
	}
	if len(players) == 0 {
		return "", &watcher.LookupError{Name: name, Err: ErrNotFound}
	}
	for _, p := range players {
		if p.Attributes.Name == name && p.ID != "" {
			return p.ID, nil
		}
	}
	if players[0].ID == "" {
		return "", &watcher.LookupError{Name: name, Err: errors.New("player without account id")}
	}
	return players[0].ID, nil
}

// RecentMatches returns up to limit match references for an account, most
// recent first.
func (c *Client) RecentMatches(ctx context.Context, accountID string, limit int) ([]watcher.MatchReference, error) {
	player, err := c.GetPlayer(ctx, accountID)
	if err != nil {
		return nil, &watcher.FetchError{Op: "recent_matches", Key: accountID, Err: err}
	}

	matches := player.Relationships.Matches.Data
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	refs := make([]watcher.MatchReference, 0, len(matches))
	for _, m := range matches {
		if m.ID == "" {
			return nil, &watcher.FetchError{Op: "recent_matches", Key: accountID, Err: errors.New("match reference without id")}
		}
		refs = append(refs, watcher.MatchReference{ID: m.ID})
	}
	return refs, nil
}

// MatchDetail fetches a match and converts it to the watcher's view.
func (c *Client) MatchDetail(ctx context.Context, matchID string) (watcher.MatchDetail, error) {
	match, err := c.GetMatch(ctx, matchID)
	if err != nil {
		return watcher.MatchDetail{}, &watcher.FetchError{Op: "match_detail", Key: matchID, Err: err}
	}

	detail, err := toMatchDetail(matchID, match)
	if err != nil {
		return watcher.MatchDetail{}, &watcher.FetchError{Op: "match_detail", Key: matchID, Err: err}
	}
	return detail, nil
}

func toMatchDetail(matchID string, match *MatchResponse) (watcher.MatchDetail, error) {
	attrs := match.Data.Attributes

	var createdAt time.Time
	if attrs.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339, attrs.CreatedAt)
		if err != nil {
			return watcher.MatchDetail{}, fmt.Errorf("invalid createdAt %q: %w", attrs.CreatedAt, err)
		}
		createdAt = t.UTC()
	}

	stats, err := match.Participants()
	if err != nil {
		return watcher.MatchDetail{}, fmt.Errorf("invalid participant: %w", err)
	}

	participants := make([]watcher.ParticipantStat, 0, len(stats))
	for _, s := range stats {
		participants = append(participants, watcher.ParticipantStat{
			PlayerName:  s.Name,
			Kills:       s.Kills,
			Assists:     s.Assists,
			DamageDealt: s.DamageDealt,
			Rank:        s.WinPlace,
		})
	}

	id := match.Data.ID
	if id == "" {
		id = matchID
	}
	return watcher.MatchDetail{
		Summary: watcher.MatchSummary{
			ID:              id,
			Map:             attrs.MapName,
			DurationSeconds: attrs.Duration,
			GameMode:        attrs.GameMode,
			CreatedAt:       createdAt,
		},
		Participants: participants,
	}, nil
}
