package pubg

import json "github.com/goccy/go-json"

// PlayersResponse is the response from /players?filter[playerNames]=...
type PlayersResponse struct {
	Data []Player `json:"data"`
}

// PlayerResponse is the response from /players/{accountId}
type PlayerResponse struct {
	Data Player `json:"data"`
}

// Player is a JSON:API player resource.
type Player struct {
	Type          string              `json:"type"`
	ID            string              `json:"id"` // account.xxxxxxxx
	Attributes    PlayerAttributes    `json:"attributes"`
	Relationships PlayerRelationships `json:"relationships"`
}

type PlayerAttributes struct {
	Name     string `json:"name"`
	ShardID  string `json:"shardId"`
	TitleID  string `json:"titleId"`
	PatchVer string `json:"patchVersion"`
}

type PlayerRelationships struct {
	Matches struct {
		Data []ResourceRef `json:"data"`
	} `json:"matches"`
}

// SeasonsResponse is the response from /seasons
type SeasonsResponse struct {
	Data []ResourceRef `json:"data"`
}

// ResourceRef is a JSON:API resource identifier.
type ResourceRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// MatchResponse is the response from /matches/{matchId}
type MatchResponse struct {
	Data     MatchData          `json:"data"`
	Included []IncludedResource `json:"included"`
}

type MatchData struct {
	Type       string          `json:"type"`
	ID         string          `json:"id"`
	Attributes MatchAttributes `json:"attributes"`
}

type MatchAttributes struct {
	CreatedAt   string `json:"createdAt"` // RFC3339, UTC
	Duration    int    `json:"duration"`  // seconds
	GameMode    string `json:"gameMode"`  // squad-fpp, duo, solo...
	MapName     string `json:"mapName"`   // Baltic_Main, Desert_Main...
	IsCustom    bool   `json:"isCustomMatch"`
	MatchType   string `json:"matchType"`
	ShardID     string `json:"shardId"`
	TitleID     string `json:"titleId"`
	SeasonState string `json:"seasonState"`
}

// IncludedResource is one entry of a match's "included" array. Attributes
// differ by type (participant, roster, asset), so they are decoded lazily.
type IncludedResource struct {
	Type       string          `json:"type"`
	ID         string          `json:"id"`
	Attributes json.RawMessage `json:"attributes"`
}

// ParticipantAttributes holds a participant's stats block.
type ParticipantAttributes struct {
	Actor   string           `json:"actor"`
	ShardID string           `json:"shardId"`
	Stats   ParticipantStats `json:"stats"`
}

type ParticipantStats struct {
	Name         string  `json:"name"`
	PlayerID     string  `json:"playerId"`
	Kills        int     `json:"kills"`
	Assists      int     `json:"assists"`
	DBNOs        int     `json:"DBNOs"`
	DamageDealt  float64 `json:"damageDealt"`
	HeadshotKill int     `json:"headshotKills"`
	TimeSurvived float64 `json:"timeSurvived"`
	WinPlace     int     `json:"winPlace"`
}

// Participants decodes the participant entries of a match, skipping rosters
// and assets.
func (m *MatchResponse) Participants() ([]ParticipantStats, error) {
	var out []ParticipantStats
	for _, inc := range m.Included {
		if inc.Type != "participant" {
			continue
		}
		var attrs ParticipantAttributes
		if err := json.Unmarshal(inc.Attributes, &attrs); err != nil {
			return nil, err
		}
		out = append(out, attrs.Stats)
	}
	return out, nil
}
