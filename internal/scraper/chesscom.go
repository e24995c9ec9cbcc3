package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultChessComURL = "https://api.chess.com"

var ErrUserNotFound = errors.New("user not found on chess.com")

type ChessComGame struct {
	UUID  string `json:"uuid"`
	URL   string `json:"url"`
	PGN   string `json:"pgn"`
	Rules string `json:"rules"`
}

type archivesResponse struct {
	Archives []string `json:"archives"`
}

type gamesResponse struct {
	Games []ChessComGame `json:"games"`
}

// ChessComClient reads public game archives from the chess.com API.
type ChessComClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewChessComClient(baseURL string) *ChessComClient {
	if baseURL == "" {
		baseURL = DefaultChessComURL
	}
	return &ChessComClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Minute},
	}
}

// Archives lists the monthly archive URLs of username, oldest first.
func (c *ChessComClient) Archives(ctx context.Context, username string) ([]string, error) {
	u := fmt.Sprintf("%s/pub/player/%s/games/archives", c.BaseURL, url.PathEscape(strings.ToLower(username)))
	var res archivesResponse
	if err := c.getJSON(ctx, u, &res); err != nil {
		return nil, err
	}
	return res.Archives, nil
}

func (c *ChessComClient) Games(ctx context.Context, archiveURL string) ([]ChessComGame, error) {
	var res gamesResponse
	if err := c.getJSON(ctx, archiveURL, &res); err != nil {
		return nil, err
	}
	return res.Games, nil
}

// UserGames returns up to limit standard chess games of username, oldest
// first. limit <= 0 means all games.
func (c *ChessComClient) UserGames(ctx context.Context, username string, limit int) ([]ChessComGame, error) {
	archives, err := c.Archives(ctx, username)
	if err != nil {
		return nil, err
	}
	res := make([]ChessComGame, 0)
	for _, archive := range archives {
		games, err := c.Games(ctx, archive)
		if err != nil {
			return nil, err
		}
		for _, g := range games {
			if g.PGN == "" || (g.Rules != "" && g.Rules != "chess") {
				continue
			}
			res = append(res, g)
			if limit > 0 && len(res) == limit {
				return res, nil
			}
		}
	}
	return res, nil
}

func (c *ChessComClient) getJSON(ctx context.Context, u string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrUserNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: unexpected status %s", u, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
