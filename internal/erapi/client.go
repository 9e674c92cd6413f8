// Package erapi is a small client for the Eternal Return open API: it
// resolves nicknames to user numbers and summarises recent games.
package erapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultURL is the public API endpoint.
const DefaultURL = "https://open-api.bser.io"

// ErrNoAPIKey is returned when a request is attempted without a key.
var ErrNoAPIKey = errors.New("ER_API_KEY is not set")

// StatusError is returned for unexpected HTTP responses.
type StatusError struct {
	Code     int
	Response []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("response code %d (%s)", e.Code, e.Response)
}

// Config configures a Client.
type Config struct {
	URL    string
	APIKey string
	Client *http.Client
	Cache  Cache
	Logger *slog.Logger
}

// Client talks to the stats API.
type Client struct {
	url    string
	apiKey string
	client *http.Client
	cache  Cache
	logger *slog.Logger
}

// New creates a client. A missing API key is logged but not fatal; every
// request then fails with ErrNoAPIKey.
func New(config Config) *Client {
	c := &Client{
		url:    strings.TrimSuffix(config.URL, "/"),
		apiKey: config.APIKey,
		client: config.Client,
		cache:  config.Cache,
		logger: config.Logger,
	}

	if c.url == "" {
		c.url = DefaultURL
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.cache == nil {
		c.cache = NewMemoryCache()
	}
	if c.client == nil {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.MaxIdleConns = 10
		tr.IdleConnTimeout = 30 * time.Second

		c.client = &http.Client{
			Transport: tr,
			Timeout:   10 * time.Second,
		}
	}

	if c.apiKey == "" {
		c.logger.Warn("ER_API_KEY is not set, stats lookups will fail")
	}

	return c
}

type nicknameResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	User    struct {
		UserNum  int64  `json:"userNum"`
		Nickname string `json:"nickname"`
	} `json:"user"`
}

// UserNum resolves nickname. It returns false without an error when the
// player does not exist, which is the usual outcome of a misread name.
func (c *Client) UserNum(ctx context.Context, nickname string) (int64, bool, error) {
	if n, ok := c.cache.Get(nickname); ok {
		return n, true, nil
	}

	var res nicknameResponse
	found, err := c.get(ctx, "/v1/user/nickname?query="+url.QueryEscape(nickname), &res)
	if err != nil {
		return 0, false, err
	}
	if !found || res.Code != http.StatusOK {
		c.logger.Debug("user not found", "nickname", nickname, "code", res.Code)
		return 0, false, nil
	}

	c.cache.Set(nickname, res.User.UserNum)
	return res.User.UserNum, true, nil
}

// Game is one entry of a player's recent games.
type Game struct {
	GameID       int64 `json:"gameId"`
	GameRank     int   `json:"gameRank"`
	PlayerKill   int   `json:"playerKill"`
	CharacterNum int   `json:"characterNum"`
}

type gamesResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	UserGames []Game `json:"userGames"`
}

// Games returns the player's recent games, newest first.
func (c *Client) Games(ctx context.Context, userNum int64) ([]Game, error) {
	var res gamesResponse
	found, err := c.get(ctx, "/v1/user/games/"+strconv.FormatInt(userNum, 10), &res)
	if err != nil || !found {
		return nil, err
	}
	return res.UserGames, nil
}

// Stats summarises the player's recent games. It returns nil without an
// error when the player has no games.
func (c *Client) Stats(ctx context.Context, userNum int64) (*Summary, error) {
	games, err := c.Games(ctx, userNum)
	if err != nil {
		return nil, err
	}
	return Summarize(games), nil
}

// get decodes a JSON response into v. A 404 reports found == false.
func (c *Client) get(ctx context.Context, path string, v any) (bool, error) {
	if c.apiKey == "" {
		return false, ErrNoAPIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+path, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return false, nil
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return false, &StatusError{Code: res.StatusCode, Response: data}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("error parsing response: %w", err)
	}
	return true, nil
}
