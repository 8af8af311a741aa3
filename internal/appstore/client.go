// Package appstore is a small client for the App Store Connect Game Center
// endpoints needed to provision leaderboards.
package appstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// DefaultBaseURL is the App Store Connect API root.
const DefaultBaseURL = "https://api.appstoreconnect.apple.com/v1"

const (
	maxBodyBytes     = 1 << 20
	fatalBodyLimit   = 1024
	failureBodyLimit = 200
)

// Outcome classifies the result of a create call.
type Outcome int

const (
	OutcomeCreated Outcome = iota + 1
	OutcomeConflict
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeConflict:
		return "conflict"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// CreateResult is the outcome of CreateLeaderboard. LeaderboardID is only
// set for OutcomeCreated.
type CreateResult struct {
	Outcome       Outcome
	LeaderboardID string
	StatusCode    int
	Detail        string
}

// Client talks to the App Store Connect API with a fixed bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	baseURL string
	base    *http.Client
}

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) { o.baseURL = baseURL }
}

// WithHTTPClient sets the client whose transport carries the authorized requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.base = c }
}

// NewClient creates a client that authenticates every request with token.
func NewClient(token string, opts ...Option) *Client {
	o := clientOptions{
		baseURL: DefaultBaseURL,
		base:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(&o)
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, o.base)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})

	return &Client{
		baseURL:    strings.TrimRight(o.baseURL, "/"),
		httpClient: oauth2.NewClient(ctx, src),
	}
}

// GameCenterDetailID returns the id of the app's Game Center detail resource.
// When the app has no such resource yet, Game Center is enabled first.
func (c *Client) GameCenterDetailID(ctx context.Context, appID string) (string, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/apps/"+url.PathEscape(appID)+"/gameCenterDetail", nil)
	if err != nil {
		return "", fmt.Errorf("fetching game center detail: %w", err)
	}

	if status != http.StatusOK {
		return "", newAPIError("fetching game center detail", status, body, fatalBodyLimit)
	}

	var resp resourceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parsing game center detail: %w", err)
	}

	if resp.Data != nil && resp.Data.ID != "" {
		return resp.Data.ID, nil
	}

	slog.Info("game center is not enabled for this app, enabling", "app_id", appID)
	return c.EnableGameCenter(ctx, appID)
}

// EnableGameCenter creates the Game Center detail resource for the app.
func (c *Client) EnableGameCenter(ctx context.Context, appID string) (string, error) {
	doc := Document[noAttributes]{
		Data: Resource[noAttributes]{
			Type: TypeGameCenterDetails,
			Relationships: map[string]Relationship{
				"app": relationshipTo(TypeApps, appID),
			},
		},
	}

	status, body, err := c.do(ctx, http.MethodPost, "/gameCenterDetails", doc)
	if err != nil {
		return "", fmt.Errorf("enabling game center: %w", err)
	}

	if status != http.StatusCreated {
		return "", newAPIError("enabling game center", status, body, fatalBodyLimit)
	}

	var resp resourceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parsing game center detail: %w", err)
	}
	if resp.Data == nil || resp.Data.ID == "" {
		return "", fmt.Errorf("enabling game center: response is missing the resource id")
	}

	slog.Info("game center enabled", "app_id", appID, "game_center_detail_id", resp.Data.ID)
	return resp.Data.ID, nil
}

// CreateLeaderboard creates a best-score, ascending, elapsed-time leaderboard.
// HTTP failures are reported through the result; the error is only set when
// the request itself could not be performed.
func (c *Client) CreateLeaderboard(ctx context.Context, detailID, vendorID, referenceName string) (CreateResult, error) {
	doc := Document[LeaderboardAttributes]{
		Data: Resource[LeaderboardAttributes]{
			Type: TypeGameCenterLeaderboards,
			Attributes: &LeaderboardAttributes{
				DefaultFormatter: FormatterElapsedTimeCentisecond,
				ReferenceName:    referenceName,
				VendorIdentifier: vendorID,
				SubmissionType:   SubmissionBestScore,
				ScoreSortType:    SortAscending,
			},
			Relationships: map[string]Relationship{
				"gameCenterDetail": relationshipTo(TypeGameCenterDetails, detailID),
			},
		},
	}

	status, body, err := c.do(ctx, http.MethodPost, "/gameCenterLeaderboards", doc)
	if err != nil {
		return CreateResult{}, fmt.Errorf("creating leaderboard %s: %w", vendorID, err)
	}

	result := CreateResult{StatusCode: status}

	switch status {
	case http.StatusCreated:
		var resp resourceResponse
		if err := json.Unmarshal(body, &resp); err != nil || resp.Data == nil || resp.Data.ID == "" {
			result.Outcome = OutcomeFailed
			result.Detail = "response is missing the leaderboard id"
			return result, nil
		}
		result.Outcome = OutcomeCreated
		result.LeaderboardID = resp.Data.ID
	case http.StatusConflict:
		result.Outcome = OutcomeConflict
		result.Detail = errorDetail(body)
	default:
		result.Outcome = OutcomeFailed
		result.Detail = truncate(body, failureBodyLimit)
	}

	return result, nil
}

// AddLocalization attaches a localized name to a leaderboard. An existing
// localization (HTTP 409) counts as success.
func (c *Client) AddLocalization(ctx context.Context, leaderboardID, locale, name string) error {
	doc := Document[LocalizationAttributes]{
		Data: Resource[LocalizationAttributes]{
			Type: TypeGameCenterLeaderboardLocalizations,
			Attributes: &LocalizationAttributes{
				Locale: locale,
				Name:   name,
			},
			Relationships: map[string]Relationship{
				"gameCenterLeaderboard": relationshipTo(TypeGameCenterLeaderboards, leaderboardID),
			},
		},
	}

	status, body, err := c.do(ctx, http.MethodPost, "/gameCenterLeaderboardLocalizations", doc)
	if err != nil {
		return fmt.Errorf("adding localization %q: %w", name, err)
	}

	if status != http.StatusCreated && status != http.StatusConflict {
		return newAPIError(fmt.Sprintf("adding localization %q", name), status, body, failureBodyLimit)
	}

	return nil
}

// do sends a JSON request and returns the status code and response body.
func (c *Client) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("reading response: %w", err)
	}

	slog.Debug("api request", "method", method, "path", path, "status", resp.StatusCode)
	return resp.StatusCode, body, nil
}
