// Package httpapi is the contest HTTP API client: fetching problems,
// posting submissions, and reading back scores. The core solver packages
// never import it; cmd/stageboard constructs a Client and calls it directly.
// The ProblemFetcher and SubmissionPoster interfaces describe those two
// calls and are satisfied by Client.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/fuqinho/icfpc2023-sub000/problem"
)

// DefaultBaseURL is the contest API endpoint.
const DefaultBaseURL = "https://api.icfpcontest.com"

// ProblemFetcher retrieves a problem description by id.
type ProblemFetcher interface {
	FetchProblem(ctx context.Context, problemID uint32) (problem.Problem, error)
}

// SubmissionPoster submits a serialized solution for a problem.
type SubmissionPoster interface {
	Submit(ctx context.Context, problemID uint32, contents string) (string, error)
}

// Userboard is the per-problem best-score listing for the authenticated
// team. A nil entry means no scored submission for that problem yet.
type Userboard struct {
	Problems []*float64 `json:"problems"`
}

// ScoreboardEntry is one team's row on the global scoreboard.
type ScoreboardEntry struct {
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}

// Scoreboard is the global standings snapshot.
type Scoreboard struct {
	Frozen    bool              `json:"frozen"`
	Entries   []ScoreboardEntry `json:"scoreboard"`
	UpdatedAt string            `json:"updated_at"`
}

// Submission is the metadata of one posted solution. Score is left as raw
// JSON because the server reports it as a tagged enum (a number under
// "Success", a message under "Failure", or the literal "Processing").
type Submission struct {
	ID          string          `json:"_id"`
	ProblemID   uint32          `json:"problem_id"`
	UserID      string          `json:"user_id"`
	Score       json.RawMessage `json:"score"`
	SubmittedAt string          `json:"submitted_at"`
}

// Client talks to the contest API. All outbound requests share one rate
// limiter so a submit loop cannot hammer the scoreboard. The bearer token
// is injected at construction; Client never reads the environment itself.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
}

var _ ProblemFetcher = (*Client)(nil)
var _ SubmissionPoster = (*Client)(nil)

// NewClient builds a Client for baseURL (DefaultBaseURL if empty)
// authenticating with token, limited to requestsPerSecond outbound calls.
func NewClient(baseURL, token string, requestsPerSecond float64) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// apiResponse is the contest API's success/failure envelope.
type apiResponse struct {
	Success json.RawMessage `json:"Success"`
	Failure string          `json:"Failure"`
}

// FetchProblem retrieves and decodes the problem with the given id.
func (c *Client) FetchProblem(ctx context.Context, problemID uint32) (problem.Problem, error) {
	body, err := c.get(ctx, fmt.Sprintf("/problem?problem_id=%d", problemID), false)
	if err != nil {
		return problem.Problem{}, errors.Wrapf(err, "httpapi: fetching problem %d", problemID)
	}

	var env apiResponse
	if err := json.Unmarshal(body, &env); err != nil {
		return problem.Problem{}, errors.Wrapf(err, "httpapi: decoding problem %d envelope", problemID)
	}
	if env.Failure != "" {
		return problem.Problem{}, errors.Errorf("httpapi: fetching problem %d: %s", problemID, env.Failure)
	}

	// The envelope's Success arm carries the problem JSON as a string.
	var contents string
	if err := json.Unmarshal(env.Success, &contents); err != nil {
		return problem.Problem{}, errors.Wrapf(err, "httpapi: decoding problem %d contents", problemID)
	}
	p, err := problem.ParseProblem([]byte(contents))
	if err != nil {
		return problem.Problem{}, errors.Wrapf(err, "httpapi: parsing problem %d", problemID)
	}
	return p, nil
}

// Submit posts a serialized solution JSON string for problemID and returns
// the server's response body unparsed; the server sends the assigned
// submission id there as a JSON string, quotes included.
func (c *Client) Submit(ctx context.Context, problemID uint32, contents string) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"problem_id": problemID,
		"contents":   contents,
	})
	if err != nil {
		return "", errors.Wrap(err, "httpapi: encoding submission")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", errors.Wrap(err, "httpapi: rate limit wait")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submission", bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "httpapi: building submission request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "httpapi: posting submission for problem %d", problemID)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "httpapi: reading submission response")
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", errors.Errorf("httpapi: posting submission for problem %d: %s: %s",
			problemID, resp.Status, string(body))
	}
	return string(body), nil
}

// FetchUserboard retrieves the team's per-problem best scores.
func (c *Client) FetchUserboard(ctx context.Context) (Userboard, error) {
	body, err := c.get(ctx, "/userboard", true)
	if err != nil {
		return Userboard{}, errors.Wrap(err, "httpapi: fetching userboard")
	}
	var env struct {
		Success *Userboard `json:"Success"`
		Failure string     `json:"Failure"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return Userboard{}, errors.Wrap(err, "httpapi: decoding userboard")
	}
	if env.Failure != "" || env.Success == nil {
		return Userboard{}, errors.Errorf("httpapi: fetching userboard: %s", env.Failure)
	}
	return *env.Success, nil
}

// FetchScoreboard retrieves the global standings. Unlike the other reads it
// is served unwrapped, with no Success/Failure envelope.
func (c *Client) FetchScoreboard(ctx context.Context) (Scoreboard, error) {
	body, err := c.get(ctx, "/scoreboard", false)
	if err != nil {
		return Scoreboard{}, errors.Wrap(err, "httpapi: fetching scoreboard")
	}
	var sb Scoreboard
	if err := json.Unmarshal(body, &sb); err != nil {
		return Scoreboard{}, errors.Wrap(err, "httpapi: decoding scoreboard")
	}
	return sb, nil
}

// FetchSubmissions lists the team's submissions from offset, at most limit
// entries, optionally restricted to one problem (problemID nil means all).
func (c *Client) FetchSubmissions(ctx context.Context, offset, limit int, problemID *uint32) ([]Submission, error) {
	path := fmt.Sprintf("/submissions?offset=%d&limit=%d", offset, limit)
	if problemID != nil {
		path += fmt.Sprintf("&problem_id=%d", *problemID)
	}
	body, err := c.get(ctx, path, true)
	if err != nil {
		return nil, errors.Wrap(err, "httpapi: fetching submissions")
	}
	var env struct {
		Success []Submission `json:"Success"`
		Failure string       `json:"Failure"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.Wrap(err, "httpapi: decoding submissions")
	}
	if env.Failure != "" {
		return nil, errors.Errorf("httpapi: fetching submissions: %s", env.Failure)
	}
	return env.Success, nil
}

func (c *Client) get(ctx context.Context, path string, authed bool) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limit wait")
	}
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, errors.Wrapf(err, "bad url %q", c.baseURL+path)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	if authed && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", path)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s response", path)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("GET %s: %s: %s", path, resp.Status, string(body))
	}
	return body, nil
}
