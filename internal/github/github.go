package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

const defaultAPIURL = "https://api.github.com"

// maxCommentBytes is GitHub's limit on an issue comment body.
const maxCommentBytes = 65536

const truncatedNote = "\n\n*Report truncated, see the job artifact for the full text.*\n"

// Client provides access to the GitHub REST API.
type Client struct {
	token   string
	apiURL  string
	httpCli *http.Client
}

// NewClient creates a new GitHub client. Requires GITHUB_TOKEN env var.
func NewClient() (*Client, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable is not set")
	}

	apiURL := os.Getenv("GITHUB_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	apiURL = strings.TrimRight(apiURL, "/")

	return &Client{
		token:   token,
		apiURL:  apiURL,
		httpCli: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Comment is an issue or pull request comment.
type Comment struct {
	ID      int64  `json:"id,omitempty"`
	Body    string `json:"body"`
	HTMLURL string `json:"html_url,omitempty"`
}

// PostComment posts body as a comment on a pull request and returns the
// created comment. Bodies over GitHub's size limit are truncated.
func (c *Client) PostComment(ctx context.Context, owner, repo string, prNumber int, body string) (Comment, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d/comments", c.apiURL, owner, repo, prNumber)

	payload, err := json.Marshal(Comment{Body: TruncateBody(body, maxCommentBytes)})
	if err != nil {
		return Comment{}, fmt.Errorf("marshaling comment: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return Comment{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return Comment{}, fmt.Errorf("posting comment: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Comment{}, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == 404 {
		return Comment{}, fmt.Errorf("PR #%d not found in %s/%s", prNumber, owner, repo)
	}
	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return Comment{}, fmt.Errorf("authentication failed: %s", string(data))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Comment{}, fmt.Errorf("GitHub API error (status %d): %s", resp.StatusCode, string(data))
	}

	var created Comment
	if err := json.Unmarshal(data, &created); err != nil {
		return Comment{}, fmt.Errorf("parsing response: %w", err)
	}
	return created, nil
}

// TruncateBody shortens body to at most limit bytes, cutting at a line
// boundary and appending a note. Bodies within the limit are returned as is.
func TruncateBody(body string, limit int) string {
	if len(body) <= limit {
		return body
	}
	keep := limit - len(truncatedNote)
	if keep < 0 {
		keep = 0
	}
	cut := body[:keep]
	if i := strings.LastIndexByte(cut, '\n'); i >= 0 {
		cut = cut[:i]
	}
	return cut + truncatedNote
}

var (
	httpsRemoteRe = regexp.MustCompile(`https?://[^/]+/([^/]+)/([^/.\s]+)`)
	sshRemoteRe   = regexp.MustCompile(`[^@]+@[^:]+:([^/]+)/([^/.\s]+)`)
)

// DetectRepo returns owner/repo from GITHUB_REPOSITORY when running in
// Actions, otherwise from the git remote origin URL.
func DetectRepo() (owner, repo string, err error) {
	if full := os.Getenv("GITHUB_REPOSITORY"); full != "" {
		if o, r, ok := strings.Cut(full, "/"); ok && o != "" && r != "" {
			return o, r, nil
		}
	}
	out, err := exec.Command("git", "remote", "get-url", "origin").Output()
	if err != nil {
		return "", "", fmt.Errorf("cannot detect repo: git remote get-url origin failed: %w", err)
	}
	url := strings.TrimSpace(string(out))
	return ParseRemoteURL(url)
}

// ParseRemoteURL extracts owner/repo from a git remote URL.
func ParseRemoteURL(url string) (owner, repo string, err error) {
	// Strip .git suffix
	url = strings.TrimSuffix(url, ".git")

	if m := httpsRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return m[1], m[2], nil
	}
	if m := sshRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return m[1], m[2], nil
	}
	return "", "", fmt.Errorf("cannot parse owner/repo from remote URL: %s", url)
}
