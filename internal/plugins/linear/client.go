// Package linear fetches and reports on Linear issues through the GraphQL API.
package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.linear.app/graphql"

// User is a Linear workspace member.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// State is one workflow state (e.g., "In Progress" on a given team).
type State struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Team struct {
		Name string `json:"name"`
	} `json:"team"`
}

// Issue is one Linear issue with the fields the report cares about.
type Issue struct {
	Identifier  string `json:"identifier"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority"`
	URL         string `json:"url"`
	DueDate     string `json:"dueDate,omitempty"`
	State       struct {
		Name string `json:"name"`
	} `json:"state"`
	Labels struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"labels"`
	Team struct {
		Name string `json:"name"`
	} `json:"team"`
	Project struct {
		Name string `json:"name"`
	} `json:"project"`
}

// LabelNames returns the issue's label names.
func (i Issue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels.Nodes))
	for _, l := range i.Labels.Nodes {
		names = append(names, l.Name)
	}
	return names
}

// Client is a minimal Linear GraphQL client.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a client with the given API key, falling back to
// LINEAR_API_KEY when empty.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		apiKey = os.Getenv("LINEAR_API_KEY")
	}
	return &Client{
		BaseURL:    defaultBaseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// execute posts one GraphQL query and unmarshals the data envelope into out.
func (c *Client) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	if c.APIKey == "" {
		return fmt.Errorf("no Linear key, set LINEAR_API_KEY or api_key in the plugin config")
	}

	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("querying linear: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("linear returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var parsed graphqlResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		msgs := make([]string, len(parsed.Errors))
		for i, e := range parsed.Errors {
			msgs[i] = e.Message
		}
		return fmt.Errorf("linear graphql errors: %s", strings.Join(msgs, "; "))
	}

	if err := json.Unmarshal(parsed.Data, out); err != nil {
		return fmt.Errorf("parsing data: %w", err)
	}
	return nil
}

// UserByName finds a workspace member by display name, name, or email
// prefix. A nil user means no match.
func (c *Client) UserByName(ctx context.Context, username string) (*User, error) {
	const query = `query { users { nodes { id name displayName email } } }`

	var data struct {
		Users struct {
			Nodes []User `json:"nodes"`
		} `json:"users"`
	}
	if err := c.execute(ctx, query, nil, &data); err != nil {
		return nil, err
	}

	for _, u := range data.Users.Nodes {
		if u.DisplayName == username || u.Name == username || strings.HasPrefix(u.Email, username) {
			return &u, nil
		}
	}
	return nil, nil
}

// WorkflowStates returns every workflow state across all teams.
func (c *Client) WorkflowStates(ctx context.Context) ([]State, error) {
	const query = `query { workflowStates { nodes { id name type team { name } } } }`

	var data struct {
		WorkflowStates struct {
			Nodes []State `json:"nodes"`
		} `json:"workflowStates"`
	}
	if err := c.execute(ctx, query, nil, &data); err != nil {
		return nil, err
	}
	return data.WorkflowStates.Nodes, nil
}

// IssuesByAssigneeAndStates returns the issues assigned to the user that
// sit in one of the given workflow states.
func (c *Client) IssuesByAssigneeAndStates(ctx context.Context, userID string, stateIDs []string) ([]Issue, error) {
	const query = `query GetIssues($filter: IssueFilter) {
		issues(filter: $filter) {
			nodes {
				identifier title description priority url dueDate
				state { name }
				labels { nodes { name } }
				team { name }
				project { name }
			}
		}
	}`

	variables := map[string]any{
		"filter": map[string]any{
			"assignee": map[string]any{"id": map[string]any{"eq": userID}},
			"state":    map[string]any{"id": map[string]any{"in": stateIDs}},
		},
	}

	var data struct {
		Issues struct {
			Nodes []Issue `json:"nodes"`
		} `json:"issues"`
	}
	if err := c.execute(ctx, query, variables, &data); err != nil {
		return nil, err
	}
	return data.Issues.Nodes, nil
}
