package linear

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserByName_MatchesEmailPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lin_api_key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":{"users":{"nodes":[
			{"id":"u1","name":"Alex Doe","displayName":"alex","email":"alex@example.com"},
			{"id":"u2","name":"Sam Roe","displayName":"sam","email":"sam@example.com"}
		]}}}`))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, APIKey: "lin_api_key", HTTPClient: srv.Client()}

	user, err := c.UserByName(context.Background(), "sam@")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u2", user.ID)

	user, err = c.UserByName(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestIssuesByAssigneeAndStates_SendsFilter(t *testing.T) {
	var req graphqlRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_, _ = w.Write([]byte(`{"data":{"issues":{"nodes":[
			{"identifier":"KOR-12","title":"Fix webhook retries","priority":2,
			 "url":"https://linear.app/kor/issue/KOR-12",
			 "state":{"name":"In Progress"},
			 "labels":{"nodes":[{"name":"bug"}]},
			 "team":{"name":"Core"}}
		]}}}`))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, APIKey: "key", HTTPClient: srv.Client()}
	issues, err := c.IssuesByAssigneeAndStates(context.Background(), "u1", []string{"s1", "s2"})
	require.NoError(t, err)

	filter := req.Variables["filter"].(map[string]any)
	assignee := filter["assignee"].(map[string]any)["id"].(map[string]any)
	assert.Equal(t, "u1", assignee["eq"])

	require.Len(t, issues, 1)
	assert.Equal(t, "KOR-12", issues[0].Identifier)
	assert.Equal(t, "In Progress", issues[0].State.Name)
	assert.Equal(t, []string{"bug"}, issues[0].LabelNames())
}

func TestExecute_GraphQLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"Not authorized"}]}`))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, APIKey: "key", HTTPClient: srv.Client()}
	_, err := c.WorkflowStates(context.Background())
	assert.ErrorContains(t, err, "Not authorized")
}

func TestExecute_NoKey(t *testing.T) {
	c := &Client{BaseURL: "http://unused", HTTPClient: http.DefaultClient}
	_, err := c.WorkflowStates(context.Background())
	assert.ErrorContains(t, err, "LINEAR_API_KEY")
}
