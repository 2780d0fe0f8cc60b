package salesforce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/sfniknax/niknax/internal/core/domain"
)

// ToolingClient runs anonymous Apex through the tooling REST API.
type ToolingClient struct {
	client *Client
}

func NewToolingClient(client *Client) *ToolingClient {
	return &ToolingClient{client: client}
}

type executeAnonymousResult struct {
	Compiled         bool   `json:"compiled"`
	Success          bool   `json:"success"`
	CompileProblem   string `json:"compileProblem"`
	ExceptionMessage string `json:"exceptionMessage"`
}

// ExecuteAnonymous compiles and runs apex. A compile problem or an uncaught
// exception is reported as an ErrRemote failure.
func (t *ToolingClient) ExecuteAnonymous(ctx context.Context, apex string) error {
	path := "/services/data/v" + t.client.opts.APIVersion + "/tooling/executeAnonymous"
	target := t.client.URL(path, url.Values{"anonymousBody": {apex}})

	body, err := t.client.fetch(ctx, "tooling.execute_anonymous", http.MethodGet, target, nil, nil)
	if err != nil {
		return err
	}

	var res executeAnonymousResult
	if err := json.Unmarshal(body, &res); err != nil {
		return domain.NewRemoteError(domain.ErrInvalidResponse, http.StatusOK, "execute anonymous: %s", err.Error())
	}

	switch {
	case res.ExceptionMessage != "":
		return domain.NewRemoteError(domain.ErrRemote, http.StatusOK, "%s", res.ExceptionMessage)
	case res.CompileProblem != "":
		return domain.NewRemoteError(domain.ErrRemote, http.StatusOK, "%s", res.CompileProblem)
	case !res.Success:
		return domain.NewRemoteError(domain.ErrRemote, http.StatusOK, "anonymous apex did not succeed")
	}
	return nil
}
