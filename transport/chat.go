package transport

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tharun-r1705/data-frontend-new/session/chatexport"
)

var _ chatexport.API = (*Client)(nil)

type chatQueryRequest struct {
	ConversationID string `json:"conversationId,omitempty"`
	Prompt         string `json:"prompt"`
}

func (c *Client) ChatQuery(ctx context.Context, conversationID, prompt string) (*chatexport.QueryResult, error) {
	var res chatexport.QueryResult
	req := chatQueryRequest{ConversationID: conversationID, Prompt: prompt}
	if err := c.do(ctx, http.MethodPost, "chat/query", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ChatRecent(ctx context.Context) (string, error) {
	var res struct {
		ConversationID string `json:"conversationId"`
	}
	if err := c.do(ctx, http.MethodGet, "chat/recent", nil, nil, &res); err != nil {
		return "", err
	}
	return res.ConversationID, nil
}

func (c *Client) ExportCSV(ctx context.Context, filter map[string]interface{}) (string, error) {
	if filter == nil {
		filter = map[string]interface{}{}
	}
	var res struct {
		DownloadURL string `json:"downloadUrl"`
	}
	body := map[string]interface{}{"filter": filter}
	if err := c.do(ctx, http.MethodPost, "export/csv", nil, body, &res); err != nil {
		return "", err
	}
	return res.DownloadURL, nil
}

func (c *Client) Download(ctx context.Context, name string) (*chatexport.Artifact, error) {
	data, suggested, err := c.download(ctx, "export/download/"+url.PathEscape(name))
	if err != nil {
		return nil, err
	}
	return &chatexport.Artifact{Name: name, SuggestedName: suggested, Data: data}, nil
}
