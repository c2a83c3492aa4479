package appwrite

import (
	"context"
	"net/http"
	"net/url"

	"snapgram/internal/platform/appwrite/dto"
)

func documentsPath(databaseID, collectionID string) string {
	return "/databases/" + url.PathEscape(databaseID) + "/collections/" + url.PathEscape(collectionID) + "/documents"
}

// CreateDocument stores data as a new document and returns the stored record.
func (c *Client) CreateDocument(ctx context.Context, cookies CookieStore, databaseID, collectionID, documentID string, data any) (map[string]any, error) {
	out := map[string]any{}
	body := dto.CreateDocumentRequest{DocumentID: documentID, Data: data}
	if err := c.call(ctx, http.MethodPost, documentsPath(databaseID, collectionID), nil, body, cookies, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListDocuments returns the documents matching every query.
func (c *Client) ListDocuments(ctx context.Context, cookies CookieStore, databaseID, collectionID string, queries ...Query) (*dto.DocumentList, error) {
	q := url.Values{}
	for _, qq := range queries {
		q.Add("queries[]", string(qq))
	}
	var out dto.DocumentList
	if err := c.call(ctx, http.MethodGet, documentsPath(databaseID, collectionID), q, nil, cookies, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
