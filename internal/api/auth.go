package api

import (
	"context"
	"encoding/json"
	"log/slog"

	"contentsync/internal/credentials"
	cerrors "contentsync/internal/errors"
)

// Author is the API's author record.
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ResolveAuthor looks up an author record by name.
func (c *Client) ResolveAuthor(ctx context.Context, name string) (*Author, error) {
	data, err := c.Get(ctx, "v1/authors/"+name)
	if err != nil {
		return nil, err
	}
	var author Author
	if err := json.Unmarshal(data, &author); err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryNetwork, cerrors.SeverityError, "decode author response").
			WithContext("author", name)
	}
	return &author, nil
}

type tokenRequest struct {
	AuthorID string `json:"authorId"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// ObtainToken exchanges an author id and password for a bearer token.
func (c *Client) ObtainToken(ctx context.Context, authorID, password string) (string, error) {
	body, err := json.Marshal(tokenRequest{AuthorID: authorID, Password: password})
	if err != nil {
		return "", cerrors.Wrap(err, cerrors.CategoryInternal, cerrors.SeverityError, "encode token request")
	}
	data, err := c.Post(ctx, "v1/token", body)
	if err != nil {
		return "", err
	}
	var resp tokenResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", cerrors.Wrap(err, cerrors.CategoryNetwork, cerrors.SeverityError, "decode token response")
	}
	if resp.Token == "" {
		return "", cerrors.AuthError("token endpoint returned an empty token")
	}
	return resp.Token, nil
}

// Authenticate resolves the author, fetches their password from the
// credential store, and exchanges both for an authenticated client. Any
// failure here is fatal: nothing downstream can run without a token.
func Authenticate(ctx context.Context, c *Client, creds credentials.Store, service, authorName string) (*Client, error) {
	author, err := c.ResolveAuthor(ctx, authorName)
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryAuth, cerrors.SeverityFatal, "resolve author").
			WithContext("author", authorName)
	}

	password, err := creds.Get(service, authorName)
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryAuth, cerrors.SeverityFatal, "look up password").
			WithContext("service", service).
			WithContext("author", authorName)
	}

	token, err := c.ObtainToken(ctx, author.ID, password)
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.CategoryAuth, cerrors.SeverityFatal, "obtain token").
			WithContext("author", authorName)
	}

	slog.Debug("Authenticated", "author", author.Name, "authorId", author.ID)
	return c.WithToken(token), nil
}
