package phrase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Project is a Phrase project. Projects are only ever read.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Locale is a locale inside a project.
type Locale struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// Key is a translation key as returned by key creation.
type Key struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func projectsPath() string {
	return "/api/v2/projects"
}

func localesPath(projectID string) string {
	return fmt.Sprintf("/api/v2/projects/%s/locales", projectID)
}

func keysPath(projectID string) string {
	return fmt.Sprintf("/api/v2/projects/%s/keys", projectID)
}

func translationsPath(projectID string) string {
	return fmt.Sprintf("/api/v2/projects/%s/translations", projectID)
}

// ListProjects returns the projects visible to the token.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.getJSON(ctx, projectsPath(), &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ListLocales returns the locales of a project.
func (c *Client) ListLocales(ctx context.Context, projectID string) ([]Locale, error) {
	var locales []Locale
	if err := c.getJSON(ctx, localesPath(projectID), &locales); err != nil {
		return nil, err
	}
	return locales, nil
}

// CreateKey creates a key called name in a project.
func (c *Client) CreateKey(ctx context.Context, projectID, name string) (Key, error) {
	path := keysPath(projectID)
	resp, err := c.PostForm(ctx, path, []Param{{Name: "name", Value: name}})
	if err != nil {
		return Key{}, err
	}
	var key Key
	if err := decodeJSON(resp, path, &key); err != nil {
		return Key{}, err
	}
	return key, nil
}

// CreateTranslation attaches content to a key for one locale. The response
// body is discarded.
func (c *Client) CreateTranslation(ctx context.Context, projectID, localeID, keyID, content string) error {
	resp, err := c.PostForm(ctx, translationsPath(projectID), []Param{
		{Name: "locale_id", Value: localeID},
		{Name: "key_id", Value: keyID},
		{Name: "content", Value: content},
	})
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	return decodeJSON(resp, path, v)
}

func decodeJSON(resp *http.Response, path string, v any) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	return nil
}
