package appwrite

import "net/url"

// InitialsURL returns the URL of an avatar image generated from the
// initials of name. No request is made; the URL is fetched by the browser.
func (c *Client) InitialsURL(name string) string {
	q := url.Values{}
	if name != "" {
		q.Set("name", name)
	}
	q.Set("project", c.cfg.ProjectID)
	return c.cfg.Endpoint + "/avatars/initials?" + q.Encode()
}
