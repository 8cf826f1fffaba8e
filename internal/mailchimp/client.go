// Package mailchimp is a small client for the Mailchimp Marketing API v3,
// covering the audience, member, interest and tag endpoints used by the
// subscription service.
package mailchimp

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ignite/audience-subscribe/internal/config"
	"github.com/ignite/audience-subscribe/internal/domain"
	"github.com/ignite/audience-subscribe/internal/pkg/httpclient"
)

// Client is the Mailchimp API client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpclient.HTTPDoer
}

// NewClient creates a new Mailchimp API client. The base URL is derived from
// the datacenter suffix of the API key unless cfg.BaseURL is set.
func NewClient(cfg config.MailchimpConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = BaseURLForKey(cfg.APIKey)
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpclient.New(cfg.Timeout()),
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing)
func (c *Client) SetHTTPClient(client httpclient.HTTPDoer) {
	c.httpClient = client
}

// BaseURLForKey returns the API root for the datacenter named after the
// last "-" of an API key ("abc123-us6" -> https://us6.api.mailchimp.com/3.0).
func BaseURLForKey(apiKey string) string {
	dc := "us1"
	if i := strings.LastIndex(apiKey, "-"); i >= 0 && i < len(apiKey)-1 {
		dc = apiKey[i+1:]
	}
	return fmt.Sprintf("https://%s.api.mailchimp.com/3.0", dc)
}

// MemberHash is the member id the API expects: hex MD5 of the lower-cased address.
func MemberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(email)))
	return hex.EncodeToString(sum[:])
}

func memberPath(audienceID, email string) string {
	return fmt.Sprintf("/lists/%s/members/%s", url.PathEscape(audienceID), MemberHash(email))
}

// doRequest performs an authenticated request and returns the response body.
// Failures are *APIError or *RawError.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth("anystring", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RawError{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RawError{Status: resp.StatusCode, Message: fmt.Sprintf("failed to read response body: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

func decodeError(status int, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && (apiErr.Status != 0 || apiErr.Title != "") {
		if apiErr.Status == 0 {
			apiErr.Status = status
		}
		apiErr.Raw = body
		return &apiErr
	}
	return &RawError{
		Status:  status,
		Message: fmt.Sprintf("API error (status %d): %s", status, string(body)),
	}
}

// stripLinks drops the hypermedia "_links" member from a JSON object.
func stripLinks(body []byte) json.RawMessage {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return json.RawMessage(body)
	}
	if _, ok := doc["_links"]; !ok {
		return json.RawMessage(body)
	}
	delete(doc, "_links")
	out, err := json.Marshal(doc)
	if err != nil {
		return json.RawMessage(body)
	}
	return out
}

func decodeMember(body []byte) (*domain.Member, error) {
	var m domain.Member
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("failed to parse member: %w", err)
	}
	m.Payload = stripLinks(body)
	return &m, nil
}

// ========== Audience ==========

// GetAudience retrieves audience metadata
func (c *Client) GetAudience(ctx context.Context, audienceID string) (*domain.Audience, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, "/lists/"+url.PathEscape(audienceID), nil)
	if err != nil {
		return nil, err
	}

	var a domain.Audience
	if err := json.Unmarshal(respBody, &a); err != nil {
		return nil, fmt.Errorf("failed to parse audience: %w", err)
	}
	a.Payload = stripLinks(respBody)
	return &a, nil
}

// ========== Members ==========

// GetMember retrieves a member by email address
func (c *Client) GetMember(ctx context.Context, audienceID, email string) (*domain.Member, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, memberPath(audienceID, email), nil)
	if err != nil {
		return nil, err
	}
	return decodeMember(respBody)
}

// SetMember creates or replaces a member (PUT).
func (c *Client) SetMember(ctx context.Context, audienceID, email string, req domain.MemberRequest) (*domain.Member, error) {
	respBody, err := c.doRequest(ctx, http.MethodPut, memberPath(audienceID, email), req)
	if err != nil {
		return nil, err
	}
	return decodeMember(respBody)
}

// UpdateMember changes only the fields set in req (PATCH).
func (c *Client) UpdateMember(ctx context.Context, audienceID, email string, req domain.MemberRequest) (*domain.Member, error) {
	respBody, err := c.doRequest(ctx, http.MethodPatch, memberPath(audienceID, email), req)
	if err != nil {
		return nil, err
	}
	return decodeMember(respBody)
}

// ArchiveMember removes a member from the audience. The member can be re-added later.
func (c *Client) ArchiveMember(ctx context.Context, audienceID, email string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, memberPath(audienceID, email), nil)
	return err
}

// DeleteMemberPermanent erases a member and its history. The address cannot
// be re-imported afterwards.
func (c *Client) DeleteMemberPermanent(ctx context.Context, audienceID, email string) error {
	_, err := c.doRequest(ctx, http.MethodPost, memberPath(audienceID, email)+"/actions/delete-permanent", nil)
	return err
}

// ========== Interests ==========

// GetInterestCategories lists the interest categories of an audience. The
// returned categories have no Interests; see GetCategoryInterests.
func (c *Client) GetInterestCategories(ctx context.Context, audienceID string) ([]domain.InterestCategory, error) {
	endpoint := fmt.Sprintf("/lists/%s/interest-categories?count=%s", url.PathEscape(audienceID), strconv.Itoa(listPageSize))

	respBody, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var response interestCategoriesResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to parse interest categories: %w", err)
	}

	categories := make([]domain.InterestCategory, 0, len(response.Categories))
	for _, cat := range response.Categories {
		categories = append(categories, domain.InterestCategory{ID: cat.ID, Title: cat.Title, Type: cat.Type})
	}
	return categories, nil
}

// GetCategoryInterests lists the interests in one category.
func (c *Client) GetCategoryInterests(ctx context.Context, audienceID, categoryID string) ([]domain.Interest, error) {
	endpoint := fmt.Sprintf("/lists/%s/interest-categories/%s/interests?count=%s",
		url.PathEscape(audienceID), url.PathEscape(categoryID), strconv.Itoa(listPageSize))

	respBody, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var response interestsResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to parse interests: %w", err)
	}
	return response.Interests, nil
}

// ========== Tags ==========

// GetMemberTags lists the tags attached to a member.
func (c *Client) GetMemberTags(ctx context.Context, audienceID, email string) ([]domain.MemberTag, error) {
	endpoint := fmt.Sprintf("%s/tags?count=%s", memberPath(audienceID, email), strconv.Itoa(listPageSize))

	respBody, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var response memberTagsResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to parse member tags: %w", err)
	}
	return response.Tags, nil
}

// UpdateMemberTags sets the status of each named tag on a member.
func (c *Client) UpdateMemberTags(ctx context.Context, audienceID, email string, tags []domain.Tag) error {
	_, err := c.doRequest(ctx, http.MethodPost, memberPath(audienceID, email)+"/tags", memberTagsRequest{Tags: tags})
	return err
}
