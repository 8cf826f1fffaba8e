package mailchimp

import "github.com/ignite/audience-subscribe/internal/domain"

// listPageSize is large enough that audiences never need a second page of
// interest categories or interests.
const listPageSize = 1000

type interestCategoriesResponse struct {
	Categories []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Type  string `json:"type"`
	} `json:"categories"`
	TotalItems int `json:"total_items"`
}

type interestsResponse struct {
	Interests  []domain.Interest `json:"interests"`
	TotalItems int               `json:"total_items"`
}

type memberTagsResponse struct {
	Tags       []domain.MemberTag `json:"tags"`
	TotalItems int                `json:"total_items"`
}

type memberTagsRequest struct {
	Tags []domain.Tag `json:"tags"`
}
