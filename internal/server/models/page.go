package models

// ReviewPage is one bounded slice of an ordered review listing plus the
// counts needed to compute total pages. PageNo is 1-indexed.
type ReviewPage struct {
	Content       []*Review
	PageNo        int
	PageSize      int
	TotalElements int64
	TotalPages    int
	Last          bool
	// Partial is set when at least one album-metadata lookup failed and
	// the affected items were returned without enrichment.
	Partial bool
}

// NewReviewPage assembles a page response from one slice of results and the
// total element count. Last is true on the final page and for empty results.
func NewReviewPage(content []*Review, pageNo, pageSize int, total int64) *ReviewPage {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &ReviewPage{
		Content:       content,
		PageNo:        pageNo,
		PageSize:      pageSize,
		TotalElements: total,
		TotalPages:    totalPages,
		Last:          pageNo >= totalPages,
	}
}
