package model

// CrawlStats summarizes the page records of a session.
type CrawlStats struct {
	TotalFound    int            `json:"totalFound"`
	Successful    int            `json:"successful"`
	Errors        int            `json:"errors"`
	UniquePages   int            `json:"uniquePages"`
	DuplicateURLs int            `json:"duplicateUrls"`
	PdfLinks      int            `json:"pdfLinks"`
	StatusCodes   map[int]int    `json:"statusCodes"`
	PageTypes     map[string]int `json:"pageTypes"`
}

// CrawlProgress is the live view of a session returned to callers.
type CrawlProgress struct {
	Session *CrawlSession  `json:"session"`
	Pages   []*CrawledPage `json:"pages"`
	Stats   CrawlStats     `json:"stats"`
}

// DuplicateGroup lists the URLs that share one content hash.
type DuplicateGroup struct {
	ContentHash string   `json:"content_hash"`
	URLs        []string `json:"urls"`
}

// PaginationMetaDTO describes one page of a listing.
type PaginationMetaDTO struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// PaginatedResponse wraps a listing with its pagination metadata.
type PaginatedResponse[T any] struct {
	Data       []T               `json:"data"`
	Pagination PaginationMetaDTO `json:"pagination"`
}
