package types

type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// SearchResultItem is the consumer-facing projection of a SearchResult.
type SearchResultItem struct {
	Content    string  `json:"content"`
	Source     string  `json:"source"`
	Similarity float64 `json:"similarity"`
	Page       int     `json:"page,omitempty"`
	Section    string  `json:"section,omitempty"`
}

type SearchResponse struct {
	Results []SearchResultItem `json:"results"`
}

type ChatResponse struct {
	Message string             `json:"message"`
	Sources []SearchResultItem `json:"sources,omitempty"`
}

type UploadResponse struct {
	OriginalName string    `json:"original_name,omitempty"`
	Document     *Document `json:"document,omitempty"`
}
