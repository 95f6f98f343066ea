package store

// Passage is one document page as it flows through the retrieval pipeline.
// It is the atomic unit of retrieval and citation.
type Passage struct {
	ID         string
	DocumentID string
	PageNumber int
	Title      string
	Content    string
	// Similarity is in [0,1]; 0 means the passage came from the
	// degraded (non-vector) retrieval path.
	Similarity float64
	Images     []ImageRef
}

// ImageRef points at an image extracted from a document page. The pipeline
// treats it as opaque beyond being attachable to a generation call.
type ImageRef struct {
	ID         string `json:"id"`
	FileURL    string `json:"file_url"`
	Position   int    `json:"position,omitempty"`
	Dimensions string `json:"dimensions,omitempty"`
}
