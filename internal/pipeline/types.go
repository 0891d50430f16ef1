package pipeline

import "time"

// Article is the unit every stage exchanges. Fields accumulate as the
// article moves through the pipeline: discovery fills the identity fields,
// classification adds Companies, summarization adds Summary/WordCount.
type Article struct {
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Published string   `json:"published,omitempty"`
	Source    string   `json:"source,omitempty"`
	Snippet   string   `json:"snippet,omitempty"`
	Body      string   `json:"body,omitempty"`
	Content   string   `json:"content,omitempty"`
	Companies []string `json:"companies,omitempty"`
	Summary   string   `json:"summary,omitempty"`
	WordCount int      `json:"word_count,omitempty"`
}

// DiscoverRequest asks the backend to find recent news for a query.
type DiscoverRequest struct {
	Query       string `json:"query"`
	DaysBack    int    `json:"days_back"`
	MaxArticles int    `json:"max_articles"`
}

// DiscoverResult is the discoverer's terminal payload.
type DiscoverResult struct {
	Status      string    `json:"status"`
	Articles    []Article `json:"articles"`
	TotalFound  int       `json:"total_found"`
	SourcesUsed []string  `json:"sources_used,omitempty"`
	SuccessRate string    `json:"success_rate,omitempty"`
}

// ClassifyRequest buckets articles by company mention.
type ClassifyRequest struct {
	Articles  []Article `json:"articles"`
	Companies []string  `json:"companies"`
}

// ClassifyResult groups articles per company plus the leftovers.
type ClassifyResult struct {
	Status       string               `json:"status"`
	ByCompany    map[string][]Article `json:"by_company"`
	Unclassified []Article            `json:"unclassified"`
}

// Matched counts articles assigned to at least one company bucket.
func (r *ClassifyResult) Matched() int {
	n := 0
	for _, bucket := range r.ByCompany {
		n += len(bucket)
	}
	return n
}

// MatchRate is the share of classified input, safe on empty input.
func (r *ClassifyResult) MatchRate() float64 {
	total := r.Matched() + len(r.Unclassified)
	if total == 0 {
		return 0
	}
	return float64(r.Matched()) / float64(total)
}

// SummarizeRequest asks for a summary of a single URL within a word window.
type SummarizeRequest struct {
	URL      string `json:"url"`
	MinWords int    `json:"min_words"`
	MaxWords int    `json:"max_words"`
}

// SummarizeResult carries the produced summary.
type SummarizeResult struct {
	Status    string `json:"status"`
	Summary   string `json:"summary"`
	WordCount int    `json:"word_count"`
	URL       string `json:"url,omitempty"`
}

// ExportRequest sends articles to the exporter service.
type ExportRequest struct {
	Articles []Article `json:"articles"`
	Format   string    `json:"format"`
	Filename string    `json:"filename,omitempty"`
}

// ExportResult is the exporter's terminal payload.
type ExportResult struct {
	Status        string `json:"status"`
	ExportedCount int    `json:"exported_count"`
	Format        string `json:"format"`
	Filename      string `json:"filename,omitempty"`
	DownloadURL   string `json:"download_url,omitempty"`
	Message       string `json:"message,omitempty"`
}

// IngestRequest feeds URLs into the retrieval index. SessionID resumes an
// existing index; empty lets the backend issue one.
type IngestRequest struct {
	URLs         []string `json:"urls"`
	SessionID    string   `json:"session_id,omitempty"`
	ChunkSize    int      `json:"chunk_size"`
	ChunkOverlap int      `json:"chunk_overlap"`
}

// IngestResult reports how much of the input was indexed.
type IngestResult struct {
	Status        string `json:"status"`
	SessionID     string `json:"session_id"`
	URLsIngested  int    `json:"urls_ingested"`
	ChunksCreated int    `json:"chunks_created"`
}

// QueryRequest asks a question against an ingested session.
type QueryRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
	TopK      int    `json:"top_k"`
}

// QuerySource points at the chunk an answer passage came from.
type QuerySource struct {
	URL        string `json:"url"`
	ChunkIndex int    `json:"chunk_index"`
	Preview    string `json:"preview"`
}

// QueryResult carries the retrieval answer and its provenance.
type QueryResult struct {
	Status  string        `json:"status"`
	Answer  string        `json:"answer"`
	Sources []QuerySource `json:"sources"`
}

// DashboardStats summarizes backend activity.
type DashboardStats struct {
	TotalArticles int     `json:"total_articles"`
	SuccessRate   float64 `json:"success_rate"`
	ActiveTasks   int     `json:"active_tasks"`
	LastUpdate    string  `json:"last_update"`
}

// Discovery is the artifact published after a discover run so later stages
// can pre-populate from it without sharing memory with the discoverer.
type Discovery struct {
	Query       string    `json:"query"`
	Articles    []Article `json:"articles"`
	RetrievedAt time.Time `json:"retrieved_at"`
}
