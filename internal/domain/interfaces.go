package domain

import "context"

// Product is a single catalog record. Optional numeric attributes are pointers so that
// "not set" and "set to zero" stay distinguishable.
type Product struct {
	Name         string   `json:"name"`
	Category     string   `json:"category,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	RAMGB        *float64 `json:"ram_gb,omitempty"`
	SSDStorageGB *float64 `json:"ssd_storage_gb,omitempty"`
	GPU          string   `json:"gpu,omitempty"`
	CPU          string   `json:"cpu,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// Role tags who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAssistant Role = "ASSISTANT"
)

// ConversationTurn is one message of the caller-owned conversation log.
type ConversationTurn struct {
	Role    Role
	Content string
}

// EmbedRole tells the embedding service whether it is embedding catalog text or a user query.
type EmbedRole string

const (
	EmbedRoleDocument EmbedRole = "document"
	EmbedRoleQuery    EmbedRole = "query"
)

// CandidateMatch is a product resolved for a query together with its confidence.
// Index is the product's position in the catalog.
type CandidateMatch struct {
	Index   int
	Product Product
	Score   float64
}

// Embedder converts texts into vectors, one per input, order-preserving.
// Implementations either return a vector for every text or fail for the whole batch.
type Embedder interface {
	Model() string
	Embed(ctx context.Context, texts []string, role EmbedRole) ([][]float64, error)
}

// Generator produces assistant text from a prompt and the prior conversation.
type Generator interface {
	Generate(ctx context.Context, prompt string, history []ConversationTurn) (string, error)
}

// Float returns a pointer to v. Handy for building products in code.
func Float(v float64) *float64 { return &v }
