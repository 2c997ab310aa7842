package vectorstore

// Scored is a stored vector's position paired with its similarity to a query.
type Scored struct {
	Index int
	Score float64
}

// Storage holds one vector per catalog entry, addressed by catalog position,
// and ranks them against a query vector.
type Storage interface {
	Init(dimension int) error
	Upsert(vectors [][]float64) error
	Rank(vector []float64) ([]Scored, error)
	Len() int
	Clear() error
}
