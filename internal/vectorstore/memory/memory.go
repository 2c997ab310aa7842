package memory

import (
	"errors"
	"math"
	"sort"
	"sync"

	"recommender/internal/vectorstore"
)

// epsilon keeps cosine similarity finite for all-zero vectors.
const epsilon = 1e-12

// Storage is a simple in-memory vector store using brute-force cosine similarity.
// Vectors are kept in insertion order, which is catalog order.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	norms     []float64
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.norms = nil
	return nil
}

func (s *Storage) Upsert(vectors [][]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimension == 0 {
		return errors.New("storage not initialized")
	}
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	for _, v := range vectors {
		s.vectors = append(s.vectors, v)
		s.norms = append(s.norms, norm(v))
	}
	return nil
}

// Rank scores every stored vector against the query, best first.
// Equal scores keep insertion order.
func (s *Storage) Rank(vector []float64) ([]vectorstore.Scored, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(vector) != s.dimension {
		return nil, errors.New("query dimension mismatch")
	}
	qn := norm(vector)
	scores := make([]vectorstore.Scored, len(s.vectors))
	for i := range s.vectors {
		scores[i] = vectorstore.Scored{
			Index: i,
			Score: dot(s.vectors[i], vector) / (s.norms[i]*qn + epsilon),
		}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	return scores, nil
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.norms = nil
	return nil
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func norm(v []float64) float64 {
	return math.Sqrt(dot(v, v))
}
