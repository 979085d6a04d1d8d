// test/benchmarks/helpers.go
package benchmarks

import (
	"context"
	"fmt"
	"sync"

	"github.com/pvasilev/stockroom-be/internal/core/domain"
)

// stubProductRepository is an in-memory repository for benchmarks, keeping
// the hot paths free of database round-trips.
type stubProductRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]domain.Product
	byName map[string]int64
}

func newStubRepository() *stubProductRepository {
	return &stubProductRepository{
		nextID: 1,
		byID:   make(map[int64]domain.Product),
		byName: make(map[string]int64),
	}
}

func (r *stubProductRepository) Save(ctx context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	r.byID[p.ID] = *p
	if _, taken := r.byName[p.Name]; !taken {
		r.byName[p.Name] = p.ID
	}
	return nil
}

func (r *stubProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *stubProductRepository) FindByName(ctx context.Context, name string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[name]
	if !ok {
		return nil, nil
	}
	p := r.byID[id]
	return &p, nil
}

func (r *stubProductRepository) Exists(ctx context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byID[id]
	return ok, nil
}

func (r *stubProductRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.byID)), nil
}

func (r *stubProductRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.byID[id]; ok {
		delete(r.byID, id)
		if r.byName[p.Name] == id {
			delete(r.byName, p.Name)
		}
	}
	return nil
}

func (r *stubProductRepository) FindPage(ctx context.Context, pageNumber, pageSize int, sort domain.SortSpec) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start := int64(pageNumber)*int64(pageSize) + 1
	page := make([]domain.Product, 0, pageSize)
	for id := start; id < start+int64(pageSize); id++ {
		if p, ok := r.byID[id]; ok {
			page = append(page, p)
		}
	}
	return page, nil
}

func (r *stubProductRepository) CountByCategory(ctx context.Context) ([]domain.CategorySummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	for _, p := range r.byID {
		counts[p.Category]++
	}
	summaries := make([]domain.CategorySummary, 0, len(counts))
	for category, count := range counts {
		summaries = append(summaries, domain.CategorySummary{Category: category, ProductsAvailable: count})
	}
	return summaries, nil
}

// seedRepository fills the stub with numbered products across four categories.
func seedRepository(repo *stubProductRepository, count int) {
	categories := []string{"Laptop", "Computer", "Headset", "Monitor"}
	ctx := context.Background()

	for i := 0; i < count; i++ {
		p := domain.NewProduct(
			fmt.Sprintf("Bench-%04d", i),
			categories[i%len(categories)],
			fmt.Sprintf("Benchmark product number %d", i),
		)
		_ = repo.Save(ctx, p)
	}
}

// multiSortBody builds the JSON body of a paged multi-sort request.
func multiSortBody(pageNumber, pageSize int) []byte {
	return []byte(fmt.Sprintf(
		`{"pageNumber":%d,"itemsPerPage":%d,"sortedProperties":{"category":"asc","quantity":"desc","name":"asc"}}`,
		pageNumber, pageSize))
}
