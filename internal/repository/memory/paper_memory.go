package memory

import (
	"context"
	"sync"

	"paperhub/internal/model"
	"paperhub/internal/repository"
)

// PaperMemory is a process-local catalog. Records live for the lifetime of
// the process. The mutex is held only for the in-memory mutation or copy.
type PaperMemory struct {
	mu     sync.RWMutex
	papers []model.Paper
	index  map[string]int
}

// NewPaperMemory creates an empty catalog.
func NewPaperMemory() *PaperMemory {
	return &PaperMemory{index: make(map[string]int)}
}

var _ repository.PaperRepository = (*PaperMemory)(nil)

func (r *PaperMemory) Append(_ context.Context, p *model.Paper) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[p.ID]; ok {
		return repository.ErrDuplicateID
	}
	r.index[p.ID] = len(r.papers)
	r.papers = append(r.papers, *p)
	return nil
}

func (r *PaperMemory) List(_ context.Context) ([]model.Paper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Paper, len(r.papers))
	copy(out, r.papers)
	return out, nil
}

func (r *PaperMemory) FindByID(_ context.Context, id string) (*model.Paper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p := r.papers[i]
	return &p, nil
}

func (r *PaperMemory) IncrementDownload(_ context.Context, id string) (*model.Paper, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	r.papers[i].DownloadCount++
	p := r.papers[i]
	return &p, nil
}

func (r *PaperMemory) PingContext(ctx context.Context) error {
	return ctx.Err()
}
