package memory

import (
	"context"
	"sort"

	"dentlab-backoffice/internal/adapters/persistence/models"
	"dentlab-backoffice/internal/adapters/persistence/repositories"
)

// AssistantLog implements repositories.AssistantLogRepository
type AssistantLog struct{ s *Store }

// NewAssistantLog creates an assistant log over s
func NewAssistantLog(s *Store) *AssistantLog { return &AssistantLog{s: s} }

var _ repositories.AssistantLogRepository = (*AssistantLog)(nil)

func (r *AssistantLog) Create(ctx context.Context, exchange *models.AssistantExchange) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextExchangeID++
	exchange.ID = r.s.nextExchangeID
	exchange.CreatedAt = r.s.now()
	r.s.exchanges = append(r.s.exchanges, *exchange)
	return nil
}

func (r *AssistantLog) ListByDoctor(ctx context.Context, doctorID uint, offset, limit int) ([]*models.AssistantExchange, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*models.AssistantExchange
	for _, e := range r.s.exchanges {
		if e.DoctorID == doctorID {
			e := e
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	from, to := page(len(out), offset, limit)
	return out[from:to], int64(len(out)), nil
}
