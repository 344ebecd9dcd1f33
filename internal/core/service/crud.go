package service

import (
	"context"

	"github.com/userhub/user-service/internal/core/ports"
)

// CRUD provides the generic read/update/delete use cases over a repository,
// mapping every entity to its outward DTO before it leaves the service.
type CRUD[E ports.Entity, D any, I any, P any] struct {
	repo   ports.Repository[E, P]
	mapper ports.Mapper[E, D, I, P]
}

func NewCRUD[E ports.Entity, D any, I any, P any](repo ports.Repository[E, P], mapper ports.Mapper[E, D, I, P]) *CRUD[E, D, I, P] {
	return &CRUD[E, D, I, P]{repo: repo, mapper: mapper}
}

// GetAll drains the repository scan into DTOs.
func (s *CRUD[E, D, I, P]) GetAll(ctx context.Context) ([]D, error) {
	out := make([]D, 0)
	for e, err := range s.repo.GetAll(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, s.mapper.ToDTO(e))
	}
	return out, nil
}

func (s *CRUD[E, D, I, P]) Get(ctx context.Context, id string) (*D, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := s.mapper.ToDTO(*e)
	return &dto, nil
}

// Create inserts entity and returns its DTO.
func (s *CRUD[E, D, I, P]) Create(ctx context.Context, entity *E) (*D, error) {
	if _, err := s.repo.Create(ctx, entity); err != nil {
		return nil, err
	}
	dto := s.mapper.ToDTO(*entity)
	return &dto, nil
}

func (s *CRUD[E, D, I, P]) Update(ctx context.Context, id string, input I) (bool, error) {
	return s.repo.Update(ctx, id, s.mapper.ToPatch(input))
}

func (s *CRUD[E, D, I, P]) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}
