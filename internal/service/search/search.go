// Package search answers free-text "where is my X" queries from recorded
// observations.
package search

import (
	"context"
	"errors"
	"fmt"

	"findit/internal/dto"
	"findit/internal/logger"
	"findit/internal/model"
	"findit/internal/repository"
	"findit/internal/service/alias"
)

// ErrEmptyQuery is returned when the query is blank after trimming.
var ErrEmptyQuery = errors.New("query must not be empty")

// NotFoundFormat is the message returned when nothing matches.
const NotFoundFormat = "未找到物品: %s"

// ImageLocator maps a stored image name to the URL clients should load.
type ImageLocator interface {
	ImageURL(filename string) string
}

type Service struct {
	resolver     *alias.Resolver
	observations repository.ObservationRepository
	images       ImageLocator
	logger       *logger.Logger
}

func New(resolver *alias.Resolver, observations repository.ObservationRepository, images ImageLocator, log *logger.Logger) *Service {
	if resolver == nil {
		resolver = alias.NewResolver(nil)
	}
	return &Service{resolver: resolver, observations: observations, images: images, logger: log}
}

// Query resolves q to canonical names and returns matching observations,
// newest first. When no alias matched at all and the literal lookup finds
// nothing, names containing q are tried as well.
func (s *Service) Query(ctx context.Context, q string) (*dto.QueryResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := s.resolver.Resolve(q)
	if res.Query == "" {
		return nil, ErrEmptyQuery
	}

	items, err := s.observations.FindByNames(res.Names)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 && !res.AliasMatched() {
		if items, err = s.observations.FindByNameContains(res.Query); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("Query %q resolved via %s to %v: %d results", q, res.Tier, res.Names, len(items))

	if len(items) == 0 {
		return &dto.QueryResponse{Message: fmt.Sprintf(NotFoundFormat, q), Items: []dto.QueryItem{}}, nil
	}
	return &dto.QueryResponse{Items: s.present(items)}, nil
}

// Recent returns the latest observations.
func (s *Service) Recent(ctx context.Context, limit int) (*dto.QueryResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, err := s.observations.Recent(limit)
	if err != nil {
		return nil, err
	}
	return &dto.QueryResponse{Items: s.present(items)}, nil
}

// Names lists every object name that has been observed, with its local name
// when an alias entry provides one.
func (s *Service) Names(ctx context.Context) (*dto.NamesResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	names, err := s.observations.GetAllNames()
	if err != nil {
		return nil, err
	}

	resp := &dto.NamesResponse{Names: make([]dto.NameItem, 0, len(names))}
	for _, name := range names {
		local, _ := s.resolver.LocalName(name)
		resp.Names = append(resp.Names, dto.NameItem{
			Name:      name,
			LocalName: local,
			Display:   s.resolver.DisplayName(name),
		})
	}
	return resp, nil
}

func (s *Service) present(observations []model.Observation) []dto.QueryItem {
	items := make([]dto.QueryItem, 0, len(observations))
	for _, o := range observations {
		items = append(items, dto.QueryItem{
			Name:     s.resolver.DisplayName(o.Name),
			Location: o.Location,
			Time:     o.Timestamp,
			ImageURL: s.images.ImageURL(o.ImagePath),
		})
	}
	return items
}
