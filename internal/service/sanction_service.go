package service

import (
	"context"
	"encoding/json"

	"github.com/VictorDENSC/CaisseNoire/internal/db"
	"github.com/VictorDENSC/CaisseNoire/internal/model"
	"github.com/VictorDENSC/CaisseNoire/internal/repository"
	"github.com/VictorDENSC/CaisseNoire/pkg/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type SanctionService struct {
	tx db.Transactor

	teams     repository.TeamRepository
	sanctions repository.SanctionRepository
}

func NewSanctionService(tx db.Transactor) *SanctionService {
	return &SanctionService{tx: tx}
}

func (s *SanctionService) WithTeamRepo(r repository.TeamRepository) *SanctionService {
	s.teams = r
	return s
}

func (s *SanctionService) WithSanctionRepo(r repository.SanctionRepository) *SanctionService {
	s.sanctions = r
	return s
}

func sanctionFromRepo(sanction *repository.Sanction) (*model.Sanction, *Error) {
	var info model.SanctionInfo
	if err := json.Unmarshal(sanction.SanctionInfo, &info); err != nil {
		return nil, NewError(ErrorCodeUnspecified, "failed to decode sanction info")
	}

	return &model.Sanction{
		ID:           sanction.ID,
		UserID:       sanction.UserID,
		TeamID:       sanction.TeamID,
		SanctionInfo: info,
		Price:        sanction.Price,
		CreatedAt:    model.NewDate(sanction.CreatedAt.Year(), sanction.CreatedAt.Month(), sanction.CreatedAt.Day()),
	}, nil
}

// ListSanctions returns the team's sanctions, optionally restricted to an
// inclusive creation-date interval.
func (s *SanctionService) ListSanctions(ctx context.Context, teamID uuid.UUID, interval *model.DateInterval) ([]*model.Sanction, *Error) {
	l := logger.FromContext(ctx)

	var repoInterval *repository.DateInterval
	if interval != nil {
		repoInterval = &repository.DateInterval{
			Start: interval.Start.Time,
			End:   interval.End.Time,
		}
	}

	repoSanctions, err := s.sanctions.List(ctx, teamID, repoInterval)
	if err != nil {
		l.Error("failed to list sanctions", zap.String("team_id", teamID.String()), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list sanctions")
	}

	sanctions := make([]*model.Sanction, 0, len(repoSanctions))
	for _, repoSanction := range repoSanctions {
		sanction, serviceErr := sanctionFromRepo(repoSanction)
		if serviceErr != nil {
			return nil, serviceErr
		}
		sanctions = append(sanctions, sanction)
	}

	return sanctions, nil
}

// MapByUser groups sanctions by the sanctioned member, preserving the input
// order within each group.
func MapByUser(sanctions []*model.Sanction) map[uuid.UUID][]*model.Sanction {
	mapped := make(map[uuid.UUID][]*model.Sanction)
	for _, sanction := range sanctions {
		mapped[sanction.UserID] = append(mapped[sanction.UserID], sanction)
	}
	return mapped
}

// CreateSanctions validates a whole batch of sanction requests against the
// team's rule catalog and persists it in one atomic insert.
//
// Requests are processed strictly in input order: the rule catalog is
// resolved once, then each request resolves its rule and computes its price.
// The first failure (unknown team, unknown rule, pricing mismatch) rejects
// the entire batch before anything reaches the store.
func (s *SanctionService) CreateSanctions(ctx context.Context, teamID uuid.UUID, reqs []*model.SanctionRequest) ([]*model.Sanction, *Error) {
	l := logger.FromContext(ctx)

	repoTeam, err := s.teams.Get(ctx, teamID)
	if errors.Is(err, repository.ErrNotFound) {
		l.Warn("sanction batch references unknown team", zap.String("team_id", teamID.String()))
		return nil, NewError(ErrorCodeBadReference, "the key team_id doesn't refer to anything")
	}
	if err != nil {
		l.Error("failed to get team", zap.String("team_id", teamID.String()), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get team")
	}

	team, serviceErr := teamFromRepo(repoTeam)
	if serviceErr != nil {
		return nil, serviceErr
	}

	records := make([]*repository.Sanction, 0, len(reqs))
	for _, req := range reqs {
		rule, ok := team.Rule(req.SanctionInfo.AssociatedRule)
		if !ok {
			l.Warn("sanction references unknown rule",
				zap.String("team_id", teamID.String()),
				zap.String("rule_id", req.SanctionInfo.AssociatedRule.String()))
			return nil, NewError(ErrorCodeBadReference, "the key associated_rule doesn't refer to anything")
		}

		price, err := req.SanctionInfo.Price(rule)
		if err != nil {
			l.Warn("sanction does not match its rule kind",
				zap.String("team_id", teamID.String()),
				zap.String("rule_id", rule.ID.String()),
				zap.Error(err))
			return nil, NewError(ErrorCodeNotValid, err.Error())
		}

		id := uuid.New()
		if req.ID != nil {
			id = *req.ID
		}

		createdAt := model.Today()
		if req.CreatedAt != nil {
			createdAt = *req.CreatedAt
		}

		info, err := json.Marshal(req.SanctionInfo)
		if err != nil {
			return nil, NewError(ErrorCodeUnspecified, "failed to encode sanction info")
		}

		records = append(records, &repository.Sanction{
			ID:           id,
			UserID:       req.UserID,
			TeamID:       teamID,
			SanctionInfo: info,
			Price:        price,
			CreatedAt:    createdAt.Time,
		})
	}

	// An empty batch is valid input and inserts nothing.
	if len(records) == 0 {
		return []*model.Sanction{}, nil
	}

	var repoCreated []*repository.Sanction
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		created, err := s.sanctions.CreateBatch(txCtx, records)
		if err != nil {
			return err
		}
		repoCreated = created
		return nil
	})
	if err != nil {
		var fkErr *repository.ForeignKeyError
		if errors.As(err, &fkErr) {
			return nil, NewError(ErrorCodeBadReference, fkErr.Error())
		}
		var uniqueErr *repository.UniqueError
		if errors.As(err, &uniqueErr) {
			return nil, NewError(ErrorCodeDuplicatedField, uniqueErr.Error())
		}
		l.Error("failed to insert sanction batch",
			zap.String("team_id", teamID.String()),
			zap.Int("batch_size", len(records)),
			zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to create sanctions")
	}

	created := make([]*model.Sanction, 0, len(repoCreated))
	for _, repoSanction := range repoCreated {
		sanction, serviceErr := sanctionFromRepo(repoSanction)
		if serviceErr != nil {
			return nil, serviceErr
		}
		created = append(created, sanction)
	}

	l.Info("sanction batch created",
		zap.String("team_id", teamID.String()),
		zap.Int("batch_size", len(created)))

	return created, nil
}

func (s *SanctionService) DeleteSanction(ctx context.Context, teamID, sanctionID uuid.UUID) (*model.Sanction, *Error) {
	l := logger.FromContext(ctx)

	repoSanction, err := s.sanctions.Delete(ctx, teamID, sanctionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewError(ErrorCodeNotFound, "sanction not found")
	}
	if err != nil {
		l.Error("failed to delete sanction",
			zap.String("team_id", teamID.String()),
			zap.String("sanction_id", sanctionID.String()),
			zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to delete sanction")
	}

	return sanctionFromRepo(repoSanction)
}
