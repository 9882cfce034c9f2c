package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/VictorDENSC/CaisseNoire/internal/auth"
	"github.com/VictorDENSC/CaisseNoire/internal/db"
	"github.com/VictorDENSC/CaisseNoire/internal/model"
	"github.com/VictorDENSC/CaisseNoire/internal/repository"
	"github.com/VictorDENSC/CaisseNoire/pkg/logger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const adminTokenDuration = 24 * time.Hour

type TeamService struct {
	tx db.Transactor

	teams repository.TeamRepository
}

func NewTeamService(tx db.Transactor) *TeamService {
	return &TeamService{
		tx: tx,
	}
}

func (t *TeamService) WithTeamRepo(r repository.TeamRepository) *TeamService {
	t.teams = r
	return t
}

// teamToRepo encodes the rule catalog to its JSONB representation.
func teamToRepo(team *model.Team) (*repository.Team, *Error) {
	rules, err := json.Marshal(team.Rules)
	if err != nil {
		return nil, NewError(ErrorCodeUnspecified, "failed to encode team rules")
	}
	return &repository.Team{
		ID:            team.ID,
		Name:          team.Name,
		AdminPassword: team.AdminPassword,
		Rules:         rules,
	}, nil
}

func teamFromRepo(team *repository.Team) (*model.Team, *Error) {
	rules := make([]model.Rule, 0)
	if len(team.Rules) > 0 {
		if err := json.Unmarshal(team.Rules, &rules); err != nil {
			return nil, NewError(ErrorCodeUnspecified, "failed to decode team rules")
		}
	}
	return &model.Team{
		ID:            team.ID,
		Name:          team.Name,
		AdminPassword: team.AdminPassword,
		Rules:         rules,
	}, nil
}

func (t *TeamService) CreateTeam(ctx context.Context, req *model.TeamRequest) (*model.Team, *Error) {
	l := logger.FromContext(ctx)

	team := req.Team()

	repoTeam, serviceErr := teamToRepo(&team)
	if serviceErr != nil {
		return nil, serviceErr
	}

	created, err := t.teams.Create(ctx, repoTeam)
	if err != nil {
		var uniqueErr *repository.UniqueError
		if errors.As(err, &uniqueErr) {
			l.Warn("team name already used", zap.String("team_name", team.Name))
			return nil, NewError(ErrorCodeDuplicatedField, uniqueErr.Error())
		}
		l.Error("failed to create team", zap.String("team_name", team.Name), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to create team")
	}

	return teamFromRepo(created)
}

func (t *TeamService) GetTeam(ctx context.Context, id uuid.UUID) (*model.Team, *Error) {
	l := logger.FromContext(ctx)

	repoTeam, err := t.teams.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		l.Warn("team not found", zap.String("team_id", id.String()))
		return nil, NewError(ErrorCodeNotFound, "team not found")
	}
	if err != nil {
		l.Error("failed to get team", zap.String("team_id", id.String()), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get team")
	}

	return teamFromRepo(repoTeam)
}

// UpdateTeam replaces the team's name, admin password and whole rule catalog.
func (t *TeamService) UpdateTeam(ctx context.Context, id uuid.UUID, req *model.TeamRequest) (*model.Team, *Error) {
	l := logger.FromContext(ctx)

	team := req.Team()
	team.ID = id

	repoTeam, serviceErr := teamToRepo(&team)
	if serviceErr != nil {
		return nil, serviceErr
	}

	updated, err := t.teams.Update(ctx, repoTeam)
	if errors.Is(err, repository.ErrNotFound) {
		l.Warn("team not found", zap.String("team_id", id.String()))
		return nil, NewError(ErrorCodeNotFound, "team not found")
	}
	if err != nil {
		var uniqueErr *repository.UniqueError
		if errors.As(err, &uniqueErr) {
			return nil, NewError(ErrorCodeDuplicatedField, uniqueErr.Error())
		}
		l.Error("failed to update team", zap.String("team_id", id.String()), zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to update team")
	}

	return teamFromRepo(updated)
}

// Login checks the team admin password and issues an admin token scoped to
// the team.
func (t *TeamService) Login(ctx context.Context, teamID uuid.UUID, password string) (string, *Error) {
	l := logger.FromContext(ctx)

	repoTeam, err := t.teams.Get(ctx, teamID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", NewError(ErrorCodeNotFound, "team not found")
	}
	if err != nil {
		l.Error("failed to get team", zap.String("team_id", teamID.String()), zap.Error(err))
		return "", NewError(ErrorCodeUnspecified, "failed to get team")
	}

	if repoTeam.AdminPassword != password {
		l.Warn("admin login rejected", zap.String("team_id", teamID.String()))
		return "", NewError(ErrorCodeUnauthorized, "wrong admin password")
	}

	token, err := auth.GenerateToken(teamID, adminTokenDuration)
	if err != nil {
		l.Error("failed to sign admin token", zap.Error(err))
		return "", NewError(ErrorCodeUnspecified, "failed to sign admin token")
	}

	return token, nil
}
