package service

import (
	"context"
	"testing"

	"github.com/VictorDENSC/CaisseNoire/internal/auth"
	"github.com/VictorDENSC/CaisseNoire/internal/model"
	"github.com/VictorDENSC/CaisseNoire/internal/repository"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTeamService_GetTeam(t *testing.T) {
	teamID := uuid.New()

	rule := model.Rule{
		ID:       uuid.New(),
		Name:     "Late to training",
		Category: model.RuleCategoryTrainingDay,
		Kind:     model.RuleKind{Type: model.RuleKindMultiplication, PriceToMultiply: 1.5},
	}

	tests := []struct {
		name          string
		setupMocks    func(*MockTeamRepository)
		expectedError bool
		errorCode     ErrorCode
		expectedTeam  *model.Team
	}{
		{
			name: "success",
			setupMocks: func(tr *MockTeamRepository) {
				tr.On("Get", mock.Anything, teamID).Return(repoTeamWithRules(t, teamID, []model.Rule{rule}), nil)
			},
			expectedTeam: &model.Team{
				ID:            teamID,
				Name:          "Les Bleus",
				AdminPassword: "password",
				Rules:         []model.Rule{rule},
			},
		},
		{
			name: "success: team without rules",
			setupMocks: func(tr *MockTeamRepository) {
				tr.On("Get", mock.Anything, teamID).Return(&repository.Team{
					ID:            teamID,
					Name:          "Les Bleus",
					AdminPassword: "password",
				}, nil)
			},
			expectedTeam: &model.Team{
				ID:            teamID,
				Name:          "Les Bleus",
				AdminPassword: "password",
				Rules:         []model.Rule{},
			},
		},
		{
			name: "team not found",
			setupMocks: func(tr *MockTeamRepository) {
				tr.On("Get", mock.Anything, teamID).Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
		{
			name: "get team failure",
			setupMocks: func(tr *MockTeamRepository) {
				tr.On("Get", mock.Anything, teamID).Return(nil, errors.New("db error"))
			},
			expectedError: true,
			errorCode:     ErrorCodeUnspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			teamRepo := new(MockTeamRepository)
			tt.setupMocks(teamRepo)

			svc := NewTeamService(new(MockTransactor)).WithTeamRepo(teamRepo)

			got, err := svc.GetTeam(context.Background(), teamID)

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				require.Nil(t, err)
				assert.Equal(t, tt.expectedTeam, got)
			}

			teamRepo.AssertExpectations(t)
		})
	}
}

func TestTeamService_CreateTeam(t *testing.T) {
	t.Run("success: request ids are preserved and rules stored with the team", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)

		teamID := uuid.New()
		ruleID := uuid.New()

		teamRepo.On("Create", mock.Anything, mock.MatchedBy(func(team *repository.Team) bool {
			return team.ID == teamID && team.Name == "Les Bleus" && len(team.Rules) > 0
		})).Return(func() *repository.Team {
			return repoTeamWithRules(t, teamID, []model.Rule{{
				ID:       ruleID,
				Name:     "Forgot his shoes",
				Category: model.RuleCategoryTrainingDay,
				Kind:     model.RuleKind{Type: model.RuleKindBasic, Price: 2},
			}})
		}(), nil)

		svc := NewTeamService(new(MockTransactor)).WithTeamRepo(teamRepo)

		got, err := svc.CreateTeam(context.Background(), &model.TeamRequest{
			ID:            &teamID,
			Name:          "Les Bleus",
			AdminPassword: "password",
			Rules: []model.RuleRequest{{
				ID:       &ruleID,
				Name:     "Forgot his shoes",
				Category: model.RuleCategoryTrainingDay,
				Kind:     model.RuleKind{Type: model.RuleKindBasic, Price: 2},
			}},
		})

		require.Nil(t, err)
		assert.Equal(t, teamID, got.ID)
		require.Len(t, got.Rules, 1)
		assert.Equal(t, ruleID, got.Rules[0].ID)

		teamRepo.AssertExpectations(t)
	})

	t.Run("failure: duplicated team name", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)

		teamRepo.On("Create", mock.Anything, mock.Anything).
			Return(nil, &repository.UniqueError{Constraint: "teams_name_key"})

		svc := NewTeamService(new(MockTransactor)).WithTeamRepo(teamRepo)

		got, err := svc.CreateTeam(context.Background(), &model.TeamRequest{
			Name:          "Les Bleus",
			AdminPassword: "password",
		})

		require.NotNil(t, err)
		assert.Equal(t, ErrorCodeDuplicatedField, err.Code)
		assert.Nil(t, got)
	})
}

func TestTeamService_UpdateTeam(t *testing.T) {
	teamID := uuid.New()

	t.Run("success: rules are replaced wholesale", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)

		newRule := model.Rule{
			ID:       uuid.New(),
			Name:     "Late to the game",
			Category: model.RuleCategoryGameDay,
			Kind:     model.RuleKind{Type: model.RuleKindBasic, Price: 10},
		}

		teamRepo.On("Update", mock.Anything, mock.MatchedBy(func(team *repository.Team) bool {
			return team.ID == teamID
		})).Return(repoTeamWithRules(t, teamID, []model.Rule{newRule}), nil)

		svc := NewTeamService(new(MockTransactor)).WithTeamRepo(teamRepo)

		got, err := svc.UpdateTeam(context.Background(), teamID, &model.TeamRequest{
			Name:          "Les Bleus",
			AdminPassword: "password",
			Rules: []model.RuleRequest{{
				ID:       &newRule.ID,
				Name:     newRule.Name,
				Category: newRule.Category,
				Kind:     newRule.Kind,
			}},
		})

		require.Nil(t, err)
		assert.Equal(t, []model.Rule{newRule}, got.Rules)
	})

	t.Run("failure: team not found", func(t *testing.T) {
		teamRepo := new(MockTeamRepository)

		teamRepo.On("Update", mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)

		svc := NewTeamService(new(MockTransactor)).WithTeamRepo(teamRepo)

		got, err := svc.UpdateTeam(context.Background(), teamID, &model.TeamRequest{
			Name:          "Les Bleus",
			AdminPassword: "password",
		})

		require.NotNil(t, err)
		assert.Equal(t, ErrorCodeNotFound, err.Code)
		assert.Nil(t, got)
	})
}

func TestTeamService_Login(t *testing.T) {
	auth.TokenSecretKey = "test-secret"

	teamID := uuid.New()

	tests := []struct {
		name          string
		password      string
		setupMocks    func(*MockTeamRepository)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name:     "success",
			password: "password",
			setupMocks: func(tr *MockTeamRepository) {
				tr.On("Get", mock.Anything, teamID).Return(repoTeamWithRules(t, teamID, nil), nil)
			},
		},
		{
			name:     "failure: wrong password",
			password: "nope",
			setupMocks: func(tr *MockTeamRepository) {
				tr.On("Get", mock.Anything, teamID).Return(repoTeamWithRules(t, teamID, nil), nil)
			},
			expectedError: true,
			errorCode:     ErrorCodeUnauthorized,
		},
		{
			name:     "failure: team not found",
			password: "password",
			setupMocks: func(tr *MockTeamRepository) {
				tr.On("Get", mock.Anything, teamID).Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			teamRepo := new(MockTeamRepository)
			tt.setupMocks(teamRepo)

			svc := NewTeamService(new(MockTransactor)).WithTeamRepo(teamRepo)

			token, err := svc.Login(context.Background(), teamID, tt.password)

			if tt.expectedError {
				require.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Empty(t, token)
			} else {
				require.Nil(t, err)
				require.NotEmpty(t, token)
				assert.True(t, auth.IsValidTokenFor(token, teamID))
			}
		})
	}
}
