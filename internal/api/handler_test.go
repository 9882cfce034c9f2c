package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/VictorDENSC/CaisseNoire/internal/model"
	"github.com/VictorDENSC/CaisseNoire/internal/repository"
	"github.com/VictorDENSC/CaisseNoire/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(teamRepo *service.MockTeamRepository, sanctionRepo *service.MockSanctionRepository) *echo.Echo {
	tx := new(service.MockTransactor)

	sanctions := service.NewSanctionService(tx).WithTeamRepo(teamRepo).WithSanctionRepo(sanctionRepo)
	teams := service.NewTeamService(tx).WithTeamRepo(teamRepo)

	e := echo.New()
	NewHandler(zap.NewNop()).
		WithTeamService(teams).
		WithSanctionService(sanctions).
		RegisterRoutes(e)

	return e
}

func repoTeam(t *testing.T, teamID uuid.UUID, rules []model.Rule) *repository.Team {
	t.Helper()

	data, err := json.Marshal(rules)
	require.NoError(t, err)

	return &repository.Team{
		ID:            teamID,
		Name:          "Les Bleus",
		AdminPassword: "password",
		Rules:         data,
	}
}

func TestHandler_ListSanctions(t *testing.T) {
	teamID := uuid.New()

	t.Run("400 on out-of-range month, no store access", func(t *testing.T) {
		sanctionRepo := new(service.MockSanctionRepository)
		e := newTestServer(new(service.MockTeamRepository), sanctionRepo)

		req := httptest.NewRequest(http.MethodGet, "/teams/"+teamID.String()+"/sanctions?month=13&year=2019", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "BAD_PARAMETER")
		assert.Contains(t, rec.Body.String(), "between 1 and 12")

		sanctionRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("400 on lone month", func(t *testing.T) {
		e := newTestServer(new(service.MockTeamRepository), new(service.MockSanctionRepository))

		req := httptest.NewRequest(http.MethodGet, "/teams/"+teamID.String()+"/sanctions?month=1", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "month must be combined with year")
	})

	t.Run("format=true groups sanctions by user", func(t *testing.T) {
		sanctionRepo := new(service.MockSanctionRepository)

		user1 := uuid.New()
		user2 := uuid.New()

		info, err := json.Marshal(model.SanctionInfo{
			AssociatedRule: uuid.New(),
			ExtraInfo:      model.ExtraInfo{Type: model.ExtraInfoNone},
		})
		require.NoError(t, err)

		sanctionRepo.On("List", mock.Anything, teamID, (*repository.DateInterval)(nil)).
			Return([]*repository.Sanction{
				{ID: uuid.New(), UserID: user1, TeamID: teamID, SanctionInfo: info, Price: 1, CreatedAt: time.Now()},
				{ID: uuid.New(), UserID: user2, TeamID: teamID, SanctionInfo: info, Price: 2, CreatedAt: time.Now()},
				{ID: uuid.New(), UserID: user1, TeamID: teamID, SanctionInfo: info, Price: 3, CreatedAt: time.Now()},
			}, nil)

		e := newTestServer(new(service.MockTeamRepository), sanctionRepo)

		req := httptest.NewRequest(http.MethodGet, "/teams/"+teamID.String()+"/sanctions?format=true", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var grouped map[string][]*model.Sanction
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grouped))
		require.Len(t, grouped, 2)
		assert.Len(t, grouped[user1.String()], 2)
		assert.Len(t, grouped[user2.String()], 1)
	})

	t.Run("404 on non-uuid team id", func(t *testing.T) {
		e := newTestServer(new(service.MockTeamRepository), new(service.MockSanctionRepository))

		req := httptest.NewRequest(http.MethodGet, "/teams/not-a-uuid/sanctions", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_CreateSanctions(t *testing.T) {
	teamID := uuid.New()
	userID := uuid.New()
	ruleID := uuid.New()

	rules := []model.Rule{{
		ID:       ruleID,
		Name:     "Late to training",
		Category: model.RuleCategoryTrainingDay,
		Kind:     model.RuleKind{Type: model.RuleKindMultiplication, PriceToMultiply: 3.5},
	}}

	t.Run("201 with computed price", func(t *testing.T) {
		teamRepo := new(service.MockTeamRepository)
		sanctionRepo := new(service.MockSanctionRepository)

		teamRepo.On("Get", mock.Anything, teamID).Return(repoTeam(t, teamID, rules), nil)

		info, err := json.Marshal(model.SanctionInfo{
			AssociatedRule: ruleID,
			ExtraInfo:      model.ExtraInfo{Type: model.ExtraInfoMultiplication, Factor: 2},
		})
		require.NoError(t, err)

		inserted := []*repository.Sanction{{
			ID:           uuid.New(),
			UserID:       userID,
			TeamID:       teamID,
			SanctionInfo: info,
			Price:        7.0,
			CreatedAt:    time.Date(2019, 10, 5, 0, 0, 0, 0, time.UTC),
		}}

		sanctionRepo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(records []*repository.Sanction) bool {
			return len(records) == 1 && records[0].Price == 7.0
		})).Return(inserted, nil)

		body := `[{"user_id":"` + userID.String() + `","sanction_info":{"associated_rule":"` + ruleID.String() + `","extra_info":{"type":"MULTIPLICATION","factor":2}}}]`

		req := httptest.NewRequest(http.MethodPost, "/teams/"+teamID.String()+"/sanctions", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		e := newTestServer(teamRepo, sanctionRepo)
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var created []*model.Sanction
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		require.Len(t, created, 1)
		assert.Equal(t, 7.0, created[0].Price)
	})

	t.Run("201 on empty batch, nothing persisted", func(t *testing.T) {
		teamRepo := new(service.MockTeamRepository)
		sanctionRepo := new(service.MockSanctionRepository)

		teamRepo.On("Get", mock.Anything, teamID).Return(repoTeam(t, teamID, rules), nil)

		req := httptest.NewRequest(http.MethodPost, "/teams/"+teamID.String()+"/sanctions", strings.NewReader(`[]`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		e := newTestServer(teamRepo, sanctionRepo)
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.JSONEq(t, `[]`, rec.Body.String())

		sanctionRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("400 on mismatching extra info, nothing persisted", func(t *testing.T) {
		teamRepo := new(service.MockTeamRepository)
		sanctionRepo := new(service.MockSanctionRepository)

		teamRepo.On("Get", mock.Anything, teamID).Return(repoTeam(t, teamID, rules), nil)

		body := `[{"user_id":"` + userID.String() + `","sanction_info":{"associated_rule":"` + ruleID.String() + `","extra_info":{"type":"NONE"}}}]`

		req := httptest.NewRequest(http.MethodPost, "/teams/"+teamID.String()+"/sanctions", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		e := newTestServer(teamRepo, sanctionRepo)
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "NOT_VALID")

		sanctionRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("400 on non-array body", func(t *testing.T) {
		e := newTestServer(new(service.MockTeamRepository), new(service.MockSanctionRepository))

		req := httptest.NewRequest(http.MethodPost, "/teams/"+teamID.String()+"/sanctions", strings.NewReader(`{"user_id":"x"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "MALFORMED_INPUT")
	})
}

func TestHandler_DeleteSanction(t *testing.T) {
	teamID := uuid.New()
	sanctionID := uuid.New()

	t.Run("200 returns the deleted sanction", func(t *testing.T) {
		sanctionRepo := new(service.MockSanctionRepository)

		info, err := json.Marshal(model.SanctionInfo{
			AssociatedRule: uuid.New(),
			ExtraInfo:      model.ExtraInfo{Type: model.ExtraInfoNone},
		})
		require.NoError(t, err)

		sanctionRepo.On("Delete", mock.Anything, teamID, sanctionID).Return(&repository.Sanction{
			ID:           sanctionID,
			UserID:       uuid.New(),
			TeamID:       teamID,
			SanctionInfo: info,
			Price:        2,
			CreatedAt:    time.Date(2019, 10, 5, 0, 0, 0, 0, time.UTC),
		}, nil)

		e := newTestServer(new(service.MockTeamRepository), sanctionRepo)

		req := httptest.NewRequest(http.MethodDelete, "/teams/"+teamID.String()+"/sanctions/"+sanctionID.String(), nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var deleted model.Sanction
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deleted))
		assert.Equal(t, sanctionID, deleted.ID)
		assert.Equal(t, "2019-10-05", deleted.CreatedAt.String())
	})

	t.Run("404 when the sanction doesn't exist", func(t *testing.T) {
		sanctionRepo := new(service.MockSanctionRepository)

		sanctionRepo.On("Delete", mock.Anything, teamID, sanctionID).Return(nil, repository.ErrNotFound)

		e := newTestServer(new(service.MockTeamRepository), sanctionRepo)

		req := httptest.NewRequest(http.MethodDelete, "/teams/"+teamID.String()+"/sanctions/"+sanctionID.String(), nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
