package api

import (
	"net/http"

	"github.com/VictorDENSC/CaisseNoire/internal/model"
	"github.com/VictorDENSC/CaisseNoire/internal/service"
	"github.com/VictorDENSC/CaisseNoire/pkg/logger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Handler struct {
	teams     *service.TeamService
	users     *service.UserService
	sanctions *service.SanctionService

	healthChecker HealthChecker

	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		logger: logger,
	}
}

func (h *Handler) WithHealthChecker(c HealthChecker) *Handler {
	h.healthChecker = c
	return h
}

func (h *Handler) WithTeamService(teams *service.TeamService) *Handler {
	h.teams = teams
	return h
}

func (h *Handler) WithUserService(users *service.UserService) *Handler {
	h.users = users
	return h
}

func (h *Handler) WithSanctionService(sanctions *service.SanctionService) *Handler {
	h.sanctions = sanctions
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewValidator()
	e.Use(middleware.RequestID())
	e.Use(ZapLoggerMiddleware(h.logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	if h.healthChecker != nil {
		e.GET("/health", h.healthChecker.HealthCheck())
	}

	e.POST("/login", h.Login)

	e.POST("/teams", h.CreateTeam)
	e.GET("/teams/:team_id", h.GetTeam)
	e.POST("/teams/:team_id", h.UpdateTeam, TeamAdminMiddleware())

	e.GET("/teams/:team_id/users", h.ListUsers)
	e.POST("/teams/:team_id/users", h.CreateUser)
	e.GET("/teams/:team_id/users/:user_id", h.GetUser)
	e.POST("/teams/:team_id/users/:user_id", h.UpdateUser)

	e.GET("/teams/:team_id/sanctions", h.ListSanctions)
	e.POST("/teams/:team_id/sanctions", h.CreateSanctions)
	e.DELETE("/teams/:team_id/sanctions/:sanction_id", h.DeleteSanction)
}

func (h *Handler) Login(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		TeamID        uuid.UUID `json:"team_id" validate:"required"`
		AdminPassword string    `json:"admin_password" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	token, err := h.teams.Login(e.Request().Context(), req.TeamID, req.AdminPassword)
	if err != nil {
		l.Error("failed to login", zap.String("team_id", req.TeamID.String()), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) CreateTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	req := &model.TeamRequest{}

	if err := h.decodeRequest(e, req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("creating team", zap.String("team_name", req.Name))

	team, err := h.teams.CreateTeam(e.Request().Context(), req)
	if err != nil {
		l.Error("failed to create team", zap.String("team_name", req.Name), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, team)
}

func (h *Handler) GetTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID, err := h.pathUUID(e, "team_id")
	if err != nil {
		return h.transportError(e, err)
	}

	team, err := h.teams.GetTeam(e.Request().Context(), teamID)
	if err != nil {
		l.Error("failed to get team", zap.String("team_id", teamID.String()), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, team)
}

func (h *Handler) UpdateTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID, err := h.pathUUID(e, "team_id")
	if err != nil {
		return h.transportError(e, err)
	}

	req := &model.TeamRequest{}

	if err := h.decodeRequest(e, req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("updating team", zap.String("team_id", teamID.String()))

	team, err := h.teams.UpdateTeam(e.Request().Context(), teamID, req)
	if err != nil {
		l.Error("failed to update team", zap.String("team_id", teamID.String()), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, team)
}

func (h *Handler) ListUsers(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID, err := h.pathUUID(e, "team_id")
	if err != nil {
		return h.transportError(e, err)
	}

	users, err := h.users.ListUsers(e.Request().Context(), teamID)
	if err != nil {
		l.Error("failed to list users", zap.String("team_id", teamID.String()), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, users)
}

func (h *Handler) CreateUser(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID, err := h.pathUUID(e, "team_id")
	if err != nil {
		return h.transportError(e, err)
	}

	req := &model.UserRequest{}

	if err := h.decodeRequest(e, req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	user, err := h.users.CreateUser(e.Request().Context(), teamID, req)
	if err != nil {
		l.Error("failed to create user", zap.String("team_id", teamID.String()), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, user)
}

func (h *Handler) GetUser(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID, err := h.pathUUID(e, "team_id")
	if err != nil {
		return h.transportError(e, err)
	}

	userID, err := h.pathUUID(e, "user_id")
	if err != nil {
		return h.transportError(e, err)
	}

	user, err := h.users.GetUser(e.Request().Context(), teamID, userID)
	if err != nil {
		l.Error("failed to get user", zap.String("user_id", userID.String()), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateUser(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID, err := h.pathUUID(e, "team_id")
	if err != nil {
		return h.transportError(e, err)
	}

	userID, err := h.pathUUID(e, "user_id")
	if err != nil {
		return h.transportError(e, err)
	}

	req := &model.UserRequest{}

	if err := h.decodeRequest(e, req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	user, err := h.users.UpdateUser(e.Request().Context(), teamID, userID, req)
	if err != nil {
		l.Error("failed to update user", zap.String("user_id", userID.String()), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, user)
}

func (h *Handler) ListSanctions(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID, err := h.pathUUID(e, "team_id")
	if err != nil {
		return h.transportError(e, err)
	}

	params := e.QueryParams()

	interval, paramErr := dateIntervalFromParams(params)
	if paramErr != nil {
		l.Warn("unvalid date parameters", zap.Error(paramErr))
		return h.transportError(e, service.NewError(service.ErrorCodeBadParameter, paramErr.Error()))
	}

	format, paramErr := formatFromParams(params)
	if paramErr != nil {
		l.Warn("unvalid format parameter", zap.Error(paramErr))
		return h.transportError(e, service.NewError(service.ErrorCodeBadParameter, paramErr.Error()))
	}

	sanctions, err := h.sanctions.ListSanctions(e.Request().Context(), teamID, interval)
	if err != nil {
		l.Error("failed to list sanctions", zap.String("team_id", teamID.String()), zap.Any("error", err))
		return h.transportError(e, err)
	}

	if format {
		return e.JSON(http.StatusOK, service.MapByUser(sanctions))
	}

	return e.JSON(http.StatusOK, sanctions)
}

func (h *Handler) CreateSanctions(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID, err := h.pathUUID(e, "team_id")
	if err != nil {
		return h.transportError(e, err)
	}

	var reqs []*model.SanctionRequest
	if bindErr := e.Bind(&reqs); bindErr != nil {
		l.Error("invalid request", zap.Error(bindErr))
		return h.transportError(e, service.NewError(service.ErrorCodeMalformedInput, "invalid request body"))
	}

	for _, req := range reqs {
		if validateErr := e.Validate(req); validateErr != nil {
			l.Error("invalid request", zap.Error(validateErr))
			return h.transportError(e, service.NewError(service.ErrorCodeMalformedInput,
				errors.Wrap(validateErr, "request validation failed").Error()))
		}
	}

	l.Info("creating sanction batch",
		zap.String("team_id", teamID.String()),
		zap.Int("batch_size", len(reqs)))

	sanctions, err := h.sanctions.CreateSanctions(e.Request().Context(), teamID, reqs)
	if err != nil {
		l.Error("failed to create sanctions", zap.String("team_id", teamID.String()), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, sanctions)
}

func (h *Handler) DeleteSanction(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID, err := h.pathUUID(e, "team_id")
	if err != nil {
		return h.transportError(e, err)
	}

	sanctionID, err := h.pathUUID(e, "sanction_id")
	if err != nil {
		return h.transportError(e, err)
	}

	sanction, err := h.sanctions.DeleteSanction(e.Request().Context(), teamID, sanctionID)
	if err != nil {
		l.Error("failed to delete sanction", zap.String("sanction_id", sanctionID.String()), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, sanction)
}

func (h *Handler) pathUUID(e echo.Context, name string) (uuid.UUID, *service.Error) {
	id, err := uuid.Parse(e.Param(name))
	if err != nil {
		// A non-UUID path segment matches no resource.
		return uuid.Nil, service.NewError(service.ErrorCodeNotFound, "Not found")
	}
	return id, nil
}

func (h *Handler) decodeRequest(e echo.Context, req any) *service.Error {
	if err := e.Bind(req); err != nil {
		return service.NewError(service.ErrorCodeMalformedInput, "invalid request body")
	}

	if err := e.Validate(req); err != nil {
		return service.NewError(service.ErrorCodeMalformedInput, errors.Wrap(err, "request validation failed").Error())
	}
	return nil
}

func (h *Handler) transportError(e echo.Context, err *service.Error) error {
	response := struct {
		Error *service.Error `json:"error"`
	}{Error: err}

	switch err.Code {
	case service.ErrorCodeNotFound:
		return e.JSON(http.StatusNotFound, response)
	case service.ErrorCodeUnauthorized:
		return e.JSON(http.StatusUnauthorized, response)
	case service.ErrorCodeBadReference,
		service.ErrorCodeNotValid,
		service.ErrorCodeBadParameter,
		service.ErrorCodeDuplicatedField,
		service.ErrorCodeMalformedInput:
		return e.JSON(http.StatusBadRequest, response)
	case service.ErrorCodeServiceUnavailable:
		return e.JSON(http.StatusServiceUnavailable, response)
	default:
		return e.JSON(http.StatusInternalServerError, response)
	}
}
