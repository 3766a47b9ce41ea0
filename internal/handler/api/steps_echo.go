package api

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"StepPull/internal/domain/models"
	"StepPull/internal/service/realtime"
	"StepPull/internal/usecase"
	xhttp "StepPull/pkg/http"
	xlogger "StepPull/pkg/logger"
	"StepPull/pkg/util"

	"github.com/labstack/echo/v4"
)

// StepsEchoHandler exposes the aggregation engine over HTTP.
type StepsEchoHandler struct {
	logger  *xlogger.Logger
	steps   *usecase.StepService
	perms   *usecase.PermissionOrchestrator
	session *realtime.Session
}

func NewStepsEchoHandler(logger *xlogger.Logger, steps *usecase.StepService, perms *usecase.PermissionOrchestrator, session *realtime.Session) *StepsEchoHandler {
	return &StepsEchoHandler{logger: logger, steps: steps, perms: perms, session: session}
}

func (h *StepsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/steps", h.Window)
	g.GET("/steps/date", h.Date)
	g.GET("/steps/daily", h.Range)
	g.GET("/steps/last", h.LastDays)
	g.GET("/steps/weekly", h.Weekly)
	g.GET("/steps/monthly", h.Monthly)
	g.GET("/steps/yearly", h.Yearly)
	g.POST("/realtime/start", h.RealtimeStart)
	g.POST("/realtime/stop", h.RealtimeStop)
	g.GET("/realtime/status", h.RealtimeStatus)
	g.POST("/permissions/request", h.RequestPermissions)
}

func (h *StepsEchoHandler) Window(c echo.Context) error {
	req := &models.WindowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from, ok := util.ParseTime(req.From)
	if !ok {
		return xhttp.BadRequestResponse(c, "invalid from timestamp")
	}
	to := util.ParseTimeDefault(req.To, time.Now())

	obs, err := h.steps.StepsForWindow(c.Request().Context(), models.TimeWindow{Start: from, End: to})
	if err != nil {
		h.logger.Error("window fetch error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, stepError(err))
	}
	return xhttp.SuccessResponse(c, models.ObservationFromSteps(obs))
}

func (h *StepsEchoHandler) Date(c echo.Context) error {
	req := &models.DateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	date, ok := util.ParseDate(req.Date)
	if !ok {
		return xhttp.BadRequestResponse(c, "invalid date")
	}

	obs, err := h.steps.StepsForDate(c.Request().Context(), date)
	if err != nil {
		h.logger.Error("date fetch error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, stepError(err))
	}
	return xhttp.SuccessResponse(c, models.ObservationFromSteps(obs))
}

func (h *StepsEchoHandler) Range(c echo.Context) error {
	req := &models.RangeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from, ok := util.ParseDate(req.From)
	if !ok {
		return xhttp.BadRequestResponse(c, "invalid from date")
	}
	to, ok := util.ParseDate(req.To)
	if !ok {
		return xhttp.BadRequestResponse(c, "invalid to date")
	}

	days, err := h.steps.StepsForRange(c.Request().Context(), from, to)
	if err != nil {
		h.logger.Error("range fetch error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, stepError(err))
	}
	return xhttp.SuccessResponse(c, dailyResponse(days))
}

func (h *StepsEchoHandler) LastDays(c echo.Context) error {
	req := &models.LastDaysRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	days, err := h.steps.LastDays(c.Request().Context(), req.Days)
	if err != nil {
		h.logger.Error("last days fetch error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, stepError(err))
	}
	return xhttp.SuccessResponse(c, dailyResponse(days))
}

func (h *StepsEchoHandler) Weekly(c echo.Context) error {
	return h.period(c, h.steps.WeeklySteps, "weekly fetch error")
}

func (h *StepsEchoHandler) Monthly(c echo.Context) error {
	return h.period(c, h.steps.MonthlySteps, "monthly fetch error")
}

func (h *StepsEchoHandler) Yearly(c echo.Context) error {
	return h.period(c, h.steps.YearlySteps, "yearly fetch error")
}

func (h *StepsEchoHandler) period(c echo.Context, fetch func(context.Context, time.Time) (models.DailySteps, error), logMsg string) error {
	req := &models.PeriodRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	anchor := time.Now()
	if req.Date != "" {
		parsed, ok := util.ParseDate(req.Date)
		if !ok {
			return xhttp.BadRequestResponse(c, "invalid date")
		}
		anchor = parsed
	}

	days, err := fetch(c.Request().Context(), anchor)
	if err != nil {
		h.logger.Error(logMsg, xlogger.Error(err))
		return xhttp.AppErrorResponse(c, stepError(err))
	}
	return xhttp.SuccessResponse(c, dailyResponse(days))
}

func (h *StepsEchoHandler) RealtimeStart(c echo.Context) error {
	h.session.Start(c.Request().Context(), func(obs models.StepObservation) {
		h.logger.Debug("realtime update",
			xlogger.Int64("steps", obs.Steps),
			xlogger.String("source", string(obs.Source)))
	})
	return xhttp.SuccessResponse(c, h.statusResponse())
}

func (h *StepsEchoHandler) RealtimeStop(c echo.Context) error {
	h.session.Stop()
	return xhttp.SuccessResponse(c, h.statusResponse())
}

func (h *StepsEchoHandler) RealtimeStatus(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.statusResponse())
}

func (h *StepsEchoHandler) RequestPermissions(c echo.Context) error {
	if err := h.perms.RequestPermissions(c.Request().Context()); err != nil {
		h.logger.Error("permission request error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, stepError(err))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *StepsEchoHandler) statusResponse() models.RealtimeStatusResponse {
	resp := models.RealtimeStatusResponse{Active: h.session.Active()}
	if resp.Active {
		startedAt := h.session.StartedAt()
		resp.StartedAt = &startedAt
	}
	return resp
}

// dailyResponse flattens the keyed result into chronological entries with
// summary totals. The average divides by the days present, which is what skip
// mode requires.
func dailyResponse(days models.DailySteps) models.DailyStepsResponse {
	entries := make([]models.DayEntry, 0, len(days))
	for day, obs := range days {
		entries = append(entries, models.DayEntry{
			Day:       day.Format("2006-01-02"),
			Steps:     obs.Steps,
			Source:    obs.Source,
			WindowEnd: obs.WindowEnd,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Day < entries[j].Day })

	return models.DailyStepsResponse{
		Days:     entries,
		DayCount: len(entries),
		Total:    days.Total(),
		Average:  days.Average(),
	}
}

// stepError maps the domain error taxonomy onto HTTP app errors.
func stepError(err error) error {
	switch {
	case errors.Is(err, models.ErrPermissionDenied):
		return xhttp.NewAppError("ERR_PERMISSION_DENIED", err.Error(), http.StatusForbidden).WithError(err)
	case errors.Is(err, models.ErrNoProviderAvailable):
		return xhttp.NewAppError("ERR_NO_PROVIDER", err.Error(), http.StatusServiceUnavailable).WithError(err)
	case errors.Is(err, models.ErrDataNotAvailable):
		return xhttp.NewAppError("ERR_DATA_NOT_AVAILABLE", err.Error(), http.StatusNotFound).WithError(err)
	default:
		return err
	}
}
