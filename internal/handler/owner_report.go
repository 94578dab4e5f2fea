package handler // handler package contains the schedule report handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/reelworks/production-runner/internal/model"
	"github.com/reelworks/production-runner/internal/schedule"
)

func isDayBreak(sc model.Scene) bool { return sc.Kind == model.SceneKindDayBreak }
func isOffDay(sc model.Scene) bool   { return sc.Kind == model.SceneKindOffDay }

// reportStartDate resolves the schedule anchor: the ?start query parameter
// wins, then the production's stored start date.
func reportStartDate(c echo.Context, p *model.Production) (time.Time, string) {
	if q := strings.TrimSpace(c.QueryParam("start")); q != "" {
		d, err := time.Parse("2006-01-02", q)
		if err != nil {
			return time.Time{}, "start must be YYYY-MM-DD"
		}
		return d, ""
	}
	if p.StartDate != nil {
		return *p.StartDate, ""
	}
	return time.Time{}, "production has no start date; pass ?start=YYYY-MM-DD"
}

// OneLinerReport handles GET /v1/productions/:id/reports/one-liner.  The
// schedule is rebuilt from the stored stripboard on every call; the Redis
// response cache in front of this route absorbs repeated reads.
func (h *OwnerHandler) OneLinerReport(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	p, err := h.Productions.GetByIDAndOwner(c.Request().Context(), productionID, ownerID)
	if err != nil {
		return productionGuardError(c, err)
	}
	start, msg := reportStartDate(c, p)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}
	scenes, err := h.Scenes.ListByProduction(c.Request().Context(), productionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	sched := schedule.BuildOneLiner(scenes, start, p.Name, isDayBreak, isOffDay)
	return c.JSON(http.StatusOK, map[string]any{
		"schedule":      sched,
		"total_scenes":  sched.TotalScenes(),
		"total_eighths": sched.TotalEighths(),
	})
}

// DOODReport handles GET /v1/productions/:id/reports/dood.  Shoot days come
// from the one-liner grouping of the stripboard; each cast member's worked
// days are the days whose scenes list that member.
func (h *OwnerHandler) DOODReport(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	p, err := h.Productions.GetByIDAndOwner(c.Request().Context(), productionID, ownerID)
	if err != nil {
		return productionGuardError(c, err)
	}
	start, msg := reportStartDate(c, p)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}
	scenes, err := h.Scenes.ListByProduction(c.Request().Context(), productionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	members, err := h.Cast.ListByProduction(c.Request().Context(), productionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	sched := schedule.BuildOneLiner(scenes, start, p.Name, isDayBreak, isOffDay)

	days := make([]schedule.DOODShootDay, len(sched.Days))
	for i, d := range sched.Days {
		days[i] = schedule.DOODShootDay{DayNumber: d.DayNumber, Date: d.Date}
	}

	cast := make([]schedule.DOODCastMember, len(members))
	rowByID := make(map[uint64]int, len(members))
	for i, m := range members {
		cast[i] = schedule.DOODCastMember{ID: m.ID, CastNumber: m.CastNumber, Name: m.Name, Role: m.Role}
		rowByID[m.ID] = i
	}

	worked := make([][]int, len(members))
	for dayIdx, d := range sched.Days {
		onDay := map[int]bool{}
		for _, it := range d.Items {
			for _, castID := range parseCSVIDs(it.CastIDs) {
				if row, ok := rowByID[castID]; ok && !onDay[row] {
					onDay[row] = true
					worked[row] = append(worked[row], dayIdx)
				}
			}
		}
	}

	grid := schedule.BuildDOODGrid(len(cast), len(days), worked)
	report, err := schedule.NewDOODReport(p.Name, cast, days, grid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "report assembly failed"})
	}
	return c.JSON(http.StatusOK, report)
}
