package handler // handler package contains owner-specific stripboard handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/reelworks/production-runner/internal/model"
	"github.com/reelworks/production-runner/internal/repository"
	"github.com/reelworks/production-runner/internal/schedule"
)

// sceneBody is the JSON payload for creating or updating a scene strip.
type sceneBody struct {
	Number      string  `json:"number"`
	Kind        string  `json:"kind"` // SCENE | DAY_BREAK | OFF_DAY
	Heading     string  `json:"heading"`
	PageEighths int     `json:"page_eighths"`
	CastIDs     string  `json:"cast_ids"` // comma-joined cast member ids
	Location    string  `json:"location"`
	Notes       *string `json:"notes"`
}

// normalizeSceneKind validates the kind field, defaulting to SCENE.
func normalizeSceneKind(kind string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(kind)) {
	case "", model.SceneKindScene:
		return model.SceneKindScene, true
	case model.SceneKindDayBreak:
		return model.SceneKindDayBreak, true
	case model.SceneKindOffDay:
		return model.SceneKindOffDay, true
	}
	return "", false
}

func (b sceneBody) toModel(productionID uint64) (model.Scene, string) {
	kind, ok := normalizeSceneKind(b.Kind)
	if !ok {
		return model.Scene{}, "kind must be SCENE, DAY_BREAK or OFF_DAY"
	}
	if kind == model.SceneKindScene && strings.TrimSpace(b.Number) == "" {
		return model.Scene{}, "number is required for scenes"
	}
	if b.PageEighths < 0 {
		return model.Scene{}, "page_eighths must be >= 0"
	}
	return model.Scene{
		ProductionID: productionID,
		Number:       strings.TrimSpace(b.Number),
		Kind:         kind,
		Heading:      strings.TrimSpace(b.Heading),
		PageEighths:  b.PageEighths,
		CastIDs:      strings.TrimSpace(b.CastIDs),
		Location:     strings.TrimSpace(b.Location),
		Notes:        b.Notes,
	}, ""
}

// CreateScene handles POST /v1/productions/:id/scenes.  The new strip is
// appended at the end of the board.
func (h *OwnerHandler) CreateScene(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	var body sceneBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	s, msg := body.toModel(productionID)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}
	if err := h.Scenes.Create(c.Request().Context(), &s); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create scene"})
	}
	return c.JSON(http.StatusCreated, s)
}

// ListScenes handles GET /v1/productions/:id/scenes and returns strips in
// board order.
func (h *OwnerHandler) ListScenes(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	items, err := h.Scenes.ListByProduction(c.Request().Context(), productionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// GetScene handles GET /v1/productions/:id/scenes/:sceneId.
func (h *OwnerHandler) GetScene(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	sceneID, err := pathID(c, "sceneId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid scene id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	s, err := h.Scenes.GetByIDAndProduction(c.Request().Context(), sceneID, productionID)
	if err != nil {
		if err == repository.ErrSceneNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "scene not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, s)
}

// UpdateScene handles PUT /v1/productions/:id/scenes/:sceneId.  Position is
// never edited here; use ReorderScenes.
func (h *OwnerHandler) UpdateScene(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	sceneID, err := pathID(c, "sceneId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid scene id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	var body sceneBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	s, msg := body.toModel(productionID)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}
	s.ID = sceneID
	if err := h.Scenes.Update(c.Request().Context(), &s); err != nil {
		switch err {
		case repository.ErrSceneNotFound:
			return c.JSON(http.StatusNotFound, map[string]string{"error": "scene not found"})
		case repository.ErrNoChange:
			// idempotent update
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
		}
	}
	updated, err := h.Scenes.GetByIDAndProduction(c.Request().Context(), sceneID, productionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteScene handles DELETE /v1/productions/:id/scenes/:sceneId.
func (h *OwnerHandler) DeleteScene(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	sceneID, err := pathID(c, "sceneId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid scene id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	if err := h.Scenes.Delete(c.Request().Context(), sceneID, productionID); err != nil {
		if err == repository.ErrSceneNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "scene not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ReorderScenes handles PUT /v1/productions/:id/scenes/reorder.  The body
// must list every strip of the production exactly once; the stored order is
// the schedule order, so a partial reorder is rejected rather than guessed
// at.
func (h *OwnerHandler) ReorderScenes(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	var body struct {
		SceneIDs []uint64 `json:"scene_ids"`
	}
	if err := c.Bind(&body); err != nil || len(body.SceneIDs) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "scene_ids is required"})
	}
	if err := h.Scenes.Reorder(c.Request().Context(), productionID, body.SceneIDs); err != nil {
		switch err {
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, map[string]string{"error": "scene_ids must list every scene exactly once"})
		case repository.ErrSceneNotFound:
			return c.JSON(http.StatusNotFound, map[string]string{"error": "scene not found"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "reorder failed"})
		}
	}
	items, err := h.Scenes.ListByProduction(c.Request().Context(), productionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// importSceneBody is one row of a stripboard import.  Page length arrives
// as the printed string form ("1 3/8") and is parsed server-side.
type importSceneBody struct {
	Number   string  `json:"number"`
	Kind     string  `json:"kind"`
	Heading  string  `json:"heading"`
	Pages    string  `json:"pages"`
	CastIDs  string  `json:"cast_ids"`
	Location string  `json:"location"`
	Notes    *string `json:"notes"`
}

// ImportScenes handles POST /v1/productions/:id/scenes/import.  The whole
// batch is validated before anything is written; one bad row rejects the
// import.
func (h *OwnerHandler) ImportScenes(c echo.Context) error {
	productionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if _, err := h.ownedProduction(c, productionID); err != nil {
		return productionGuardError(c, err)
	}
	var body struct {
		Scenes []importSceneBody `json:"scenes"`
	}
	if err := c.Bind(&body); err != nil || len(body.Scenes) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "scenes is required"})
	}

	scenes := make([]model.Scene, 0, len(body.Scenes))
	for i, row := range body.Scenes {
		eighths := 0
		if strings.TrimSpace(row.Pages) != "" {
			eighths, err = schedule.ParseEighths(row.Pages)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{
					"error": "row " + strconv.Itoa(i) + ": invalid pages value"})
			}
		}
		s, msg := sceneBody{
			Number:      row.Number,
			Kind:        row.Kind,
			Heading:     row.Heading,
			PageEighths: eighths,
			CastIDs:     row.CastIDs,
			Location:    row.Location,
			Notes:       row.Notes,
		}.toModel(productionID)
		if msg != "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "row " + strconv.Itoa(i) + ": " + msg})
		}
		scenes = append(scenes, s)
	}

	if err := h.Scenes.BulkCreate(c.Request().Context(), productionID, scenes); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "import failed"})
	}
	items, err := h.Scenes.ListByProduction(c.Request().Context(), productionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusCreated, map[string]any{"items": items})
}

// productionGuardError maps ownedProduction failures onto HTTP responses.
func productionGuardError(c echo.Context, err error) error {
	switch err {
	case errUnauthorized:
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	case repository.ErrProductionNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{"error": "production not found"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
}
