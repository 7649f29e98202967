package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"recipeadmin/internal/service"
	"recipeadmin/utils"
)

var validate = validator.New()

// UpdateFeedbackRequest is the body of PATCH /api/runs/:id/feedback.
type UpdateFeedbackRequest struct {
	Feedback string `json:"feedback" validate:"required,max=2000"`
}

// ListRuns godoc
// @Summary List recipe processing runs
// @Description Returns one page (100 rows) of runs, newest first, with pagination metadata.
// @Tags runs
// @Produce  json
// @Param   page query int false "1-indexed page number" default(1)
// @Success 200 {object} models.RunsPage
// @Failure 400 {object} utils.ErrorResponse "Page is not a positive integer"
// @Failure 500 {object} utils.ErrorResponse "Store query failed"
// @Router /runs [get]
func (h *ApplicationHandler) ListRuns(c *fiber.Ctx) error {
	page, err := parsePage(c.Query("page"))
	if err != nil {
		h.Logger.WithField("page", c.Query("page")).Warn("Rejected invalid page parameter")
		return utils.RespondWithError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.Runs.ListRuns(c.UserContext(), page)
	if err != nil {
		return h.respondWithServiceError(c, err)
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, result)
}

// GetRun godoc
// @Summary Get a single run
// @Tags runs
// @Produce  json
// @Param   id path int true "Run ID"
// @Success 200 {object} models.ProcessingRun
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /runs/{id} [get]
func (h *ApplicationHandler) GetRun(c *fiber.Ctx) error {
	id, err := parseRunID(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, err.Error())
	}

	run, err := h.Runs.GetRun(c.UserContext(), id)
	if err != nil {
		return h.respondWithServiceError(c, err)
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, run)
}

// UpdateFeedback godoc
// @Summary Attach operator feedback to a run
// @Description Persists free-text feedback. Only the feedback column is written.
// @Tags runs
// @Accept  json
// @Produce  json
// @Param   id path int true "Run ID"
// @Param   body body UpdateFeedbackRequest true "Feedback"
// @Success 200 {object} models.ProcessingRun
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /runs/{id}/feedback [patch]
func (h *ApplicationHandler) UpdateFeedback(c *fiber.Ctx) error {
	id, err := parseRunID(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, err.Error())
	}

	payload := new(UpdateFeedbackRequest)
	if err := c.BodyParser(payload); err != nil {
		h.Logger.WithError(err).WithField("run_id", id).Warn("Error parsing feedback payload")
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	payload.Feedback = utils.SanitizeInput(payload.Feedback)

	if err := validate.Struct(payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest,
			"Validation failed: "+strings.Join(utils.FormatValidationErrors(err), "; "))
	}

	run, err := h.Runs.UpdateFeedback(c.UserContext(), id, payload.Feedback)
	if err != nil {
		return h.respondWithServiceError(c, err)
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, run)
}

// Health reports liveness and which store backs the listing.
func (h *ApplicationHandler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "ok",
		"store":  h.StoreMode,
	})
}

func (h *ApplicationHandler) respondWithServiceError(c *fiber.Ctx, err error) error {
	var storeErr *service.StoreError
	switch {
	case errors.Is(err, service.ErrInvalidPage), errors.Is(err, service.ErrEmptyFeedback):
		return utils.RespondWithError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrRunNotFound):
		return utils.RespondWithError(c, fiber.StatusNotFound, "Run not found")
	case errors.As(err, &storeErr):
		return utils.RespondWithError(c, fiber.StatusInternalServerError, storeErr.Error())
	default:
		h.Logger.WithError(err).Error("API error")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

// parsePage reads the page query parameter. Absent means page 1; anything
// that is not a positive integer is rejected.
func parsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, service.ErrInvalidPage
	}
	return page, nil
}

func parseRunID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("run id must be a positive integer")
	}
	return id, nil
}
