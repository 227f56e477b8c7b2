package handlers

import (
	"github.com/fenilmodi00/shadowtrace-backend/models"
	"github.com/fenilmodi00/shadowtrace-backend/services"
	"github.com/fenilmodi00/shadowtrace-backend/shared"
	"github.com/gofiber/fiber/v2"
)

type SessionHandler struct {
	Sessions  *services.SessionManager
	Presenter *services.ResultPresenter
}

func NewSessionHandler(sessions *services.SessionManager, presenter *services.ResultPresenter) *SessionHandler {
	return &SessionHandler{
		Sessions:  sessions,
		Presenter: presenter,
	}
}

func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	session, err := h.Sessions.Create()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    session.Snapshot(),
	})
}

func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.Sessions.Get(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    session.Snapshot(),
	})
}

func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	if err := h.Sessions.Delete(c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Session deleted",
	})
}

// Search runs a lookup for the session. The request blocks for the lookup's
// latency; a second search on the same session meanwhile gets 409.
func (h *SessionHandler) Search(c *fiber.Ctx) error {
	type Request struct {
		Query string `json:"query"`
		Type  string `json:"type"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request"})
	}

	session, err := h.Sessions.Get(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	category, err := models.ParseSearchCategory(req.Type)
	if err != nil {
		return errorResponse(c, err)
	}

	result, err := session.Submit(c.UserContext(), req.Query, category)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"result": result,
			"view":   h.Presenter.Present(result),
		},
	})
}

func (h *SessionHandler) GetHistory(c *fiber.Ctx) error {
	session, err := h.Sessions.Get(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	limit := c.QueryInt("limit", -1)
	history := session.RecentHistory(limit)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"entries": h.Presenter.PresentHistory(history),
			"results": history,
		},
	})
}

func (h *SessionHandler) SelectHistoryEntry(c *fiber.Ctx) error {
	session, err := h.Sessions.Get(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "index must be an integer"})
	}

	result, err := session.SelectHistoryEntry(index)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

func (h *SessionHandler) GetResultView(c *fiber.Ctx) error {
	result, err := h.currentResult(c)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.Presenter.Present(result),
	})
}

// ExportResult streams the current result as a JSON download
func (h *SessionHandler) ExportResult(c *fiber.Ctx) error {
	result, err := h.currentResult(c)
	if err != nil {
		return errorResponse(c, err)
	}

	payload, err := services.MarshalResult(result)
	if err != nil {
		return errorResponse(c, shared.WrapError(err, shared.ErrorCategoryProcessing,
			shared.ErrCodeExportFailed, "SessionHandler", "ExportResult", false))
	}

	c.Attachment(services.ExportFileName(result.Input))
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}

// SaveResult writes the current result into the server's export directory
func (h *SessionHandler) SaveResult(c *fiber.Ctx) error {
	result, err := h.currentResult(c)
	if err != nil {
		return errorResponse(c, err)
	}

	path, err := h.Presenter.ExportAsFile(result)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Results downloaded as JSON",
		"path":    path,
	})
}

func (h *SessionHandler) CopyResult(c *fiber.Ctx) error {
	result, err := h.currentResult(c)
	if err != nil {
		return errorResponse(c, err)
	}

	if err := h.Presenter.CopyToClipboard(result); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Results copied to clipboard",
	})
}

func (h *SessionHandler) GetNotifications(c *fiber.Ctx) error {
	session, err := h.Sessions.Get(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    session.Notifications(),
	})
}

func (h *SessionHandler) ResetSession(c *fiber.Ctx) error {
	session, err := h.Sessions.Get(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	if err := session.Reset(); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    session.Snapshot(),
	})
}

func (h *SessionHandler) currentResult(c *fiber.Ctx) (models.LookupResult, error) {
	session, err := h.Sessions.Get(c.Params("id"))
	if err != nil {
		return models.LookupResult{}, err
	}

	result, ok := session.Current()
	if !ok {
		return models.LookupResult{}, shared.NewServiceError(
			shared.ErrorCategoryNotFound,
			shared.ErrCodeNoCurrentResult,
			"no result to show yet, run a search first",
			"SessionHandler",
			"currentResult",
			false,
			nil,
		)
	}
	return result, nil
}
