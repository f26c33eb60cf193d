package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/reclamos-service/internal/api/dto"
	"github.com/spec-kit/reclamos-service/internal/service"
)

// PlannerHandler exposes the planning session workflow.
type PlannerHandler struct {
	planner *service.PlannerService
}

// NewPlannerHandler constructs handler.
func NewPlannerHandler(plannerService *service.PlannerService) *PlannerHandler {
	return &PlannerHandler{planner: plannerService}
}

// OpenSession handles POST /planner/sessions.
func (h *PlannerHandler) OpenSession(c *fiber.Ctx) error {
	var req dto.OpenSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	view, err := h.planner.OpenSession(c.UserContext(), req.Groups)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSessionResponse(view)})
}

// GetSession handles GET /planner/sessions/:id.
func (h *PlannerHandler) GetSession(c *fiber.Ctx) error {
	view, err := h.planner.View(c.Params("id"))
	return h.respond(c, view, err)
}

// Refresh handles POST /planner/sessions/:id/refresh.
func (h *PlannerHandler) Refresh(c *fiber.Ctx) error {
	view, dropped, err := h.planner.Refresh(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	resp := dto.NewSessionResponse(view)
	resp.Dropped = dropped
	return c.JSON(fiber.Map{"data": resp})
}

// CloseSession handles DELETE /planner/sessions/:id.
func (h *PlannerHandler) CloseSession(c *fiber.Ctx) error {
	h.planner.CloseSession(c.Params("id"))
	return c.SendStatus(http.StatusNoContent)
}

// SetGroupCount handles PUT /planner/sessions/:id/groups.
func (h *PlannerHandler) SetGroupCount(c *fiber.Ctx) error {
	var req dto.GroupCountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	view, err := h.planner.SetGroupCount(c.Params("id"), req.Groups)
	return h.respond(c, view, err)
}

// DistributeByZone handles POST /planner/sessions/:id/distribute/zone.
func (h *PlannerHandler) DistributeByZone(c *fiber.Ctx) error {
	view, err := h.planner.DistributeByZone(c.Params("id"))
	return h.respond(c, view, err)
}

// DistributeByType handles POST /planner/sessions/:id/distribute/type.
func (h *PlannerHandler) DistributeByType(c *fiber.Ctx) error {
	view, err := h.planner.DistributeByType(c.Params("id"))
	return h.respond(c, view, err)
}

// Rebalance handles POST /planner/sessions/:id/rebalance.
func (h *PlannerHandler) Rebalance(c *fiber.Ctx) error {
	view, err := h.planner.Rebalance(c.Params("id"))
	return h.respond(c, view, err)
}

// ConfirmStaged handles POST /planner/sessions/:id/staged/confirm.
func (h *PlannerHandler) ConfirmStaged(c *fiber.Ctx) error {
	view, err := h.planner.ConfirmStaged(c.Params("id"))
	return h.respond(c, view, err)
}

// DiscardStaged handles POST /planner/sessions/:id/staged/discard.
func (h *PlannerHandler) DiscardStaged(c *fiber.Ctx) error {
	view, err := h.planner.DiscardStaged(c.Params("id"))
	return h.respond(c, view, err)
}

// Assign handles POST /planner/sessions/:id/assign.
func (h *PlannerHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	view, err := h.planner.Assign(c.Params("id"), req.Group, req.TicketID)
	return h.respond(c, view, err)
}

// Unassign handles POST /planner/sessions/:id/unassign.
func (h *PlannerHandler) Unassign(c *fiber.Ctx) error {
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	view, err := h.planner.Unassign(c.Params("id"), req.Group, req.TicketID)
	return h.respond(c, view, err)
}

// SetTechnicians handles PUT /planner/sessions/:id/technicians.
func (h *PlannerHandler) SetTechnicians(c *fiber.Ctx) error {
	var req dto.TechniciansRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	view, err := h.planner.SetTechnicians(c.Params("id"), req.Group, req.Technicians)
	return h.respond(c, view, err)
}

// Materials handles GET /planner/sessions/:id/materials.
func (h *PlannerHandler) Materials(c *fiber.Ctx) error {
	totals, err := h.planner.Materials(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": totals})
}

// Commit handles POST /planner/sessions/:id/commit.
func (h *PlannerHandler) Commit(c *fiber.Ctx) error {
	var req dto.CommitRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}

	result, err := h.planner.Commit(c.UserContext(), c.Params("id"), req.Strict)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommitResponse(result)})
}

func (h *PlannerHandler) respond(c *fiber.Ctx, view *service.SessionView, err error) error {
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(view)})
}
