package community

import (
	"errors"

	"github.com/curelink/curelink-backend/internal/dto"
	"github.com/curelink/curelink-backend/internal/identity"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateProblem(c *fiber.Ctx) error {
	authorID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req CreateProblemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	problem, err := h.service.CreateProblem(authorID, req)
	if err != nil {
		if errors.Is(err, ErrTitleRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to post question",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(problem)
}

func (h *Handler) AnswerProblem(c *fiber.Ctx) error {
	authorID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	problemID, err := uuid.Parse(c.Params("problemId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid problem ID",
		})
	}

	var req AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	answer, err := h.service.AnswerProblem(authorID, problemID, req)
	if err != nil {
		if errors.Is(err, ErrContentRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, ErrProblemNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to submit answer",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(answer)
}

func (h *Handler) ListProblems(c *fiber.Ctx) error {
	problems, err := h.service.ListProblems()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch questions",
		})
	}

	return c.JSON(problems)
}

func (h *Handler) GetProblem(c *fiber.Ctx) error {
	problemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid problem ID",
		})
	}

	detail, err := h.service.GetProblem(problemID)
	if err != nil {
		if errors.Is(err, ErrProblemNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch question",
		})
	}

	return c.JSON(detail)
}
