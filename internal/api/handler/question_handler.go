package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/madezdev/ecommerce-api/internal/core/ports"
)

// QuestionHandler serves product Q&A.
type QuestionHandler struct {
	service ports.QuestionService
}

func NewQuestionHandler(service ports.QuestionService) *QuestionHandler {
	return &QuestionHandler{service: service}
}

// ByProduct lists the questions asked about a product.
//
// @Summary      List questions for a product
// @Tags         questions
// @Produce      json
// @Param        productId  path      string  true  "Product ID"
// @Success      200        {object}  questionListResponse
// @Failure      404        {object}  errorResponse
// @Router       /api/questions/product/{productId} [get]
func (h *QuestionHandler) ByProduct(c echo.Context) error {
	questions, err := h.service.ListByProduct(c.Request().Context(), c.Param("productId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, questionListResponse{Status: "success", Questions: questions})
}

// Mine lists the caller's questions.
//
// @Summary      List my questions
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  questionListResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/questions/user [get]
func (h *QuestionHandler) Mine(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	questions, err := h.service.ListByUser(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, questionListResponse{Status: "success", Questions: questions})
}

// Ask posts a question about a product.
//
// @Summary      Ask a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      askQuestionRequest  true  "Question"
// @Success      201   {object}  questionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/questions [post]
func (h *QuestionHandler) Ask(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req askQuestionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	q, err := h.service.Ask(c.Request().Context(), p.ID, req.ProductID, req.Question)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, questionResponse{Status: "success", Question: q})
}

// Unanswered lists questions still waiting for an answer.
//
// @Summary      List unanswered questions
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  questionListResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/questions/unanswered [get]
func (h *QuestionHandler) Unanswered(c echo.Context) error {
	questions, err := h.service.ListUnanswered(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, questionListResponse{Status: "success", Questions: questions})
}

// Answer records an admin's answer.
//
// @Summary      Answer a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        questionId  path      string         true  "Question ID"
// @Param        body        body      answerRequest  true  "Answer"
// @Success      200         {object}  questionResponse
// @Failure      400         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /api/questions/{questionId}/answer [post]
func (h *QuestionHandler) Answer(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req answerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	q, err := h.service.Answer(c.Request().Context(), c.Param("questionId"), p.ID, req.Answer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, questionResponse{Status: "success", Question: q})
}
