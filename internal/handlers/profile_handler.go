package handlers

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/unionhub/internal/benefits"
	"github.com/khanghh/unionhub/internal/tickets"
	"github.com/khanghh/unionhub/internal/users"
	"github.com/khanghh/unionhub/model"
)

type ProfileRequest struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Phone      *string `json:"phone"`
	Employer   *string `json:"employer"`
	Position   *string `json:"position"`
	EmployeeID *string `json:"employeeId"`
	Address    *string `json:"address"`
	BirthDate  *string `json:"birthDate"`
}

type CreateTicketRequest struct {
	Subject     string `json:"subject"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

type CreateBenefitRequest struct {
	BenefitType string `json:"benefitType"`
	AmountCents int64  `json:"amountCents"`
	Reason      string `json:"reason"`
}

// ProfileHandler serves the member portal under /api/users/me.
type ProfileHandler struct {
	userService    UserService
	duesService    DuesService
	cardService    CardService
	ticketService  TicketService
	benefitService BenefitService
	files          FileStorage
}

func NewProfileHandler(userService UserService, duesService DuesService, cardService CardService, ticketService TicketService, benefitService BenefitService, files FileStorage) *ProfileHandler {
	return &ProfileHandler{
		userService:    userService,
		duesService:    duesService,
		cardService:    cardService,
		ticketService:  ticketService,
		benefitService: benefitService,
		files:          files,
	}
}

// GET /api/users/me
func (h *ProfileHandler) GetMe(ctx *fiber.Ctx) error {
	user, err := h.userService.GetUser(ctx.Context(), currentID(ctx))
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, user)
}

// PUT /api/users/me
func (h *ProfileHandler) PutMe(ctx *fiber.Ctx) error {
	var req ProfileRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	update := users.ProfileUpdate{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Employer:   req.Employer,
		Position:   req.Position,
		EmployeeID: req.EmployeeID,
		Address:    req.Address,
	}
	if req.BirthDate != nil && strings.TrimSpace(*req.BirthDate) != "" {
		birthDate, err := time.ParseInLocation(dateLayout, strings.TrimSpace(*req.BirthDate), time.Local)
		if err != nil {
			return badRequest("Birth date must be formatted as YYYY-MM-DD.", err)
		}
		update.BirthDate = &birthDate
	}

	user, err := h.userService.UpdateProfile(ctx.Context(), currentID(ctx), update)
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, user)
}

// POST /api/users/me/documents
func (h *ProfileHandler) PostDocument(ctx *fiber.Ctx) error {
	userID := currentID(ctx)
	category := model.DocumentCategory(strings.TrimSpace(ctx.FormValue("category")))
	if !category.Valid() {
		return mapError(users.ErrInvalidCategory)
	}
	fh, err := ctx.FormFile("file")
	if err != nil {
		return badRequest(MsgFileRequired, err)
	}

	file, err := h.files.Save(fh, fmt.Sprintf("documents/%d", userID))
	if err != nil {
		return mapError(err)
	}
	doc, err := h.userService.AddDocument(ctx.Context(), userID, users.DocumentInfo{
		Category:     category,
		FilePath:     file.Path,
		OriginalName: file.OriginalName,
		MimeType:     file.MimeType,
		Size:         file.Size,
	})
	if err != nil {
		if rmErr := h.files.Remove(file.Path); rmErr != nil {
			slog.Warn("Failed to remove orphan upload", "path", file.Path, "error", rmErr)
		}
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusCreated, doc)
}

// GET /api/users/me/documents
func (h *ProfileHandler) GetDocuments(ctx *fiber.Ctx) error {
	docs, err := h.userService.ListDocuments(ctx.Context(), currentID(ctx))
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, docs)
}

// GET /api/users/me/dues
func (h *ProfileHandler) GetDues(ctx *fiber.Ctx) error {
	userID := currentID(ctx)
	ledgers, err := h.duesService.ListForUser(ctx.Context(), userID)
	if err != nil {
		return mapError(err)
	}
	standing, err := h.duesService.StandingOf(ctx.Context(), userID)
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(fiber.Map{"data": ledgers, "duesStatus": standing})
}

// GET /api/users/me/id-card
func (h *ProfileHandler) GetIDCard(ctx *fiber.Ctx) error {
	card, err := h.cardService.GetCard(ctx.Context(), currentID(ctx))
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, card)
}

// POST /api/users/me/tickets
func (h *ProfileHandler) PostTicket(ctx *fiber.Ctx) error {
	var req CreateTicketRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	ticket, err := h.ticketService.Create(ctx.Context(), currentID(ctx), tickets.CreateOptions{
		Subject:     req.Subject,
		Category:    req.Category,
		Description: req.Description,
		Priority:    model.TicketPriority(strings.TrimSpace(req.Priority)),
	})
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusCreated, ticket)
}

// GET /api/users/me/tickets
func (h *ProfileHandler) GetTickets(ctx *fiber.Ctx) error {
	result, err := h.ticketService.List(ctx.Context(), tickets.Filter{UserID: currentID(ctx)}, pageRequest(ctx))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(result)
}

// POST /api/users/me/benefits
func (h *ProfileHandler) PostBenefit(ctx *fiber.Ctx) error {
	var req CreateBenefitRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	request, err := h.benefitService.Create(ctx.Context(), currentID(ctx), benefits.CreateOptions{
		BenefitType: req.BenefitType,
		AmountCents: req.AmountCents,
		Reason:      req.Reason,
	})
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusCreated, request)
}

// GET /api/users/me/benefits
func (h *ProfileHandler) GetBenefits(ctx *fiber.Ctx) error {
	result, err := h.benefitService.List(ctx.Context(), benefits.Filter{UserID: currentID(ctx)}, pageRequest(ctx))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(result)
}
