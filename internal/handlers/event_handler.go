package handlers

import (
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/unionhub/internal/events"
	"github.com/khanghh/unionhub/model"
	"github.com/spf13/cast"
)

type EventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	StartsAt    *string `json:"startsAt"`
	EndsAt      *string `json:"endsAt"`
	Capacity    *int    `json:"capacity"`
	Status      *string `json:"status"`
}

func (req *EventRequest) input() (events.EventInput, error) {
	input := events.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Capacity:    req.Capacity,
	}
	var err error
	if input.StartsAt, err = optionalTime(req.StartsAt, "startsAt"); err != nil {
		return input, err
	}
	if input.EndsAt, err = optionalTime(req.EndsAt, "endsAt"); err != nil {
		return input, err
	}
	if req.Status != nil {
		status := model.EventStatus(strings.TrimSpace(*req.Status))
		input.Status = &status
	}
	return input, nil
}

func optionalTime(raw *string, name string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := parseTime(strings.TrimSpace(*raw))
	if err != nil {
		return nil, badRequest("Invalid value for "+name+".", err)
	}
	return &t, nil
}

func formValue(form *multipart.Form, name string) *string {
	values := form.Value[name]
	if len(values) == 0 {
		return nil
	}
	return &values[0]
}

// eventRequestFromForm reads the text fields of a multipart event form.
func eventRequestFromForm(form *multipart.Form) (*EventRequest, error) {
	req := &EventRequest{
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
		Location:    formValue(form, "location"),
		StartsAt:    formValue(form, "startsAt"),
		EndsAt:      formValue(form, "endsAt"),
		Status:      formValue(form, "status"),
	}
	if raw := formValue(form, "capacity"); raw != nil && strings.TrimSpace(*raw) != "" {
		capacity, err := cast.ToIntE(strings.TrimSpace(*raw))
		if err != nil {
			return nil, badRequest("Invalid value for capacity.", err)
		}
		req.Capacity = &capacity
	}
	return req, nil
}

type EventHandler struct {
	eventService EventService
}

func NewEventHandler(eventService EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// POST /api/admin/events accepts JSON or a multipart form with attachments.
func (h *EventHandler) PostEvent(ctx *fiber.Ctx) error {
	var (
		req   = &EventRequest{}
		files []*multipart.FileHeader
	)
	if strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := ctx.MultipartForm()
		if err != nil {
			return badRequest(MsgInvalidRequestBody, err)
		}
		if req, err = eventRequestFromForm(form); err != nil {
			return err
		}
		files = form.File["attachments"]
	} else if err := parseBody(ctx, req); err != nil {
		return err
	}

	input, err := req.input()
	if err != nil {
		return err
	}
	event, err := h.eventService.Create(ctx.Context(), currentID(ctx), input, files)
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusCreated, event)
}

// GET /api/admin/events
func (h *EventHandler) ListEvents(ctx *fiber.Ctx) error {
	filter := events.Filter{Status: model.EventStatus(queryString(ctx, "status"))}
	var err error
	if filter.StartsAfter, err = queryTime(ctx, "from"); err != nil {
		return err
	}
	if filter.StartsBefore, err = queryTime(ctx, "to"); err != nil {
		return err
	}
	result, err := h.eventService.List(ctx.Context(), filter, pageRequest(ctx))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(result)
}

// GET /api/admin/events/:id
func (h *EventHandler) GetEvent(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return mapError(err)
	}
	view, err := h.eventService.Get(ctx.Context(), id)
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, view)
}

// PUT /api/admin/events/:id
func (h *EventHandler) PutEvent(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return mapError(err)
	}
	var req EventRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	input, err := req.input()
	if err != nil {
		return err
	}
	event, err := h.eventService.Update(ctx.Context(), currentID(ctx), id, input)
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, event)
}

// POST /api/admin/events/:id/cancel
func (h *EventHandler) PostCancel(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return mapError(err)
	}
	event, err := h.eventService.Cancel(ctx.Context(), currentID(ctx), id)
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusOK, event)
}

// DELETE /api/admin/events/:id
func (h *EventHandler) DeleteEvent(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return mapError(err)
	}
	if err := h.eventService.Delete(ctx.Context(), currentID(ctx), id); err != nil {
		return mapError(err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// GET /api/events
func (h *EventHandler) ListUpcoming(ctx *fiber.Ctx) error {
	result, err := h.eventService.ListUpcoming(ctx.Context(), pageRequest(ctx))
	if err != nil {
		return mapError(err)
	}
	return ctx.JSON(result)
}

// POST /api/events/:id/register
func (h *EventHandler) PostRegister(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return mapError(err)
	}
	reg, err := h.eventService.Register(ctx.Context(), currentID(ctx), id)
	if err != nil {
		return mapError(err)
	}
	return sendData(ctx, fiber.StatusCreated, reg)
}
