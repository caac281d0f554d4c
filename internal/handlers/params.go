package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/unionhub/internal/common"
	"github.com/khanghh/unionhub/internal/middlewares"
	"github.com/spf13/cast"
)

const dateLayout = "2006-01-02"

func paramID(ctx *fiber.Ctx, name string) (uint, error) {
	id, err := cast.ToUintE(ctx.Params(name))
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

func queryString(ctx *fiber.Ctx, name string) string {
	return strings.TrimSpace(ctx.Query(name))
}

func queryUint(ctx *fiber.Ctx, name string) (*uint, error) {
	raw := queryString(ctx, name)
	if raw == "" {
		return nil, nil
	}
	v, err := cast.ToUintE(raw)
	if err != nil {
		return nil, badRequest("Invalid value for "+name+".", err)
	}
	return &v, nil
}

// queryTime accepts RFC 3339 timestamps or plain dates.
func queryTime(ctx *fiber.Ctx, name string) (*time.Time, error) {
	raw := queryString(ctx, name)
	if raw == "" {
		return nil, nil
	}
	t, err := parseTime(raw)
	if err != nil {
		return nil, badRequest("Invalid value for "+name+".", err)
	}
	return &t, nil
}

func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation(dateLayout, raw, time.Local)
}

func pageRequest(ctx *fiber.Ctx) common.PageRequest {
	return common.NewPageRequest(cast.ToInt(ctx.Query("page")), cast.ToInt(ctx.Query("pageSize")))
}

func parseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return badRequest(MsgInvalidRequestBody, err)
	}
	return nil
}

func currentID(ctx *fiber.Ctx) uint {
	return middlewares.SubjectID(ctx)
}

func sendData(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{"data": data})
}
