package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/unionhub/internal/middlewares"
	"github.com/khanghh/unionhub/model"
)

type Handlers struct {
	Auth         *AuthHandler
	Profile      *ProfileHandler
	Registration *RegistrationHandler
	Audit        *AuditHandler
	Security     *SecurityHandler
	Member       *MemberHandler
	Dues         *DuesHandler
	IDCard       *IDCardHandler
	Ticket       *TicketHandler
	Benefit      *BenefitHandler
	Event        *EventHandler
	Settings     *SettingsHandler
	Dashboard    *DashboardHandler
}

// SetupRoutes mounts the API under router. authLimiter guards the login and
// registration endpoints and may be nil.
func SetupRoutes(router fiber.Router, h *Handlers, authn *middlewares.Authenticator, authLimiter fiber.Handler) {
	if authLimiter == nil {
		authLimiter = func(ctx *fiber.Ctx) error { return ctx.Next() }
	}
	api := router.Group("/api")

	memberAuth := api.Group("/auth", authLimiter)
	memberAuth.Post("/register", h.Auth.PostRegister)
	memberAuth.Post("/login", h.Auth.PostLogin)

	api.Get("/id-cards/verify", h.IDCard.GetVerify)

	me := api.Group("/users/me", authn.RequireMember())
	me.Get("/", h.Profile.GetMe)
	me.Put("/", h.Profile.PutMe)
	me.Get("/documents", h.Profile.GetDocuments)
	me.Post("/documents", h.Profile.PostDocument)
	me.Get("/dues", h.Profile.GetDues)
	me.Get("/id-card", h.Profile.GetIDCard)
	me.Get("/tickets", h.Profile.GetTickets)
	me.Post("/tickets", h.Profile.PostTicket)
	me.Get("/benefits", h.Profile.GetBenefits)
	me.Post("/benefits", h.Profile.PostBenefit)

	memberEvents := api.Group("/events", authn.RequireMember())
	memberEvents.Get("/", h.Event.ListUpcoming)
	memberEvents.Post("/:id/register", h.Event.PostRegister)

	api.Post("/admin/auth/login", authLimiter, h.Auth.PostAdminLogin)

	admin := api.Group("/admin", authn.RequireAdmin())
	admin.Get("/auth/me", h.Auth.GetAdminMe)
	admin.Get("/dashboard", h.Dashboard.GetDashboard)

	admin.Post("/security/2fa/setup", h.Security.PostSetup2FA)
	admin.Post("/security/2fa/enable", h.Security.PostEnable2FA)
	admin.Post("/security/2fa/disable", h.Security.PostDisable2FA)
	admin.Get("/security/login-activity", h.Security.GetLoginActivity)
	admin.Post("/security/unlock", h.Security.PostUnlock)

	admin.Get("/registrations", h.Registration.ListRegistrations)
	admin.Get("/registrations/:id", h.Registration.GetRegistration)
	admin.Post("/registrations/:id/review", h.Registration.PostStartReview)
	admin.Post("/registrations/:id/approve", h.Registration.PostApprove)
	admin.Post("/registrations/:id/reject", h.Registration.PostReject)
	admin.Post("/registrations/:id/return", h.Registration.PostReturn)

	admin.Get("/audit-logs", h.Audit.ListAuditLogs)
	admin.Get("/audit-logs/:id", h.Audit.GetAuditLog)

	admin.Get("/members", h.Member.ListMembers)
	admin.Get("/members/:id", h.Member.GetMember)
	admin.Post("/members/:id/suspend", h.Member.PostSuspend)
	admin.Post("/members/:id/reinstate", h.Member.PostReinstate)

	admin.Get("/dues", h.Dues.ListDues)
	admin.Get("/dues/summary", h.Dues.GetSummary)
	admin.Post("/dues", h.Dues.PostDues)
	admin.Post("/dues/generate", h.Dues.PostGenerate)
	admin.Post("/dues/:id/pay", h.Dues.PostPay)
	admin.Post("/dues/:id/waive", h.Dues.PostWaive)

	admin.Get("/id-cards", h.IDCard.ListCards)
	admin.Post("/id-cards/:userId/reissue", h.IDCard.PostReissue)

	admin.Get("/tickets", h.Ticket.ListTickets)
	admin.Patch("/tickets/:id", h.Ticket.PatchTicket)

	admin.Get("/benefits", h.Benefit.ListBenefits)
	admin.Post("/benefits/:id/approve", h.Benefit.PostApprove)
	admin.Post("/benefits/:id/reject", h.Benefit.PostReject)
	admin.Post("/benefits/:id/release", h.Benefit.PostRelease)

	admin.Get("/events", h.Event.ListEvents)
	admin.Post("/events", h.Event.PostEvent)
	admin.Get("/events/:id", h.Event.GetEvent)
	admin.Put("/events/:id", h.Event.PutEvent)
	admin.Post("/events/:id/cancel", h.Event.PostCancel)
	admin.Delete("/events/:id", h.Event.DeleteEvent)

	superAdmin := authn.RequireAdmin(model.AdminRoleSuperAdmin)
	admin.Get("/settings", h.Settings.GetSettings)
	admin.Put("/settings", superAdmin, h.Settings.PutSettings)
}
