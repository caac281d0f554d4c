package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/storage/memory/v2"
	fredis "github.com/gofiber/storage/redis/v3"
	"github.com/khanghh/unionhub/internal/approvals"
	"github.com/khanghh/unionhub/internal/audit"
	"github.com/khanghh/unionhub/internal/auth"
	"github.com/khanghh/unionhub/internal/benefits"
	"github.com/khanghh/unionhub/internal/config"
	"github.com/khanghh/unionhub/internal/dashboard"
	"github.com/khanghh/unionhub/internal/database"
	"github.com/khanghh/unionhub/internal/dues"
	"github.com/khanghh/unionhub/internal/events"
	"github.com/khanghh/unionhub/internal/handlers"
	"github.com/khanghh/unionhub/internal/idcards"
	"github.com/khanghh/unionhub/internal/mail"
	"github.com/khanghh/unionhub/internal/members"
	"github.com/khanghh/unionhub/internal/middlewares"
	"github.com/khanghh/unionhub/internal/middlewares/captcha"
	"github.com/khanghh/unionhub/internal/review"
	"github.com/khanghh/unionhub/internal/security"
	"github.com/khanghh/unionhub/internal/settings"
	"github.com/khanghh/unionhub/internal/store"
	"github.com/khanghh/unionhub/internal/tickets"
	"github.com/khanghh/unionhub/internal/uploads"
	"github.com/khanghh/unionhub/internal/users"
	"github.com/khanghh/unionhub/model"
	"github.com/khanghh/unionhub/params"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

var (
	app       *cli.App
	gitCommit string
	gitDate   string
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "YAML config file",
		Value: "config.yaml",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}
	emailFlag = &cli.StringFlag{
		Name:     "email",
		Usage:    "Admin email",
		Required: true,
	}
	nameFlag = &cli.StringFlag{
		Name:     "name",
		Usage:    "Admin display name",
		Required: true,
	}
	passwordFlag = &cli.StringFlag{
		Name:     "password",
		Usage:    "Admin password",
		Required: true,
	}
	roleFlag = &cli.StringFlag{
		Name:  "role",
		Usage: "Admin role (super_admin, admin, staff)",
		Value: string(model.AdminRoleSuperAdmin),
	}
)

func init() {
	app = cli.NewApp()
	app.EnableBashCompletion = true
	app.Usage = "Union membership administration server"
	app.Flags = []cli.Flag{
		configFileFlag,
		debugFlag,
	}
	app.Commands = []*cli.Command{
		{
			Name:  "version",
			Usage: "Print the version",
			Action: func(ctx *cli.Context) error {
				fmt.Println(params.VersionWithCommit(gitCommit, gitDate))
				return nil
			},
		},
		{
			Name:   "migrate",
			Usage:  "Create or update the database schema",
			Action: migrate,
		},
		{
			Name:   "create-admin",
			Usage:  "Create a console account",
			Flags:  []cli.Flag{emailFlag, nameFlag, passwordFlag, roleFlag},
			Action: createAdmin,
		},
	}
	app.Action = run
}

func initLogger(debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}

func setup(ctx *cli.Context) (*config.Config, *gorm.DB, error) {
	cfg, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		slog.Error("Could not load config file.", "error", err)
		return nil, nil, err
	}
	cfg.Debug = cfg.Debug || ctx.Bool(debugFlag.Name)
	initLogger(cfg.Debug)

	db, err := database.Open(cfg.MySQL, cfg.Debug)
	if err != nil {
		slog.Error("Could not connect to database.", "error", err)
		return nil, nil, err
	}
	return cfg, db, nil
}

func migrate(ctx *cli.Context) error {
	_, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := db.AutoMigrate(model.Models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	slog.Info("Database schema is up to date", "models", len(model.Models))
	return nil
}

func createAdmin(ctx *cli.Context) error {
	cfg, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer database.Close(db)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, params.TokenIssuer, cfg.JWT.TokenTTL)
	guard := security.NewLoginGuard(store.NewMemoryStore[security.LoginState]())
	adminService := auth.NewAdminService(auth.NewAdminRepository(db), audit.NewRepository(db), guard, tokens, cfg.AppName, cfg.BcryptRounds)
	admin, err := adminService.CreateAdmin(ctx.Context, auth.CreateAdminOptions{
		Name:     ctx.String(nameFlag.Name),
		Email:    ctx.String(emailFlag.Name),
		Password: ctx.String(passwordFlag.Name),
		Role:     model.AdminRole(ctx.String(roleFlag.Name)),
	})
	if err != nil {
		return err
	}
	slog.Info("Admin created", "id", admin.ID, "email", admin.Email, "role", admin.Role)
	return nil
}

// stateBackend returns the fiber.Storage shared by the limiter and the login state store.
func stateBackend(cfg *config.Config) (fiber.Storage, store.Store[security.LoginState]) {
	if cfg.RedisURL != "" {
		storage := fredis.New(fredis.Config{URL: cfg.RedisURL})
		slog.Info("Using redis state storage")
		return storage, store.NewRedisStore[security.LoginState](storage.Conn(), "login:")
	}
	slog.Info("Using in-memory state storage")
	return memory.New(memory.Config{GCInterval: 10 * time.Second}), store.NewMemoryStore[security.LoginState]()
}

func buildHandlers(cfg *config.Config, db *gorm.DB, loginStore store.Store[security.LoginState]) (*handlers.Handlers, *auth.TokenManager, error) {
	tx := database.NewTransactor(db)
	auditRepo := audit.NewRepository(db)
	queueRepo := approvals.NewRepository(db)

	settingService := settings.NewSettingService(tx, settings.NewRepository(db), auditRepo)
	if err := settingService.SetDefault(settings.KeyMembershipPrefix, cfg.MembershipPrefix); err != nil {
		return nil, nil, err
	}

	engine, err := mail.NewTemplateEngine()
	if err != nil {
		return nil, nil, fmt.Errorf("load mail templates: %w", err)
	}
	notifier := mail.NewNotifier(mail.NewMailSender(cfg.SMTP), engine, cfg.AppName, cfg.ClientURL)

	files := uploads.NewStorage(cfg.UploadDir)
	tokens := auth.NewTokenManager(cfg.JWT.Secret, params.TokenIssuer, cfg.JWT.TokenTTL)
	guard := security.NewLoginGuard(loginStore)

	auditService := audit.NewAuditService(auditRepo)
	userService := users.NewUserService(tx, users.NewUserRepository(db), users.NewRegistrationFormRepository(db),
		users.NewDocumentRepository(db), queueRepo, auditRepo, guard, tokens, cfg.BcryptRounds)
	adminService := auth.NewAdminService(auth.NewAdminRepository(db), auditRepo, guard, tokens, cfg.AppName, cfg.BcryptRounds)
	reviewService := review.NewReviewService(tx, review.NewRepository(db), queueRepo, auditRepo, settingService, notifier)
	duesService := dues.NewDuesService(tx, dues.NewRepository(db), auditRepo, settingService)
	cardService := idcards.NewCardService(tx, idcards.NewRepository(db), auditRepo, idcards.NewSigner(cfg.JWT.Secret))
	memberService := members.NewMemberService(tx, members.NewRepository(db), auditRepo, duesService, cardService.Signer())
	ticketService := tickets.NewTicketService(tx, tickets.NewRepository(db), auditRepo)
	benefitService := benefits.NewBenefitService(tx, benefits.NewRepository(db), queueRepo, auditRepo)
	eventService := events.NewEventService(tx, events.NewRepository(db), auditRepo, files)
	dashboardService := dashboard.NewDashboardService(dashboard.NewRepository(db))

	var verifier handlers.CaptchaVerifier
	if cfg.TurnstileSecret != "" {
		verifier = captcha.NewTurnstileVerifier(cfg.TurnstileSecret)
	}

	return &handlers.Handlers{
		Auth:         handlers.NewAuthHandler(userService, adminService, verifier),
		Profile:      handlers.NewProfileHandler(userService, duesService, cardService, ticketService, benefitService, files),
		Registration: handlers.NewRegistrationHandler(reviewService),
		Audit:        handlers.NewAuditHandler(auditService),
		Security:     handlers.NewSecurityHandler(adminService, auditService, guard),
		Member:       handlers.NewMemberHandler(memberService),
		Dues:         handlers.NewDuesHandler(duesService),
		IDCard:       handlers.NewIDCardHandler(cardService),
		Ticket:       handlers.NewTicketHandler(ticketService),
		Benefit:      handlers.NewBenefitHandler(benefitService),
		Event:        handlers.NewEventHandler(eventService),
		Settings:     handlers.NewSettingsHandler(settingService),
		Dashboard:    handlers.NewDashboardHandler(dashboardService),
	}, tokens, nil
}

func run(ctx *cli.Context) error {
	cfg, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer database.Close(db)

	storage, loginStore := stateBackend(cfg)
	defer storage.Close()

	h, tokens, err := buildHandlers(cfg, db, loginStore)
	if err != nil {
		return err
	}

	router := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ErrorHandler: middlewares.NewErrorHandler(cfg.Debug),
		BodyLimit:    params.ServerBodyLimit,
		IdleTimeout:  params.ServerIdleTimeout,
		ReadTimeout:  params.ServerReadTimeout,
		WriteTimeout: params.ServerWriteTimeout,
	})
	router.Use(recover.New())
	router.Use(requestid.New())
	router.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))
	router.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	authLimiter := limiter.New(limiter.Config{
		Max:        params.AuthRateLimitMax,
		Expiration: params.AuthRateLimitWindow,
		Storage:    store.NewKVStorage(storage, "limiter:"),
	})
	handlers.SetupRoutes(router, h, middlewares.NewAuthenticator(tokens), authLimiter)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "address", cfg.ListenAddr, "version", params.Version)
		errCh <- router.Listen(cfg.ListenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		slog.Info("Shutting down server", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), params.ShutdownTimeout)
	defer cancel()
	if err := router.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
