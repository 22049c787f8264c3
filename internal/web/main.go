package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/auth"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/config"
	fiberlogger "github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/logger/adapter/fiber"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/admin/settings/pdnsserver"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/dashboard"
	dnsseckey "github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/dnssec/key"
	dnsseclist "github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/dnssec/list"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/login"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/logout"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/template"
	recordadd "github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/template/record/add"
	recorddelete "github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/template/record/delete"
	zoneadd "github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/handler/zone/add"
	authmw "github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/web/middleware/auth"
)

// CheckAlivePath answers load balancer health checks.
const CheckAlivePath = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown blocks until SIGINT or SIGTERM and stops the http server.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// checkAlive returns 200 while the service accepts traffic and 503 during shutdown.
func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

func newTemplateEngine(cfg *config.Config) *html.Engine {
	templateEngine := html.NewFileSystem(http.FS(viewsFS()), ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFunc("iterate", func(count int) []int {
		result := make([]int, count)
		for i := range result {
			result[i] = i
		}

		return result
	})
	templateEngine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	templateEngine.AddFunc("list", func(values ...string) []string {
		return values
	})

	return templateEngine
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          newTemplateEngine(cfg),
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	authService := auth.NewService(db)

	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
	}
	service.alive.Store(true)

	// routes ahead of the login check
	app.Get(CheckAlivePath, service.checkAlive)

	if cfg.Webserver.MetricsPath != "" {
		app.Get(cfg.Webserver.MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))
	}

	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	app.Use(authmw.Middleware)
	app.Use(auth.AddPermissionsToLocals(authService))

	if err := login.Handler.Init(app, cfg, db); err != nil {
		log.Fatal().Err(err).Msg("failed to init login handler")
	}

	logout.Handler.Init(app, cfg)

	for _, h := range []handler.Service{
		&dashboard.Handler,
		&template.Handler,
		&recordadd.Handler,
		&recorddelete.Handler,
		&dnsseclist.Handler,
		&dnsseckey.Handler,
		&zoneadd.Handler,
		&pdnsserver.Handler,
	} {
		h.Init(app, cfg, db, authService)
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(dashboard.Path)
	})

	return service
}
