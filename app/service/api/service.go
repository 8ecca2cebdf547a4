package api

import (
	"context"
	"log/slog"

	"voicedesk/app/config"
	"voicedesk/app/service/coffee"
	"voicedesk/app/service/wellness"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
)

// Service serves the saved check-ins and orders read-only over HTTP.
type Service struct {
	cfg         *config.Config
	wellnessSvc *wellness.Service
	coffeeSvc   *coffee.Service

	app *fiber.App
}

func New(di *do.Injector) (*Service, error) {
	return NewService(
		do.MustInvoke[*config.Config](di),
		do.MustInvoke[*wellness.Service](di),
		do.MustInvoke[*coffee.Service](di),
	), nil
}

func NewService(cfg *config.Config, wellnessSvc *wellness.Service, coffeeSvc *coffee.Service) *Service {
	s := &Service{
		cfg:         cfg,
		wellnessSvc: wellnessSvc,
		coffeeSvc:   coffeeSvc,
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ErrorHandler:          errorHandler,
		}),
	}

	s.app.Get("/healthz", s.health)
	s.app.Get("/wellness/history", s.wellnessHistory)
	s.app.Get("/wellness/summary", s.wellnessSummary)
	s.app.Get("/coffee/orders", s.coffeeOrders)

	return s
}

func (s *Service) App() *fiber.App {
	return s.app
}

// Run listens until ctx ends.
func (s *Service) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Records API listening", "addr", s.cfg.Server.Addr)
		errCh <- s.app.Listen(s.cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.app.ShutdownWithContext(context.Background())
	}
}

func (s *Service) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Service) wellnessHistory(c *fiber.Ctx) error {
	return c.JSON(s.wellnessSvc.Store().History())
}

func (s *Service) wellnessSummary(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"summary": wellness.Summarize(s.wellnessSvc.Store().History()),
	})
}

func (s *Service) coffeeOrders(c *fiber.Ctx) error {
	orders, err := s.coffeeSvc.Store().Orders()
	if err != nil {
		return err
	}

	return c.JSON(orders)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	} else {
		slog.Error("Request failed", "path", c.Path(), "error", err)
	}

	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
