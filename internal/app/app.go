package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"inventory/internal/config"
	"inventory/internal/database"
	"inventory/internal/handlers"
	"inventory/internal/metrics"
	"inventory/internal/repositories"
	"inventory/internal/seed"
	"inventory/internal/services"
	"inventory/internal/views"
	"inventory/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Server bundles the HTTP app with the resources it owns.
type Server struct {
	App  *fiber.App
	Repo repositories.ProductRepository

	db       *gorm.DB
	mqClient *rabbitmq.Client
}

// NewApp builds the Fiber app serving the catalog pages on top of service.
func NewApp(service *services.ProductService) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        views.NewEngine(),
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(metrics.Middleware())

	handlers.NewProductHandler(service).RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	app.Get("/metrics", metrics.Handler())

	return app
}

// ErrorHandler renders failed requests with the error page. Errors that are
// not *fiber.Error are reported as 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		log.Printf("Request %s %s failed: %v", c.Method(), c.Path(), err)
	}

	c.Status(code)
	if renderErr := c.Render("error", fiber.Map{
		"Title":   "Error",
		"Status":  code,
		"Message": message,
	}, views.Layout); renderErr != nil {
		log.Printf("Error rendering error page: %v", renderErr)
		return c.Status(code).SendString(message)
	}
	return nil
}

// Bootstrap wires the store, the optional event broker and the HTTP app
// according to cfg.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Server, error) {
	srv := &Server{}

	repo, err := srv.openRepository(cfg)
	if err != nil {
		return nil, err
	}
	srv.Repo = repo

	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			srv.Close()
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		srv.mqClient = mqClient
		publisher = mqClient
	} else {
		log.Println("RABBITMQ_URL is not set. Product events are disabled.")
	}

	if cfg.SeedOnStart {
		if err := seed.Run(ctx, repo); err != nil {
			srv.Close()
			return nil, err
		}
	}

	srv.App = NewApp(services.NewProductService(repo, publisher))
	return srv, nil
}

func (s *Server) openRepository(cfg *config.Config) (repositories.ProductRepository, error) {
	if cfg.DBDriver == "memory" {
		return repositories.NewMockProductRepository(), nil
	}

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	s.db = db
	return repositories.NewGORMProductRepository(db), nil
}

// Run serves HTTP on addr until stop fires or the listener fails.
// A listener failure is returned so the caller can release its resources.
func (s *Server) Run(addr string, stop <-chan os.Signal) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on port %s", addr)
		errCh <- s.App.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-stop:
	}

	log.Println("Shutting down server...")
	if err := s.App.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
	return nil
}

// ConsumeEvents starts logging product events when a broker is configured.
func (s *Server) ConsumeEvents() error {
	if s.mqClient == nil {
		return nil
	}
	return s.mqClient.ConsumeProductEvents(rabbitmq.LogProductEvent)
}

// Close releases the broker connection and the database pool.
func (s *Server) Close() {
	if s.mqClient != nil {
		if err := s.mqClient.Close(); err != nil {
			log.Printf("Error closing RabbitMQ client: %v", err)
		}
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("Error closing database: %v", err)
			}
		}
	}
}
