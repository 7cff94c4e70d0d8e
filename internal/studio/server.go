package studio

import (
	"fmt"
	"net"
	"os/exec"
	"runtime"

	"github.com/Rana718/docprobe/internal/logger"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Server struct {
	app     *fiber.App
	service *Service
	port    int
}

func NewServer(store Store, port int) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "docprobe studio",
	})

	server := &Server{
		app:     app,
		service: NewService(store),
		port:    port,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	api := s.app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Get("/collections", s.handleGetCollections)
	api.Get("/collections/:name/documents", s.handleGetDocuments)
	api.Get("/collections/:name/count", s.handleCountDocuments)
}

// App exposes the fiber app for in-process requests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Port() int {
	return s.port
}

func (s *Server) Start(openBrowser bool) error {
	url := fmt.Sprintf("http://localhost:%d/api/collections", s.port)
	logger.L().Info("studio starting", zap.String("url", url), zap.String("database", s.service.DatabaseName()))

	if openBrowser {
		go func() {
			if err := OpenBrowser(url); err != nil {
				logger.L().Debug("failed to open browser", zap.Error(err))
			}
		}()
	}

	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// FindAvailablePort returns the first free port in [startPort, startPort+100),
// or startPort when none is free.
func FindAvailablePort(startPort int) int {
	for port := startPort; port < startPort+100; port++ {
		ln, err := net.Listen("tcp4", fmt.Sprintf(":%d", port))
		if err != nil {
			continue
		}
		ln.Close()
		return port
	}
	return startPort
}

func OpenBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	case "darwin":
		cmd = "open"
		args = []string{url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}

	return exec.Command(cmd, args...).Start()
}
