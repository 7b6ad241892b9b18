package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"studymart-checkout/internal/dto"
	"studymart-checkout/internal/handler"
	"studymart-checkout/internal/metrics"
	"studymart-checkout/internal/middleware"
	"studymart-checkout/internal/service"
)

type Server struct {
	echo         *echo.Echo
	logger       *zap.Logger
	metrics      *metrics.ServerMetrics
	gatherer     prometheus.Gatherer
	jwtSecret    string
	orderHandler *handler.OrderHandler
}

func NewServer(orderService service.OrderService, jwtSecret string, logger *zap.Logger, reg *prometheus.Registry) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:         e,
		logger:       logger,
		metrics:      metrics.NewServerMetrics(reg, "orders"),
		gatherer:     reg,
		jwtSecret:    jwtSecret,
		orderHandler: handler.NewOrderHandler(orderService),
	}

	e.HTTPErrorHandler = s.errorHandler
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				s.logger.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			s.logger.Info("request", fields...)
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(s.observe)

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	orders := api.Group("/orders", middleware.AuthMiddleware(s.jwtSecret))
	orders.POST("", s.orderHandler.CreateOrder)
	orders.GET("", s.orderHandler.ListOrders)
	orders.GET("/:id", s.orderHandler.GetOrder)

	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler(s.gatherer)))
}

// observe records request count and latency per route template.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		status := c.Response().Status
		if err != nil {
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			} else {
				status = http.StatusInternalServerError
			}
		}

		route := c.Path()
		s.metrics.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		s.metrics.Latency.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
		return err
	}
}

// errorHandler answers every failure with the {success:false, message} envelope.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	} else {
		s.logger.Error("unhandled error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	}

	var sendErr error
	if c.Request().Method == http.MethodHead {
		sendErr = c.NoContent(code)
	} else {
		sendErr = c.JSON(code, dto.ErrorResponse{Success: false, Message: message})
	}
	if sendErr != nil {
		s.logger.Warn("write error response", zap.Error(sendErr))
	}
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
