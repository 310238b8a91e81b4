package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/paykit/order-gateway/internal/gateway"
)

// AuthorizeRequest represents a card authorization attempt
type AuthorizeRequest struct {
	OrderID string  `json:"orderId" binding:"required"`
	Amount  float64 `json:"amount" binding:"required"`
	Last4   string  `json:"last4"`
}

// AuthorizeResponse represents the gateway's verdict
type AuthorizeResponse struct {
	OrderID       string     `json:"orderId"`
	Outcome       string     `json:"outcome"`
	Code          string     `json:"code"`
	Message       string     `json:"message"`
	AuthToken     string     `json:"authToken,omitempty"`
	AuthExpiresAt *time.Time `json:"authExpiresAt,omitempty"`
	GatewayID     string     `json:"gateway_id"`
	ProcessedAt   time.Time  `json:"processed_at"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status      string    `json:"status"`
	GatewayID   string    `json:"gateway_id"`
	Timestamp   time.Time `json:"timestamp"`
	SuccessRate float64   `json:"success_rate"`
}

// MockProcessor simulates a card payment processor
type MockProcessor struct {
	successRate float64
	minDelay    time.Duration
	maxDelay    time.Duration
	gatewayID   string
	rng         *rand.Rand
}

// NewMockProcessor creates a new mock processor instance
func NewMockProcessor(successRate float64, minDelay, maxDelay time.Duration) *MockProcessor {
	return &MockProcessor{
		successRate: successRate,
		minDelay:    minDelay,
		maxDelay:    maxDelay,
		gatewayID:   "MOCK_GATEWAY_" + uuid.New().String()[:8],
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// simulateAuthorization draws a verdict after a simulated processing delay.
// The success slice of the distribution is rescaled to the configured rate;
// the three failure buckets keep their relative weights.
func (m *MockProcessor) simulateAuthorization(req *AuthorizeRequest) *AuthorizeResponse {
	time.Sleep(m.randomDelay())

	response := &AuthorizeResponse{
		OrderID:     req.OrderID,
		GatewayID:   m.gatewayID,
		ProcessedAt: time.Now(),
	}

	draw := m.rng.Float64()
	if draw < m.successRate {
		response.Outcome = "SUCCESS"
		response.Code = "00"
		response.Message = "Approved"
		response.AuthToken = gateway.NewAuthToken(req.OrderID)
		expires := time.Now().Add(gateway.TokenTTL)
		response.AuthExpiresAt = &expires

		log.Info().
			Str("order_id", req.OrderID).
			Float64("amount", req.Amount).
			Msg("authorization approved")
		return response
	}

	// spread the failure share over the 17/17/6 buckets
	rest := (draw - m.successRate) / (1 - m.successRate) * 0.40
	switch {
	case rest < 0.17:
		response.Outcome = "INSUFFICIENT_FUNDS"
		response.Code = "51"
		response.Message = "Insufficient funds"
	case rest < 0.34:
		response.Outcome = "INCORRECT_DETAILS"
		response.Code = "14"
		response.Message = "Incorrect card details"
	default:
		response.Outcome = "SERVER_ERROR"
		response.Code = "XX"
		response.Message = "Authorization server error"
	}

	log.Warn().
		Str("order_id", req.OrderID).
		Str("code", response.Code).
		Msg("authorization failed")

	return response
}

func (m *MockProcessor) randomDelay() time.Duration {
	if m.maxDelay <= m.minDelay {
		return m.minDelay
	}
	delta := m.maxDelay - m.minDelay
	return m.minDelay + time.Duration(m.rng.Int63n(int64(delta)))
}

// Handler struct holds the mock processor and routes
type Handler struct {
	processor *MockProcessor
}

func NewHandler(processor *MockProcessor) *Handler {
	return &Handler{processor: processor}
}

// Authorize handles card authorization requests
func (h *Handler) Authorize(c *gin.Context) {
	var req AuthorizeRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	response := h.processor.simulateAuthorization(&req)

	statusCode := http.StatusOK
	if response.Outcome == "SERVER_ERROR" {
		statusCode = http.StatusBadGateway
	}

	c.JSON(statusCode, response)
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:      "healthy",
		GatewayID:   h.processor.gatewayID,
		Timestamp:   time.Now(),
		SuccessRate: h.processor.successRate,
	})
}

// UpdateConfig allows changing processor configuration at runtime
func (h *Handler) UpdateConfig(c *gin.Context) {
	var config struct {
		SuccessRate *float64 `json:"success_rate"`
	}

	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if config.SuccessRate != nil {
		if *config.SuccessRate > 0 && *config.SuccessRate < 1.0 {
			h.processor.successRate = *config.SuccessRate
			log.Info().Float64("rate", *config.SuccessRate).Msg("updated success rate")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Configuration updated",
		"success_rate": h.processor.successRate,
	})
}

// SetupRouter configures all routes
func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Msg("Request processed")
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/authorize", handler.Authorize)
		v1.GET("/health", handler.HealthCheck)
		v1.PUT("/config", handler.UpdateConfig)
	}

	router.GET("/health", handler.HealthCheck)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := getEnv("PORT", "9090")
	successRate := getEnvFloat("SUCCESS_RATE", 0.60)
	minDelay := getEnvDuration("MIN_DELAY", 50*time.Millisecond)
	maxDelay := getEnvDuration("MAX_DELAY", 500*time.Millisecond)

	log.Info().
		Str("port", port).
		Float64("success_rate", successRate).
		Dur("min_delay", minDelay).
		Dur("max_delay", maxDelay).
		Msg("Starting Mock Payment Gateway")

	processor := NewMockProcessor(successRate, minDelay, maxDelay)
	handler := NewHandler(processor)
	router := SetupRouter(handler)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if _, err := fmt.Sscanf(value, "%f", &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
