package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"text-summarizer/internal/config"
	"text-summarizer/internal/domain/summary"
	"text-summarizer/internal/infra/fetcher"
	"text-summarizer/internal/infra/scraper"
	"text-summarizer/internal/infra/summarizer"
	grpcapi "text-summarizer/internal/interface/grpc"
	"text-summarizer/internal/observability/logging"
	"text-summarizer/internal/observability/tracing"
	pkgconfig "text-summarizer/internal/pkg/config"
	sumUC "text-summarizer/internal/usecase/summarize"

	hhttp "text-summarizer/internal/handler/http"
	"text-summarizer/internal/handler/http/middleware"
	"text-summarizer/internal/handler/http/pathutil"
	"text-summarizer/internal/handler/http/requestid"
	hsum "text-summarizer/internal/handler/http/summarize"

	_ "text-summarizer/docs" // swagger docs
)

// @title           Text Summarizer API
// @version         1.0
// @description     Extractive text summarization. Sentences are scored by the
// @description     frequency of their non-stopword words and the best ones are
// @description     returned in their original order.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:5000
// @BasePath  /

const serviceName = "text-summarizer-api"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	logger := initLogger()
	cfg, fetchCfg := loadConfig(logger)
	version := getVersion()

	stopwords, err := config.LoadStopwords(cfg.Summarizer.StopwordsFile)
	if err != nil {
		logger.Error("failed to load stopwords", slog.Any("error", err))
		os.Exit(1)
	}

	components := setupServer(logger, cfg, fetchCfg, stopwords, version)
	runServer(logger, cfg, components, version)
}

// initLogger initializes the structured logger from LOG_LEVEL and LOG_FORMAT.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// loadConfig reads server, summarizer and content fetch settings. Invalid
// environment values fall back to defaults with a warning; an unusable
// configuration exits.
func loadConfig(logger *slog.Logger) (*config.Config, fetcher.ContentFetchConfig) {
	collector := pkgconfig.NewCollector(pkgconfig.NewConfigMetrics("api", nil))

	cfg, err := config.Load(collector)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	fetchCfg := fetcher.LoadConfigFromEnv(collector)
	if err := fetchCfg.Validate(); err != nil {
		logger.Warn("invalid content fetch configuration, using defaults", slog.Any("error", err))
		fetchCfg = fetcher.DefaultConfig()
	}
	collector.Finish("api")

	return cfg, fetchCfg
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// ServerComponents holds what runServer needs to serve and shut down.
type ServerComponents struct {
	Handler http.Handler
	Service *sumUC.Service
	Limiter *middleware.RateLimiter
	Ready   *atomic.Bool
}

// setupServer wires the summarization service and returns the HTTP handler
// with all routes and middleware.
func setupServer(
	logger *slog.Logger,
	cfg *config.Config,
	fetchCfg fetcher.ContentFetchConfig,
	stopwords *summary.StopwordRegistry,
	version string,
) *ServerComponents {
	s := cfg.Summarizer
	mode, err := summary.ParseMode(s.DefaultMode)
	if err != nil {
		mode = summary.ModeFrequency
	}

	svcCfg := sumUC.DefaultConfig()
	svcCfg.DefaultSentences = s.DefaultSentences
	svcCfg.MaxSentences = s.MaxSentences
	svcCfg.DefaultMode = mode
	svcCfg.Language = s.Language
	svcCfg.MaxTextBytes = s.MaxTextBytes
	svcCfg.FetchThreshold = fetchCfg.Threshold

	opts := []sumUC.Option{
		sumUC.WithHTMLExtractor(fetcher.NewHTMLExtractor()),
		sumUC.WithMetrics(summarizer.NewPrometheusSummaryMetrics()),
		sumUC.WithFeedFetcher(scraper.NewRSSFetcher(nil)),
	}

	var breakers []hhttp.BreakerReporter
	if fetchCfg.Enabled {
		contentFetcher := fetcher.NewReadabilityFetcher(fetchCfg)
		opts = append(opts, sumUC.WithContentFetcher(contentFetcher))
		breakers = append(breakers, contentFetcher.CircuitBreaker())
		logger.Info("url summarization enabled",
			slog.Duration("timeout", fetchCfg.Timeout),
			slog.Int64("max_body_size", fetchCfg.MaxBodySize),
			slog.Bool("deny_private_ips", fetchCfg.DenyPrivateIPs))
	} else {
		logger.Warn("url summarization is disabled (CONTENT_FETCH_ENABLED=false)")
	}

	svc := sumUC.NewService(svcCfg, stopwords, opts...)
	logger.Info("summarizer configured",
		slog.Int("default_sentences", svcCfg.DefaultSentences),
		slog.Int("max_sentences", svcCfg.MaxSentences),
		slog.String("default_mode", string(svcCfg.DefaultMode)),
		slog.String("language", svcCfg.Language),
		slog.Any("languages", svc.Languages()))

	ready := &atomic.Bool{}

	mux := http.NewServeMux()
	hsum.Register(mux, svc)
	mux.Handle("GET /health", &hhttp.HealthHandler{Summarizer: svc, Breakers: breakers, Version: version})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{Ready: ready})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	limiter := newRateLimiter(logger, cfg.Server)

	return &ServerComponents{
		Handler: applyMiddleware(logger, cfg, mux, limiter),
		Service: svc,
		Limiter: limiter,
		Ready:   ready,
	}
}

// newRateLimiter returns the per-client limiter, or nil when RATE_LIMIT_RPS is 0.
func newRateLimiter(logger *slog.Logger, srv config.ServerConfig) *middleware.RateLimiter {
	if srv.RateLimitRPS <= 0 {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
		return nil
	}

	var ipExtractor middleware.IPExtractor = middleware.RemoteAddrExtractor{}
	if len(srv.TrustedProxies) > 0 {
		proxies, err := middleware.NewProxyAwareExtractor(srv.TrustedProxies)
		if err != nil {
			logger.Error("failed to load trusted proxy configuration", slog.Any("error", err))
			os.Exit(1)
		}
		ipExtractor = proxies
		logger.Info("rate limiting: trusting forwarding headers from proxies",
			slog.Int("trusted_proxies_count", len(proxies.Trusted())))
	} else {
		logger.Info("rate limiting: using RemoteAddr (proxy headers ignored)")
	}

	logger.Info("rate limiting initialized",
		slog.Float64("rps", srv.RateLimitRPS),
		slog.Int("burst", srv.RateLimitBurst))
	return middleware.NewRateLimiter(srv.RateLimitRPS, srv.RateLimitBurst, ipExtractor)
}

// bodyLimit leaves room for JSON escaping around MaxTextBytes of text.
func bodyLimit(maxTextBytes int) int64 {
	if maxTextBytes <= 0 {
		return 32 << 20
	}
	return int64(maxTextBytes)*2 + 64<<10
}

// applyMiddleware wraps the handler with the middleware chain.
// Order, outermost first: CORS → Request ID → Tracing → Logging → Recovery →
// Metrics → Input validation → Rate limit → Timeout → Body limit.
func applyMiddleware(logger *slog.Logger, cfg *config.Config, handler http.Handler, limiter *middleware.RateLimiter) http.Handler {
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.Server.CORSAllowedOrigins
	corsConfig.Logger = logger

	logger.Info("CORS enabled",
		slog.Any("allowed_origins", corsConfig.AllowedOrigins),
		slog.Any("allowed_methods", corsConfig.AllowedMethods),
		slog.Int("max_age", corsConfig.MaxAge))

	chain := handler

	// Apply in reverse order (innermost to outermost)
	chain = hhttp.LimitRequestBody(bodyLimit(cfg.Summarizer.MaxTextBytes))(chain)
	chain = hhttp.Timeout(cfg.Server.RequestTimeout)(chain)
	if limiter != nil {
		chain = limiter.Middleware(chain)
	}
	chain = hhttp.InputValidation()(chain)
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = tracing.Middleware(pathutil.RouteName)(chain)
	chain = requestid.Middleware(chain)
	chain = middleware.CORS(corsConfig)(chain)

	return chain
}

// startGRPC serves the gRPC API on GRPC_PORT when it is set. The returned
// health server is nil when gRPC is disabled.
func startGRPC(logger *slog.Logger, port int, svc *sumUC.Service) (*grpc.Server, *health.Server) {
	if port == 0 {
		return nil, nil
	}

	addr := ":" + strconv.Itoa(port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("failed to listen for gRPC", slog.String("addr", addr), slog.Any("error", err))
		os.Exit(1)
	}

	srv, hs := grpcapi.NewServer(svc, logger)
	go func() {
		logger.Info("gRPC server starting", slog.String("addr", addr))
		if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.Error("gRPC server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()
	return srv, hs
}

// runServer starts the servers and handles graceful shutdown.
func runServer(logger *slog.Logger, cfg *config.Config, components *ServerComponents, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing := tracing.Setup(serviceName, cfg.Server.TracingEnabled, logger)

	if components.Limiter != nil {
		go components.Limiter.RunCleanup(ctx, time.Minute, 10*time.Minute)
		logger.Info("rate limit cleanup started", slog.Duration("interval", time.Minute))
	}

	grpcServer, grpcHealth := startGRPC(logger, cfg.Server.GRPCPort, components.Service)

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()
	components.Ready.Store(true)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	components.Ready.Store(false)
	if grpcHealth != nil {
		grpcHealth.Shutdown()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	cancel()
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracer shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}

