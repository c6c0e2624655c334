package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	billingapp "tariff-engine/internal/billing/application"
	billingrepo "tariff-engine/internal/billing/infrastructure/postgres"
	billinghttp "tariff-engine/internal/billing/interfaces/http"
	"tariff-engine/internal/observability/metrics"
	telemetryrepo "tariff-engine/internal/telemetry/infrastructure/postgres"
	topologyapp "tariff-engine/internal/topology/application"
	topologyrepo "tariff-engine/internal/topology/infrastructure/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	engineCfg, err := billingapp.LoadConfig()
	if err != nil {
		logger.Fatalf("engine config error: %v", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	metrics.Init()

	nodeRepo := topologyrepo.NewNodeRepository(db)
	telemetryQuery := telemetryrepo.NewTelemetryQuery(db)
	configRepo := billingrepo.NewConfigRepository(db)
	rateRepo := billingrepo.NewRateRepository(db)

	resolver, err := topologyapp.NewResolver(
		nodeRepo,
		telemetryQuery,
		telemetryQuery,
		topologyapp.WithFanOutLimit(engineCfg.FanOutLimit),
		topologyapp.WithLogger(logger),
	)
	if err != nil {
		logger.Fatalf("resolver error: %v", err)
	}

	billService, err := billingapp.NewBillService(
		resolver,
		configRepo,
		rateRepo,
		billingapp.WithCurrency(engineCfg.Currency),
		billingapp.WithLogger(logger),
	)
	if err != nil {
		logger.Fatalf("bill service error: %v", err)
	}

	billsHandler, err := billinghttp.NewBillsHandler(billService)
	if err != nil {
		logger.Fatalf("bills handler error: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/v1/bills/compute", billsHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(mux, logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL string
	HTTPAddr    string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
