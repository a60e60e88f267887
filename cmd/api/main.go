package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/membersync/internal/infra/cache"
	"github.com/xavierca1/membersync/internal/infra/http/handlers"
	"github.com/xavierca1/membersync/internal/infra/http/middleware"
	"github.com/xavierca1/membersync/internal/infra/mail"
	"github.com/xavierca1/membersync/internal/infra/queue"
	"github.com/xavierca1/membersync/internal/infra/records"
	"github.com/xavierca1/membersync/internal/infra/recordstore"
	"github.com/xavierca1/membersync/internal/usecase"
)

func main() {
	godotenv.Load()

	// 1. Record store client (the sole gateway to the external store)
	store := recordstore.NewClient(recordstore.Config{
		BaseURL:    os.Getenv("RECORD_STORE_URL"),
		Token:      os.Getenv("RECORD_STORE_TOKEN"),
		RatePerSec: envFloat("RECORD_STORE_RATE", 5),
	})

	// 2. Typed repositories over the store
	memberRepo := records.NewMemberRepository(store)
	volunteerRepo := records.NewVolunteerRepository(store)
	assignmentRepo := records.NewAssignmentRepository(store)
	attendanceRepo := records.NewAttendanceRepository(store)
	linkRepo := records.NewLinkRepository(store)

	// 3. Cache backing: Postgres when configured, in-memory otherwise
	var kv cache.KV
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		pg := cache.NewPostgresKV(db)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			log.Fatal(err)
		}
		kv = pg
	} else {
		log.Println("DATABASE_URL not set, using in-memory cache store")
		kv = cache.NewMemoryKV()
	}
	reportCache := cache.New(kv, 0)

	// 4. Notification side channels (both optional, both best-effort)
	var notifier usecase.NotificationProducerInterface
	if host := os.Getenv("RABBITMQ_HOST"); host != "" {
		rmq, err := queue.NewRabbitMQ(
			os.Getenv("RABBITMQ_USER"), os.Getenv("RABBITMQ_PASS"),
			host, envOr("RABBITMQ_PORT", "5672"),
		)
		if err != nil {
			log.Fatal(err)
		}
		defer rmq.Conn.Close()
		defer rmq.Ch.Close()
		notifier = queue.NewProducer(rmq.Conn, rmq.Ch)
	}

	var alerts usecase.AlertSenderInterface
	if host := os.Getenv("MAIL_HOST"); host != "" {
		alerts = mail.NewAlertSender(
			host, envInt("MAIL_PORT", 587),
			os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
			envOr("MAIL_FROM", "no-reply@membersync.local"),
			os.Getenv("OPS_EMAIL"),
		)
	}

	// 5. Use cases
	createUC := usecase.NewCreateMemberUseCase(memberRepo)
	mergeUC := usecase.NewMergeMembersUseCase(memberRepo, linkRepo)
	markUC := usecase.NewMarkAttendanceUseCase(attendanceRepo)
	assignUC := usecase.NewAssignFollowUpUseCase(
		assignmentRepo, volunteerRepo, memberRepo, notifier, alerts,
		envInt("FOLLOWUP_DUE_DAYS", usecase.DefaultDueInDays),
	)
	reportUC := usecase.NewReportUseCase(reportCache, memberRepo, 0)

	// 6. Handlers
	intakeHandler := handlers.NewIntakeHandler(createUC, mergeUC, assignUC)
	attendanceHandler := handlers.NewAttendanceHandler(markUC)
	reportHandler := handlers.NewReportHandler(reportUC)
	healthHandler := handlers.NewHealthHandler()

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Post("/intake", intakeHandler.Handle)
	r.Post("/members/merge", intakeHandler.HandleMerge)
	r.Post("/followups/rebalance", intakeHandler.HandleRebalance)
	r.Post("/attendance", attendanceHandler.Handle)
	r.Get("/reports/kpis", reportHandler.HandleGetKPIs)
	r.Post("/reports/kpis/refresh", reportHandler.HandleRefreshKPIs)
	r.Delete("/reports/cache", reportHandler.HandleInvalidate)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":" + envOr("PORT", "8080")
	log.Printf("membersync API listening on %s", port)
	http.ListenAndServe(port, r)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
