package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tutravel/intake-bot/internal/entity"
	"github.com/tutravel/intake-bot/internal/infra/database"
	"github.com/tutravel/intake-bot/internal/infra/http/handlers"
	"github.com/tutravel/intake-bot/internal/infra/http/middleware"
	"github.com/tutravel/intake-bot/internal/infra/integration/hubspot"
	"github.com/tutravel/intake-bot/internal/infra/integration/whatsapp"
	"github.com/tutravel/intake-bot/internal/infra/mail"
	"github.com/tutravel/intake-bot/internal/infra/queue"
	"github.com/tutravel/intake-bot/internal/infra/session"
	"github.com/tutravel/intake-bot/internal/routing"
	"github.com/tutravel/intake-bot/internal/usecase"
)

func main() {
	godotenv.Load()

	ownerRouting := routing.DefaultConfig(os.Getenv("DEFAULT_OWNER_EMAIL"))

	// 1. Session store: Redis when configured, otherwise in-memory.
	var store entity.SessionStoreInterface
	var redisStore *session.RedisStore
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rs, err := session.NewRedisStore(addr, os.Getenv("REDIS_PASSWORD"), 0)
		if err != nil {
			log.Fatalf("❌ Redis: %v", err)
		}
		defer rs.Close()
		redisStore = rs
		store = rs
		log.Println("✅ Sessions: Redis store")
	} else {
		store = session.NewMemoryStore()
		log.Println("✅ Sessions: in-memory store")
	}

	// 2. Lead repository (optional)
	var db *sql.DB
	var leadRepo entity.LeadRepositoryInterface
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		conn, err := database.NewDBConnection(dsn)
		if err != nil {
			log.Fatalf("❌ Postgres: %v", err)
		}
		defer conn.Close()
		db = conn
		leadRepo = database.NewLeadRepository(conn)
	}

	// 3. Handoff queue + worker (optional)
	var producer usecase.QueueProducerInterface
	var rabbitConn *amqp.Connection
	if host := os.Getenv("RABBITMQ_HOST"); host != "" {
		rabbitMQ, err := queue.NewRabbitMQ(
			os.Getenv("RABBITMQ_USER"), os.Getenv("RABBITMQ_PASS"),
			host, os.Getenv("RABBITMQ_PORT"),
		)
		if err != nil {
			log.Fatalf("❌ RabbitMQ: %v", err)
		}
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()
		rabbitConn = rabbitMQ.Conn
		producer = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

		var notifier queue.HandoffNotifier
		if os.Getenv("MAIL_HOST") != "" {
			notifier = mail.NewEmailSender(
				os.Getenv("MAIL_HOST"), 587, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
			)
		}
		worker := queue.NewWorker(rabbitMQ.Ch, notifier)
		go worker.Start(queue.QueueName)
	}

	// 4. Integrations
	crm := hubspot.NewClient(hubspot.Options{
		Token:   os.Getenv("HUBSPOT_TOKEN"),
		BaseURL: os.Getenv("HUBSPOT_BASE_URL"),
		Routing: ownerRouting,
	})
	messenger := whatsapp.NewClient()

	// 5. UseCase
	conversationUC := usecase.NewConversationUseCase(store, crm, leadRepo, producer, ownerRouting)
	conversationUC.StrictPartySize = os.Getenv("STRICT_PAX") == "true"

	// 6. Handlers
	webhookHandler := handlers.NewWebhookHandler(conversationUC, messenger, os.Getenv("WHATSAPP_VERIFY_TOKEN"))
	healthHandler := handlers.NewHealthHandler(db, rabbitConn, redisPinger(redisStore))

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	r.Get("/whatsapp/webhook", webhookHandler.HandleVerify)
	r.Post("/whatsapp/webhook", webhookHandler.Handle)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🔥 Intake bot listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}

// redisPinger keeps the health handler's Pinger nil when Redis is off.
// (A typed nil *RedisStore inside the interface would not compare to nil.)
func redisPinger(rs *session.RedisStore) handlers.Pinger {
	if rs == nil {
		return nil
	}
	return rs
}
