package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/flashbot/internal/config"
	"github.com/example/flashbot/internal/database"
	"github.com/example/flashbot/internal/notify"
	"github.com/example/flashbot/internal/review"
	"github.com/example/flashbot/internal/scheduler"
	"github.com/example/flashbot/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg := config.Load()

	// Подключаемся к базе данных
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	cards := database.NewCardRepository(db)
	users := database.NewUserRepository(db)
	reviews := review.NewService(cards)

	// Review reminders run only when a bot token is configured
	var sched *scheduler.Scheduler
	if cfg.TelegramToken != "" {
		notifier, err := notify.NewTelegram(cfg.TelegramToken, cfg.AppURL)
		if err != nil {
			log.Fatalf("Failed to create telegram notifier: %v", err)
		}
		sched = scheduler.New(notifier, users, cards, cfg.NotificationHour)
		sched.Start()
		defer sched.Stop()
	} else {
		log.Println("TELEGRAM_BOT_TOKEN is not set, review reminders are disabled")
	}

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: web.NewServer(reviews, sched, cfg.SchedulerSecret),
	}

	// Канал для сигналов завершения
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	sig := <-sigChan
	log.Printf("Received signal: %v", sig)

	// Даем время на graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped")
}
