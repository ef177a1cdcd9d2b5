package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/hu6r1s/tickitecking/internal/config"
	"github.com/hu6r1s/tickitecking/internal/database"
	"github.com/hu6r1s/tickitecking/internal/handler"
	"github.com/hu6r1s/tickitecking/internal/lock"
	"github.com/hu6r1s/tickitecking/internal/queue"
	"github.com/hu6r1s/tickitecking/internal/repository"
	"github.com/hu6r1s/tickitecking/internal/router"
	"github.com/hu6r1s/tickitecking/internal/service"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// The claim store is load-bearing: without it concurrent reserves
	// on one seat cannot be serialized, so refuse to start.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis: claim store unavailable")
	}
	defer rdb.Close()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	concertRepo := repository.NewConcertRepo(db)
	auditoriumRepo := repository.NewAuditoriumRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	claims := lock.NewClaimStore(rdb, cfg.ClaimTTL)
	publisher := queue.NewPublisher()

	reservationSvc := service.NewReservationService(claims, seatRepo, reservationRepo, concertRepo, publisher)
	concertSvc := service.NewConcertService(concertRepo, auditoriumRepo, seatRepo, reservationRepo)

	authHandler := handler.NewAuthHandler(userRepo, tokenRepo, cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays, cfg.BcryptCost)
	reservationHandler := handler.NewReservationHandler(reservationSvc)
	concertHandler := handler.NewConcertHandler(concertSvc)

	// Background consumer writing confirmed reservations to the audit
	// log.  It reconnects on its own; a dead broker never blocks the
	// HTTP path because publishing is best-effort.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler)
	router.RegisterPublic(e, concertHandler, reservationHandler)
	router.RegisterUser(e, reservationHandler, cfg.JWTSecret)
	router.RegisterCompany(e, concertHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
