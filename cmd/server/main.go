package main // Entry point package

import (
	"context"
	"database/sql"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/pwalcz/cinema-ticket-booking/internal/booking"
	"github.com/pwalcz/cinema-ticket-booking/internal/config"
	"github.com/pwalcz/cinema-ticket-booking/internal/database"
	"github.com/pwalcz/cinema-ticket-booking/internal/handler"
	"github.com/pwalcz/cinema-ticket-booking/internal/queue"
	"github.com/pwalcz/cinema-ticket-booking/internal/repository"
	"github.com/pwalcz/cinema-ticket-booking/internal/router"
	"github.com/pwalcz/cinema-ticket-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment
	cfg := config.Load()
	ctx := context.Background()

	// one global database for accounts, one database per region for
	// everything bookable
	global, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBNameGlobal)
	if err != nil {
		log.Fatalf("open global db: %v", err)
	}
	if err := database.MigrateGlobal(ctx, global); err != nil {
		log.Fatalf("migrate global db: %v", err)
	}

	dbs := database.NewRegions(global, openRegions(ctx, cfg))
	defer func() { _ = dbs.Close() }()

	publisher := service.NewQueuePublisher(queue.BrokerURL())
	clock := booking.SystemClock{}

	services := make(handler.RegionServices, len(cfg.Regions))
	regionals := make([]*booking.Service, 0, len(cfg.Regions))
	for _, region := range cfg.Regions {
		db, err := dbs.Local(region)
		if err != nil {
			log.Fatalf("region %s: %v", region, err)
		}
		s := booking.NewService(region, db, clock, publisher)
		services[region] = s
		regionals = append(regionals, s)
	}

	// background workers: hold reclaimer sweeping every region plus the
	// event consumer writing booking logs
	reclaimer := booking.NewReclaimer(regionals, cfg.ReclaimInterval, clock)
	go reclaimer.Run(ctx)
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	h := router.Handlers{
		Auth:        handler.NewAuthHandler(repository.NewUserRepo(global), cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost),
		Movie:       handler.NewMovieHandler(services),
		Hall:        handler.NewHallHandler(services),
		Show:        handler.NewShowHandler(services),
		Reservation: handler.NewReservationHandler(services),
		Payment:     handler.NewPaymentHandler(services),
	}

	e := echo.New()
	router.Register(e, h, cfg, config.NewRedisClient())

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, regions=%v)", addr, cfg.Env, cfg.Regions)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// openRegions connects to and migrates every configured regional
// database, exiting on the first failure.
func openRegions(ctx context.Context, cfg config.Config) map[string]*sql.DB {
	local := make(map[string]*sql.DB, len(cfg.Regions))
	for _, region := range cfg.Regions {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.RegionDBNames[region])
		if err != nil {
			log.Fatalf("open %s db: %v", region, err)
		}
		if err := database.MigrateLocal(ctx, db); err != nil {
			log.Fatalf("migrate %s db: %v", region, err)
		}
		local[region] = db
	}
	return local
}
