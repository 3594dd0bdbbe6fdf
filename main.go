package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/config"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/access"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/consumer"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/handler"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/job"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/middleware"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/notify"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/occupancy"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/pricing"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/repository"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/service"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/validation"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/pkg/database"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/pkg/lock"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/pkg/logging"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/pkg/mailer"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		db  *gorm.DB
		err error
	)
	if cfg.DBDriver == "sqlite" {
		db, err = database.NewSQLiteDB(cfg.DBName + ".db")
	} else {
		db, err = database.NewPostgresDB(cfg.DSN())
	}
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}

	// Repositories
	roomRepo := repository.NewRoomRepository(db)
	guestRepo := repository.NewGuestRepository(db)
	orderRepo := repository.NewHotelOrderRepository(db)
	hotelRepo := repository.NewHotelRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)

	reconciler := occupancy.NewReconciler(roomRepo, guestRepo, orderRepo, log)
	calc := pricing.NewCalculator(cfg.Location, cfg.MaxStayNights)

	// Booking e-mails go through the broker when it is reachable.
	var notifier notify.Notifier = notify.Noop{}
	var queueNotifier *notify.QueueNotifier
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.WithError(err).Warn("rabbitmq unavailable, notifications disabled")
	} else {
		defer publisher.Close()
		queueNotifier = notify.NewQueueNotifier(publisher, log)
		notifier = queueNotifier
	}

	deps := service.Deps{
		DB:         db,
		Rooms:      roomRepo,
		Guests:     guestRepo,
		Orders:     orderRepo,
		Hotels:     hotelRepo,
		Warehouse:  warehouseRepo,
		Reconciler: reconciler,
		Calculator: calc,
		Notifier:   notifier,
		Log:        log,
		MaxRetries: cfg.TxMaxRetries,
	}
	hotelSvc := service.NewHotelService(deps)
	roomSvc := service.NewRoomService(deps)
	guestSvc := service.NewGuestService(deps)
	orderSvc := service.NewHotelOrderService(deps)
	warehouseSvc := service.NewWarehouseService(deps)

	if publisher != nil {
		startConsumers(ctx, cfg, log, warehouseSvc)
	}

	sweep := job.NewReconciliation(job.Deps{
		DB:         db,
		Rooms:      roomRepo,
		Guests:     guestRepo,
		Orders:     orderRepo,
		Reconciler: reconciler,
		Calculator: calc,
		Log:        log,
		LockTTL:    cfg.ReconcileLockTTL,
	})
	if client := lock.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); client != nil {
		defer client.Close()
		sweep.Locker = lock.NewRedisLocker(client)
	} else {
		log.Info("redis not configured, reconciliation runs without a distributed lock")
	}
	scheduler, err := sweep.Schedule(ctx, cfg.ReconcileInterval)
	if err != nil {
		log.WithError(err).Fatal("failed to schedule reconciliation")
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.EchoValidator{}
	e.HTTPErrorHandler = middleware.ErrorHandler(log)
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "catering"})
	})

	api := e.Group("/api/v1", middleware.JWTAuth(cfg.JWTSecret))

	hotel := api.Group("/hotel", middleware.RequireDepartment(cfg.JWTSecret, access.DepartmentHotel))
	handler.NewHotelHandler(hotelSvc).RegisterRoutes(hotel)
	handler.NewRoomHandler(roomSvc).RegisterRoutes(hotel)
	handler.NewGuestHandler(guestSvc).RegisterRoutes(hotel)
	orders := handler.NewHotelOrderHandler(orderSvc)
	orders.RegisterRoutes(hotel)
	handler.NewReconciliationHandler(sweep, nil).RegisterRoutes(hotel)

	warehouse := api.Group("/warehouse", middleware.RequireDepartment(cfg.JWTSecret, access.DepartmentWarehouse))
	handler.NewWarehouseHandler(warehouseSvc).RegisterRoutes(warehouse)

	finance := api.Group("/finance", middleware.RequireDepartment(cfg.JWTSecret, access.DepartmentFinance))
	orders.RegisterFinanceRoutes(finance)

	go func() {
		log.WithField("port", cfg.ServerPort).Info("catering service starting")
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	if err := scheduler.Shutdown(); err != nil {
		log.WithError(err).Warn("scheduler shutdown")
	}
	if queueNotifier != nil {
		queueNotifier.Wait()
	}
}

// startConsumers attaches the SMTP delivery and stock cascade workers to their
// queues. A consumer that cannot connect is logged and skipped.
func startConsumers(ctx context.Context, cfg config.Config, log *logrus.Logger, stock consumer.StockCascader) {
	notifications, err := rabbitmq.NewNotificationConsumer(cfg.RabbitURL)
	if err != nil {
		log.WithError(err).Warn("notification consumer unavailable")
	} else if msgs, err := notifications.Consume(); err != nil {
		log.WithError(err).Warn("notification consume failed")
		notifications.Close()
	} else {
		mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
		consumer.NewNotificationConsumer(mail, log).Start(ctx, msgs)
		go closeOnDone(ctx, notifications)
	}

	warehouse, err := rabbitmq.NewWarehouseConsumer(cfg.RabbitURL)
	if err != nil {
		log.WithError(err).Warn("warehouse consumer unavailable")
	} else if msgs, err := warehouse.Consume(); err != nil {
		log.WithError(err).Warn("warehouse consume failed")
		warehouse.Close()
	} else {
		consumer.NewWarehouseConsumer(stock, log).Start(ctx, msgs)
		go closeOnDone(ctx, warehouse)
	}
}

func closeOnDone(ctx context.Context, c *rabbitmq.Consumer) {
	<-ctx.Done()
	c.Close()
}
