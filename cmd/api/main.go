package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-gudang-ws/internal/handler"
	"go-gudang-ws/internal/middleware"
	"go-gudang-ws/internal/model"
	"go-gudang-ws/internal/notify"
	"go-gudang-ws/internal/registry"
	"go-gudang-ws/internal/repository"
	"go-gudang-ws/internal/service"
	"go-gudang-ws/internal/ws"
	"go-gudang-ws/pkg/database"
	"go-gudang-ws/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	log := logger.Must(logger.New())
	defer log.Sync()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Warn(".env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Supplier{},
		&model.CanonicalItem{},
		&model.IncomingTransaction{},
		&model.OutgoingTransaction{},
		&model.StockOpname{},
	)

	// 3. Notification broker + WebSocket hub
	broker := notify.NewBroker()
	wsHub := ws.NewHub(broker, logger.Named(log, "ws"))
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	itemRepo := repository.NewItemRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	incomingRepo := repository.NewIncomingRepo(db)
	outgoingRepo := repository.NewOutgoingRepo(db)
	opnameRepo := repository.NewOpnameRepo(db)

	reg := registry.New(itemRepo)
	stockSvc := service.NewStockService(incomingRepo, outgoingRepo, broker, logger.Named(log, "stock"))
	ledgerSvc := service.NewLedgerService(incomingRepo, outgoingRepo, supplierRepo, reg, stockSvc, logger.Named(log, "ledger"))
	opnameSvc := service.NewOpnameService(opnameRepo, reg, stockSvc)
	dashSvc := service.NewDashboardService(incomingRepo, outgoingRepo, itemRepo, opnameRepo, stockSvc)

	ledgerHandler := handler.NewLedgerHandler(ledgerSvc)
	stockHandler := handler.NewStockHandler(stockSvc)
	opnameHandler := handler.NewOpnameHandler(opnameSvc)
	supplierHandler := handler.NewSupplierHandler(supplierRepo)
	dashHandler := handler.NewDashboardHandler(dashSvc)
	authHandler := handler.NewAuthHandler()

	// 5. Prime the aggregate view from the ledger
	if err := stockSvc.RecomputeAll(); err != nil {
		log.Error("initial stock recompute failed", zap.Error(err))
	}

	// 6. Periodic cross-check sweep: full recompute repairs any view drift
	// left by recompute failures and logs bucket-sum mismatches.
	sweep := cron.New()
	sweep.AddFunc("@every 10m", func() {
		if err := stockSvc.RecomputeAll(); err != nil {
			log.Error("stock sweep failed", zap.Error(err))
		}
	})
	sweep.Start()

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Gudang Bahan Baku v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// 8. Routes
	api := app.Group("/api/v1")

	// Dev-only token mint; real deployments receive tokens from the
	// external identity provider.
	api.Post("/auth/token", authHandler.IssueToken)

	protected := api.Group("", middleware.RequireAuth())

	protected.Get("/suppliers", supplierHandler.GetSuppliers)
	protected.Get("/suppliers/:id", supplierHandler.GetSupplier)

	protected.Post("/incoming", ledgerHandler.CreateIncoming)
	protected.Get("/incoming", ledgerHandler.GetIncoming)
	protected.Put("/incoming/:id", ledgerHandler.UpdateIncoming)
	protected.Delete("/incoming/:id", ledgerHandler.DeleteIncoming)
	protected.Post("/incoming/import", ledgerHandler.ImportIncoming)

	protected.Post("/outgoing", ledgerHandler.CreateOutgoing)
	protected.Get("/outgoing", ledgerHandler.GetOutgoing)
	protected.Put("/outgoing/:id", ledgerHandler.UpdateOutgoing)
	protected.Delete("/outgoing/:id", ledgerHandler.DeleteOutgoing)
	protected.Post("/outgoing/import", ledgerHandler.ImportOutgoing)

	protected.Get("/stock", stockHandler.GetStock)
	protected.Get("/stock/items", stockHandler.GetItems)

	protected.Post("/opname", opnameHandler.CreateOpname)
	protected.Get("/opname", opnameHandler.GetOpnames)
	protected.Get("/opname/:id", opnameHandler.GetOpname)
	protected.Put("/opname/:id", opnameHandler.UpdateOpname)

	protected.Get("/dashboard/stats", dashHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", dashHandler.GetStockMovement)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- ws.Registration{Conn: c, Item: c.Query("item")}
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	sweep.Stop()
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	broker.Close()

	log.Info("Server exited")
}
