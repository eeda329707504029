package routes

import (
	"time"

	"site-ops-api-server/config"
	"site-ops-api-server/internal/api/handlers"
	"site-ops-api-server/internal/api/middleware"
	"site-ops-api-server/internal/logger"
	"site-ops-api-server/internal/s3"
	"site-ops-api-server/internal/socket"
	"site-ops-api-server/internal/warehouse"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SetupRouter wires every handler into the route tree.
func SetupRouter(
	cfg config.Config,
	db *mongo.Database,
	warehouseService *warehouse.Service,
	stockLedger warehouse.StockLedger,
	s3Uploader *s3.Uploader,
	wsHub *socket.Hub,
	log *zap.Logger,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinMiddleware(log))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	userHandler := &handlers.UserHandler{DB: db, Cfg: cfg}
	requestHandler := &handlers.RequestHandler{Service: warehouseService, Hub: wsHub, Log: log}
	stockHandler := &handlers.StockHandler{Service: warehouseService, Ledger: stockLedger}
	vehicleHandler := &handlers.VehicleHandler{DB: db, Uploader: s3Uploader}
	siteHandler := &handlers.SiteHandler{DB: db}
	leaveHandler := &handlers.LeaveHandler{DB: db}
	financeHandler := &handlers.FinanceHandler{DB: db}
	ticketHandler := &handlers.TicketHandler{DB: db}
	safetyHandler := &handlers.SafetyHandler{DB: db, Uploader: s3Uploader}
	assetHandler := &handlers.AssetHandler{DB: db}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub, Log: log}

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", userHandler.Login)
		}

		// Administration: user and site management.
		admin := apiV1.Group("/admin")
		admin.Use(middleware.Authenticate())
		admin.Use(middleware.Authorize("admin"))
		{
			admin.POST("/users", userHandler.CreateUser)

			sites := admin.Group("/sites")
			{
				sites.POST("/", siteHandler.CreateSite)
				sites.PUT("/:id", siteHandler.UpdateSite)
			}
		}

		// Everything below requires a valid token.
		protected := apiV1.Group("/")
		protected.Use(middleware.Authenticate())
		{
			protected.GET("/employees", userHandler.GetEmployeeDirectory)
			protected.GET("/sites", siteHandler.GetAllSites)
			protected.GET("/sites/:id", siteHandler.GetSiteByID)

			// Material request lifecycle. Anyone can submit and read;
			// approval and issuing are role-gated per action.
			requests := protected.Group("/material-requests")
			{
				requests.POST("/", requestHandler.CreateMaterialRequest)
				requests.GET("/my", requestHandler.GetMyMaterialRequests)
				requests.GET("/:id", requestHandler.GetMaterialRequestByID)

				managerView := requests.Group("/")
				managerView.Use(middleware.Authorize("admin", "manager", "warehouse"))
				{
					managerView.GET("/", requestHandler.GetAllMaterialRequests)
				}

				decisions := requests.Group("/")
				decisions.Use(middleware.Authorize("admin", "manager"))
				{
					decisions.PUT("/:id/approve", requestHandler.ApproveMaterialRequest)
					decisions.PUT("/:id/reject", requestHandler.RejectMaterialRequest)
				}

				fulfillment := requests.Group("/")
				fulfillment.Use(middleware.Authorize("admin", "warehouse"))
				{
					fulfillment.PUT("/:id/issue", requestHandler.IssueMaterialRequest)
				}
			}

			// Warehouse stock.
			stock := protected.Group("/stock")
			{
				stock.GET("/", stockHandler.GetAllStockItems)
				stock.GET("/:id", stockHandler.GetStockItemByID)

				stockWrites := stock.Group("/")
				stockWrites.Use(middleware.Authorize("admin", "warehouse"))
				{
					stockWrites.POST("/", stockHandler.CreateStockItem)
					stockWrites.PUT("/:id/restock", stockHandler.RestockItem)
					stockWrites.PUT("/:id/adjust", stockHandler.AdjustStock)
				}
			}

			metrics := protected.Group("/metrics")
			metrics.Use(middleware.Authorize("admin", "manager", "warehouse"))
			{
				metrics.GET("/warehouse", stockHandler.GetWarehouseMetrics)
			}

			// Fleet.
			vehicles := protected.Group("/vehicles")
			{
				vehicles.GET("/", vehicleHandler.GetAllVehicles)
				vehicles.GET("/:id", vehicleHandler.GetVehicleByID)

				vehicleWrites := vehicles.Group("/")
				vehicleWrites.Use(middleware.Authorize("admin", "manager"))
				{
					vehicleWrites.POST("/", vehicleHandler.CreateVehicle)
					vehicleWrites.PUT("/:id/status", vehicleHandler.UpdateVehicleStatus)
					vehicleWrites.POST("/:id/registration-doc", vehicleHandler.UploadRegistrationDoc)
				}
			}

			// Leave requests.
			leave := protected.Group("/leave-requests")
			{
				leave.POST("/", leaveHandler.CreateLeaveRequest)
				leave.GET("/my", leaveHandler.GetMyLeaveRequests)

				leaveDecisions := leave.Group("/")
				leaveDecisions.Use(middleware.Authorize("admin", "manager"))
				{
					leaveDecisions.GET("/", leaveHandler.GetAllLeaveRequests)
					leaveDecisions.PUT("/:id/approve", leaveHandler.ApproveLeaveRequest)
					leaveDecisions.PUT("/:id/reject", leaveHandler.RejectLeaveRequest)
				}
			}

			// Finance requests.
			finance := protected.Group("/finance-requests")
			{
				finance.POST("/", financeHandler.CreateFinanceRequest)
				finance.GET("/my", financeHandler.GetMyFinanceRequests)

				financeDecisions := finance.Group("/")
				financeDecisions.Use(middleware.Authorize("admin", "manager"))
				{
					financeDecisions.GET("/", financeHandler.GetAllFinanceRequests)
					financeDecisions.PUT("/:id/approve", financeHandler.ApproveFinanceRequest)
					financeDecisions.PUT("/:id/reject", financeHandler.RejectFinanceRequest)
				}
			}

			// IT tickets.
			tickets := protected.Group("/it-tickets")
			{
				tickets.POST("/", ticketHandler.CreateTicket)
				tickets.GET("/my", ticketHandler.GetMyTickets)

				ticketOps := tickets.Group("/")
				ticketOps.Use(middleware.Authorize("admin", "it"))
				{
					ticketOps.GET("/", ticketHandler.GetAllTickets)
					ticketOps.PUT("/:id/assign", ticketHandler.AssignTicket)
					ticketOps.PUT("/:id/resolve", ticketHandler.ResolveTicket)
				}
			}

			// Safety reports.
			safety := protected.Group("/safety-reports")
			{
				safety.POST("/", safetyHandler.CreateSafetyReport)
				safety.POST("/:id/photos", safetyHandler.UploadIncidentPhoto)

				safetyOps := safety.Group("/")
				safetyOps.Use(middleware.Authorize("admin", "manager", "supervisor"))
				{
					safetyOps.GET("/", safetyHandler.GetAllSafetyReports)
					safetyOps.PUT("/:id/close", safetyHandler.CloseSafetyReport)
				}
			}

			// IT assets.
			assets := protected.Group("/it-assets")
			assets.Use(middleware.Authorize("admin", "it"))
			{
				assets.POST("/", assetHandler.CreateAsset)
				assets.GET("/", assetHandler.GetAllAssets)
				assets.PUT("/:id/assign", assetHandler.AssignAsset)
				assets.PUT("/:id/unassign", assetHandler.UnassignAsset)
			}
		}
	}

	return router
}
