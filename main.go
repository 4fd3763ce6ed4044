package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"serendib/cache"
	"serendib/controllers"
	"serendib/mailer"
	"serendib/utils"

	"github.com/go-michi/michi"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/handlers"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	controllers.SetLogger(sugar)

	connStr := os.Getenv("DATABASE_CONNECTION_STR")
	if connStr == "" {
		sugar.Fatal("DATABASE_CONNECTION_STR not set in .env file")
	}
	if os.Getenv("JWT_SECRET") == "" {
		sugar.Fatal("JWT_SECRET not set in .env file")
	}

	// Connect to the database
	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		sugar.Fatal(utils.ErrorWithTrace(err, err.Error()))
	}
	defer db.Close()
	controllers.SetDB(db)

	// Handle migrations
	mig, err := migrate.New(
		"file://"+GetRootPath("database/migrations"),
		connStr,
	)
	if err != nil {
		sugar.Fatal(utils.ErrorWithTrace(err, err.Error()))
	}
	if err := mig.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			sugar.Fatal(utils.ErrorWithTrace(err, err.Error()))
		}
		sugar.Infof("migrations: %s", err.Error())
	}

	// Outbound mail
	smtpMailer := mailer.NewSMTPMailer(
		os.Getenv("SMTP_HOST"),
		os.Getenv("SMTP_PORT"),
		os.Getenv("SMTP_USERNAME"),
		os.Getenv("SMTP_PASSWORD"),
		os.Getenv("EMAIL_ADDRESS"),
	)
	controllers.SetMailer(smtpMailer)

	// Report cache is optional; without REDIS_ADDR reports hit the database.
	reportCache := cache.New(os.Getenv("REDIS_ADDR"), 5*time.Minute)
	controllers.SetReportCache(reportCache)
	defer reportCache.Close()

	// Initialize the router and define routes
	r := michi.NewRouter()
	r.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))))

	r.Route("/api/auth", func(sub *michi.Router) {
		sub.HandleFunc("POST signup", controllers.Signup)
		sub.HandleFunc("POST signin", controllers.Signin)
		sub.HandleFunc("POST google", controllers.GoogleAuth)
		sub.HandleFunc("POST create-staff-account", controllers.CreateStaffAccount)
	})

	r.Route("/api/user", func(sub *michi.Router) {
		sub.HandleFunc("POST signout", controllers.Signout)
		sub.HandleFunc("POST add-reservation", controllers.AddReservation)
		sub.HandleFunc("POST add-query", controllers.AddQuery)
	})

	r.Route("/api/admin", func(sub *michi.Router) {
		sub.HandleFunc("POST add-category", controllers.AddCategory)
		sub.HandleFunc("GET get-categories", controllers.GetCategories)
		sub.HandleFunc("PUT update-category/{id}", controllers.UpdateCategory)
		sub.HandleFunc("DELETE delete-category/{id}", controllers.DeleteCategory)
		sub.HandleFunc("GET get-category-counts", controllers.GetCategoryCounts)

		sub.HandleFunc("POST add-menu", controllers.AddMenu)
		sub.HandleFunc("GET get-menu", controllers.GetMenu)
		sub.HandleFunc("GET get-menu-category/{categoryId}", controllers.GetMenuByCategory)
		sub.HandleFunc("PUT update-menu/{id}", controllers.UpdateMenu)
		sub.HandleFunc("DELETE delete-menu/{id}", controllers.DeleteMenu)

		sub.HandleFunc("POST add-image", controllers.AddImage)
		sub.HandleFunc("POST upload-image", controllers.UploadImage)
		sub.HandleFunc("GET get-images", controllers.GetImages)
		sub.HandleFunc("DELETE delete-image/{id}", controllers.DeleteImage)

		sub.HandleFunc("GET get-reservations", controllers.GetReservations)
		sub.HandleFunc("PUT confirm-reservation/{id}", controllers.ConfirmReservation)
		sub.HandleFunc("PUT reject-reservation/{id}", controllers.RejectReservation)

		sub.HandleFunc("GET get-queries", controllers.GetQueries)
		sub.HandleFunc("DELETE delete-query/{id}", controllers.DeleteQuery)
		sub.HandleFunc("PUT reply-query/{id}", controllers.ReplyQuery)

		sub.HandleFunc("POST add-offer", controllers.AddOffer)
		sub.HandleFunc("GET get-offers", controllers.GetOffers)
		sub.HandleFunc("PUT update-offer/{id}", controllers.UpdateOffer)
		sub.HandleFunc("DELETE delete-offer/{id}", controllers.DeleteOffer)

		sub.HandleFunc("POST add-order", controllers.AddOrder)
		sub.HandleFunc("GET get-orders", controllers.GetOrders)
		sub.HandleFunc("PUT mark-order-as-ready/{id}", controllers.MarkOrderAsReady)
		sub.HandleFunc("PUT mark-order-as-delivered/{id}", controllers.MarkOrderAsDelivered)
		sub.HandleFunc("GET order-qr/{id}", controllers.OrderQRCode)

		sub.HandleFunc("GET get-dashboard-data", controllers.GetDashboardData)
		sub.HandleFunc("GET top-menu-items", controllers.GetTopMenuItems)
		sub.HandleFunc("GET sales-performance", controllers.GetSalesPerformance)
		sub.HandleFunc("GET recent-orders", controllers.GetRecentOrders)
		sub.HandleFunc("GET user-activity", controllers.GetUserActivity)
		sub.HandleFunc("GET sales-summary", controllers.GetSalesSummary)
		sub.HandleFunc("GET generate-full-report", controllers.GenerateFullReport)

		sub.HandleFunc("GET get-all-staff", controllers.GetAllStaff)
		sub.HandleFunc("PUT update-staff-account/{id}", controllers.UpdateStaffAccount)
		sub.HandleFunc("DELETE delete-staff-account/{id}", controllers.DeleteStaffAccount)
	})

	// Enable CORS
	corsOptions := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}), // Allow all origins (adjust as needed)
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	sugar.Infof("Server running on port %s", port)
	if err := http.ListenAndServe(":"+port, corsOptions(r)); err != nil {
		sugar.Fatal(utils.ErrorWithTrace(err, err.Error()))
	}
}

func GetRootPath(dir string) string {
	ex, err := os.Executable()
	if err != nil {
		log.Fatal(utils.ErrorWithTrace(err, err.Error()))
	}
	absPath := path.Join(path.Dir(ex), dir)
	fmt.Println("Resolved migration path:", absPath)
	return absPath
}
