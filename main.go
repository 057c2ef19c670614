package main

import (
	"net/http"
	"os"

	"civicpulse-be/config"
	"civicpulse-be/controllers"
	"civicpulse-be/middlewares"
	"civicpulse-be/realtime"
	"civicpulse-be/repositories"
	"civicpulse-be/routes"
	"civicpulse-be/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	db := config.ConnectDB()
	if db == nil {
		logrus.Fatal("Failed to connect to MongoDB")
	}
	config.ConnectRedis(os.Getenv("REDIS_ADDRESS"), os.Getenv("REDIS_PASSWORD"))

	users := repositories.NewUserRepo(db)
	issues := repositories.NewIssueRepo(db)
	alerts := repositories.NewSOSRepo(db)
	departments := repositories.NewDepartmentRepo(db)

	hub := realtime.NewHub()
	go hub.Run()
	defer hub.Stop()

	classifier := services.NewClassifierFromEnv()
	media := services.NewMediaStoreFromEnv()
	notifier := services.NewNotifier(services.NewMailerFromEnv(), services.NewMessengerFromEnv())

	authCtrl := controllers.NewAuthController(users)
	issueCtrl := controllers.NewIssueController(issues, users, classifier, media, notifier, hub)
	sosCtrl := controllers.NewSOSController(alerts, users, hub)
	analyticsCtrl := controllers.NewAnalyticsController(issues, alerts)
	deptCtrl := controllers.NewDepartmentController(departments)

	auth := middlewares.AuthMiddleware(users)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	routes.AuthRoutes(r, authCtrl, auth)
	routes.IssueRoutes(r, issueCtrl, auth)
	routes.SOSRoutes(r, sosCtrl, auth)
	routes.AnalyticsRoutes(r, analyticsCtrl, auth)
	routes.DepartmentRoutes(r, deptCtrl, auth)
	routes.WSRoutes(r, hub, auth)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
