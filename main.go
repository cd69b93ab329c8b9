package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskflow-project/dashboard-service/config"
	"taskflow-project/dashboard-service/handlers"
	"taskflow-project/dashboard-service/logging"
	"taskflow-project/dashboard-service/repositories"
	"taskflow-project/dashboard-service/services"
	"taskflow-project/dashboard-service/utils"
)

const version = "1.0.0"

func main() {
	cfg, envLoaded, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logging.InitLogger(logging.Options{
		SystemName: "dashboard-service",
		File:       cfg.LogFile,
		Level:      cfg.LogLevel,
		Stdout:     true,
	})
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Dashboard Service...")
	if !envLoaded {
		logging.Logger.Warn("Event ID: ENV_LOAD_SKIPPED, Description: No .env file found, using the process environment")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logging.Logger.Errorf("Event ID: DB_DISCONNECT_FAILED, Description: %v", err)
		}
	}()

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB database %s", cfg.MongoDBName)

	store := repositories.NewStore(
		client.Database(cfg.MongoDBName),
		repositories.NewBreaker("MongoStoreCB", cfg.BreakerMaxFailures, cfg.BreakerOpenTimeout),
		cfg.StoreTimeout,
	)
	if err := repositories.EnsureIndexes(ctx, store); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEXES_FAILED, Description: %v", err)
	}

	accounts := repositories.NewMongoAccountRepository(store)
	projects := repositories.NewMongoProjectRepository(store)
	tasks := repositories.NewMongoTaskRepository(store)

	healthChecks := []handlers.HealthCheck{{Name: "mongodb", Store: store}}

	// Notifications stay disabled unless CASS_DB names at least one host.
	var notificationRepo repositories.NotificationRepository
	if len(cfg.CassandraHosts) > 0 {
		cassandra, err := repositories.NewCassandraNotificationRepository(cfg.CassandraHosts, cfg.CassandraKeyspace, cfg.StoreTimeout)
		if err != nil {
			logging.Logger.Fatalf("Event ID: CASSANDRA_CONNECTION_FAILED, Description: %v", err)
		}
		defer cassandra.Close()
		if err := cassandra.CreateTable(); err != nil {
			logging.Logger.Fatalf("Event ID: CASSANDRA_TABLE_FAILED, Description: %v", err)
		}
		notificationRepo = cassandra
		healthChecks = append(healthChecks, handlers.HealthCheck{Name: "cassandra", Store: cassandra, Optional: true})
	} else {
		logging.Logger.Warn("Event ID: NOTIFICATIONS_DISABLED, Description: CASS_DB is not set, notifications are disabled")
	}

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	resolver := services.NewOwnershipResolver(accounts, projects, tasks)
	notificationService := services.NewNotificationService(notificationRepo)
	accountService := services.NewAccountService(accounts, tokens).WithNotifier(notificationService)
	projectService := services.NewProjectService(accounts, projects, tasks, resolver)
	taskService := services.NewTaskService(projects, tasks, resolver)
	detailService := services.NewMemberDetailService(accounts, resolver)

	health, err := handlers.NewHealthHandler(version, healthChecks...)
	if err != nil {
		logging.Logger.Fatalf("Event ID: HEALTH_INIT_FAILED, Description: %v", err)
	}

	router := handlers.NewRouter(handlers.Handlers{
		Users:         handlers.NewUserHandler(accountService),
		Leaders:       handlers.NewLeaderHandler(resolver, detailService, projectService, accountService),
		Projects:      handlers.NewProjectHandler(projectService),
		Tasks:         handlers.NewTaskHandler(taskService),
		Notifications: handlers.NewNotificationHandler(notificationService),
		Health:        health,
	}, tokens, cfg.CORSOrigin)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
		}
	}()

	stop, release := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer release()
	<-stop.Done()

	logging.Logger.Info("Event ID: SERVER_SHUTDOWN, Description: Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_SHUTDOWN_FAILED, Description: %v", err)
	}
}
