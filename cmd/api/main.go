package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/finwise/finance-service/internal/config"
	"github.com/finwise/finance-service/internal/currency"
	"github.com/finwise/finance-service/internal/handler"
	"github.com/finwise/finance-service/internal/integrations/rates"
	"github.com/finwise/finance-service/internal/repository"
	"github.com/finwise/finance-service/internal/service"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	if err := repo.Migrate(); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	ratesClient := rates.NewClient(cfg, logger)
	if err := ratesClient.Refresh(); err != nil {
		logger.Warnf("Initial rates refresh failed, conversions limited to %s: %v", cfg.BaseCurrency, err)
	}
	normalizer := currency.NewNormalizer(cfg.BaseCurrency, ratesClient.RateFunc())
	svc := service.NewService(repo, logger, normalizer)
	h := handler.NewHandler(svc, logger)

	// Daily jobs: refresh reference rates and advance scheduled incomes
	scheduler := cron.New()
	_, err = scheduler.AddFunc("@daily", func() {
		if err := ratesClient.Refresh(); err != nil {
			logger.Errorf("Rates refresh failed: %v", err)
		}
		if err := svc.ProcessRecurringIncomes(time.Now()); err != nil {
			logger.Errorf("Recurring income processing failed: %v", err)
		}
	})
	if err != nil {
		logger.Fatalf("Failed to schedule daily jobs: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router
	r := mux.NewRouter()
	r.HandleFunc("/expenses", h.CreateExpense).Methods("POST")
	r.HandleFunc("/expenses", h.ListExpenses).Methods("GET")
	r.HandleFunc("/expenses/{id}", h.UpdateExpense).Methods("PUT")
	r.HandleFunc("/expenses/{id}", h.DeleteExpense).Methods("DELETE")

	r.HandleFunc("/incomes", h.CreateIncome).Methods("POST")
	r.HandleFunc("/incomes", h.ListIncomes).Methods("GET")
	r.HandleFunc("/incomes/{id}", h.UpdateIncome).Methods("PUT")
	r.HandleFunc("/incomes/{id}", h.DeleteIncome).Methods("DELETE")

	r.HandleFunc("/participants", h.CreateParticipant).Methods("POST")
	r.HandleFunc("/participants", h.ListParticipants).Methods("GET")
	r.HandleFunc("/participants/{id}", h.DeleteParticipant).Methods("DELETE")

	r.HandleFunc("/bills", h.CreateSplitBill).Methods("POST")
	r.HandleFunc("/bills", h.ListSplitBills).Methods("GET")
	r.HandleFunc("/bills/{id}/settle", h.SettleBill).Methods("POST")
	r.HandleFunc("/bills/{id}", h.DeleteSplitBill).Methods("DELETE")
	r.HandleFunc("/settlements", h.ResolveSettlements).Methods("GET")

	r.HandleFunc("/budgets", h.CreateBudgetPlan).Methods("POST")
	r.HandleFunc("/budgets", h.ListPlanMonths).Methods("GET")
	r.HandleFunc("/budgets/{month}", h.GetBudgetPlan).Methods("GET")
	r.HandleFunc("/budgets/{month}/transactions", h.LogBudgetTransaction).Methods("POST")

	r.HandleFunc("/insights", h.InsightReport).Methods("GET")

	// Reference rates endpoint
	r.HandleFunc("/rates", func(w http.ResponseWriter, r *http.Request) {
		table, asOf := ratesClient.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"base":  "EUR",
			"as_of": asOf.Format("2006-01-02"),
			"rates": table,
		})
	}).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
