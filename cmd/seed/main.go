// Command seed creates the default service operators. It is idempotent:
// operators that already exist are left untouched.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"paynet/internal/config"
	applog "paynet/internal/logger"
	"paynet/internal/models"
	"paynet/internal/repositories"

	"go.uber.org/zap"
)

var defaultOperators = map[string][]string{
	models.ServiceMobileRecharge: {"Airtel", "Jio", "Vi", "BSNL"},
	models.ServiceDTHRecharge:    {"Tata Play", "Airtel Digital TV", "Dish TV", "Sun Direct"},
	models.ServiceBillPayments:   {"Electricity", "Water", "Gas", "Broadband"},
	models.ServiceAEPS:           {"Cash Withdrawal", "Balance Enquiry", "Mini Statement"},
	models.ServiceDMT:            {"IMPS", "NEFT"},
	models.ServiceMicroATM:       {"Cash Withdrawal", "Balance Enquiry"},
}

func main() {
	config.LoadEnv()
	cfg := config.Load()

	log, err := applog.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	if err := run(cfg, log); err != nil {
		log.Error("seed failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

func run(cfg config.AppConfig, log *zap.Logger) error {
	db, err := repositories.Open(cfg.DB, log)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			log.Warn("failed to close database connection", zap.Error(err))
		}
	}()
	if err := repositories.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repo := repositories.NewOperatorRepository(db)
	created := 0
	for _, serviceType := range models.ServiceTypes {
		for _, name := range defaultOperators[serviceType] {
			op, isNew, err := repo.GetOrCreate(ctx, name, serviceType)
			if err != nil {
				return fmt.Errorf("failed to seed operator %q (%s): %w", name, serviceType, err)
			}
			if isNew {
				created++
				log.Info("operator created", zap.Uint("id", op.ID), zap.String("operator", name), zap.String("service_type", serviceType))
			}
		}
	}
	log.Info("seed complete", zap.Int("created", created))
	return nil
}
