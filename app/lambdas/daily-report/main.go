package main

import (
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/snirkop89/ppe-lambdas/core/config"
	"github.com/snirkop89/ppe-lambdas/core/logger"
	"github.com/snirkop89/ppe-lambdas/functions/dailyreport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewLogger("daily-report", slog.LevelInfo).Error(err.Error())
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.ServiceName+"-daily-report", cfg.Level())
	lambda.Start(dailyreport.New(log).Handle)
}
