package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/healthcare-portal/cmd/mainconfig"
	"github.com/wolfman30/healthcare-portal/internal/app/bootstrap"
	appconfig "github.com/wolfman30/healthcare-portal/internal/config"
	"github.com/wolfman30/healthcare-portal/internal/notify"
	"github.com/wolfman30/healthcare-portal/internal/observability/metrics"
	"github.com/wolfman30/healthcare-portal/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	if cfg.NotifyQueueURL == "" {
		logger.Error("notify worker requires NOTIFY_QUEUE_URL")
		os.Exit(1)
	}

	awsConfig, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	portalMetrics := metrics.NewPortalMetrics(registry)

	queue := notify.NewSQSQueue(sqs.NewFromConfig(awsConfig), cfg.NotifyQueueURL)
	sender := bootstrap.BuildEmailSender(cfg, &awsConfig, logger)
	worker := notify.NewWorker(
		queue,
		sender,
		portalMetrics,
		logger,
		notify.WithWorkerCount(cfg.NotifyWorkers),
		notify.WithDeliveryTimeout(cfg.NotifyTimeout),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	logger.Info("notify worker starting", "workers", cfg.NotifyWorkers, "email_provider", sender.Provider())
	worker.Start(ctx)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down notify worker...")
	cancel()

	doneCtx, doneCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer doneCancel()
	_ = metricsSrv.Shutdown(doneCtx)

	waitCh := make(chan struct{})
	go func() {
		worker.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
		logger.Info("notify worker stopped")
	case <-doneCtx.Done():
		logger.Error("notify worker shutdown timed out", "error", doneCtx.Err())
	}
}
