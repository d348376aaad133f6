package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lifebots/assistant-api/internal/config"
	"github.com/lifebots/assistant-api/internal/logger"
	"github.com/lifebots/assistant-api/internal/mcp"
	"github.com/lifebots/assistant-api/internal/queue"
	"github.com/lifebots/assistant-api/internal/workers"
	"go.uber.org/zap"
)

const (
	prefetchCount      = 5
	jobTimeout         = 5 * time.Minute
	rabbitMaxRetries   = 10
	rabbitInitialDelay = 2 * time.Second
	rabbitMaxDelay     = 30 * time.Second
)

func main() {
	debugFlag := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.NewProductionLogger(cfg.WorkerDebugMode || *debugFlag)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync(log) }()

	store, err := mcp.NewRedisStore(cfg.RedisURL)
	if err != nil {
		log.Fatal("failed_to_connect_redis", zap.Error(err))
	}
	defer store.Close()

	contexts := mcp.NewService(store, log)
	worker := workers.NewMaintenanceWorker(contexts, log)

	jobQueue := connectQueue(cfg.RabbitMQURL, log)
	if jobQueue == nil {
		log.Fatal("rabbitmq_unavailable")
	}
	defer jobQueue.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("worker_shutting_down")
		cancel()
	}()

	messages, errs, err := jobQueue.Consume(ctx, prefetchCount)
	if err != nil {
		log.Fatal("failed_to_start_consuming", zap.Error(err))
	}

	log.Info("worker_started", zap.Int("prefetch", prefetchCount))

	for {
		select {
		case <-ctx.Done():
			log.Info("worker_stopped")
			return
		case err, ok := <-errs:
			if !ok {
				continue
			}
			log.Error("consumer_error", zap.Error(err))
		case msg, ok := <-messages:
			if !ok {
				log.Info("message_channel_closed")
				return
			}
			handleMessage(ctx, msg, worker, jobQueue, log)
		}
	}
}

func handleMessage(ctx context.Context, msg *queue.Message, worker *workers.MaintenanceWorker, jobQueue queue.JobQueue, log *zap.Logger) {
	job := msg.GetJob()

	jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	if err := worker.ProcessJob(jobCtx, job); err != nil {
		log.Error("job_failed",
			zap.String("job_id", job.ID.String()),
			zap.String("job_type", string(job.Type)),
			zap.Int("retry_count", job.RetryCount),
			zap.Error(err),
		)

		if job.CanRetry() {
			job.IncrementRetry()
			if err := jobQueue.Enqueue(ctx, job); err != nil {
				log.Error("failed_to_requeue_job",
					zap.String("job_id", job.ID.String()),
					zap.Error(err),
				)
				if nackErr := msg.Nack(true); nackErr != nil {
					log.Error("failed_to_nack_message", zap.Error(nackErr))
				}
				return
			}
			if ackErr := msg.Ack(); ackErr != nil {
				log.Error("failed_to_ack_message", zap.Error(ackErr))
			}
			return
		}

		// Retry budget exhausted: route to the DLQ.
		if nackErr := msg.Nack(false); nackErr != nil {
			log.Error("failed_to_nack_message", zap.Error(nackErr))
		}
		return
	}

	if err := msg.Ack(); err != nil {
		log.Error("failed_to_ack_message",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
	}
}

func connectQueue(amqpURL string, log *zap.Logger) queue.JobQueue {
	if amqpURL == "" {
		return nil
	}

	delay := rabbitInitialDelay
	for attempt := 1; attempt <= rabbitMaxRetries; attempt++ {
		q, err := queue.NewRabbitMQQueue(amqpURL)
		if err == nil {
			log.Info("rabbitmq_connected", zap.Int("attempt", attempt))
			return q
		}
		log.Warn("rabbitmq_connection_failed",
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", delay),
			zap.Error(err),
		)
		time.Sleep(delay)
		delay *= 2
		if delay > rabbitMaxDelay {
			delay = rabbitMaxDelay
		}
	}
	return nil
}
