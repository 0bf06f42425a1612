package cron

import (
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/mridulja/flightbookingagent/config"
	"github.com/mridulja/flightbookingagent/services"
)

// InitConfirmationWorker runs the background worker that re-attempts failed
// confirmation deliveries. Returns the server so the caller can shut it down.
func InitConfirmationWorker(cfg *config.Config, recorder *services.BookingRecorder, log *zap.Logger) *asynq.Server {
	redisOpts := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(services.TypeConfirmationRetry, services.NewConfirmationRetryHandler(recorder, log))

	go func() {
		log.Info("starting confirmation retry worker", zap.String("redis_addr", cfg.RedisAddr))
		if err := srv.Run(mux); err != nil {
			log.Error("confirmation retry worker stopped", zap.Error(err))
		}
	}()

	return srv
}
