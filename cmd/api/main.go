package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"restobill/internal/config"
	"restobill/internal/handler"
	"restobill/internal/infra/db"
	"restobill/internal/infra/insight"
	"restobill/internal/infra/memory"
	"restobill/internal/infra/messaging"
	infraRepo "restobill/internal/infra/repository"
	"restobill/internal/server"
	"restobill/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func setupLogger(cfg config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.IsDev() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func newPublisher(cfg config.Config) messaging.Publisher {
	if cfg.RabbitMQURL == "" {
		log.Info().Msg("RABBITMQ_URL not set, order events are not published")
		return messaging.NopPublisher{}
	}
	p, err := messaging.NewAMQPPublisher(cfg.RabbitMQURL)
	if err != nil {
		// ブローカーが無くてもPOSは動かす
		log.Warn().Err(err).Msg("rabbitmq unavailable, order events are not published")
		return messaging.NopPublisher{}
	}
	log.Info().Str("exchange", messaging.OrdersExchange).Msg("order events enabled")
	return p
}

func newInsightGenerator(ctx context.Context, cfg config.Config) usecase.InsightGenerator {
	if cfg.GeminiAPIKey == "" {
		log.Info().Msg("GEMINI_API_KEY not set, insights return the fallback text")
		return nil
	}
	c, err := insight.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Warn().Err(err).Msg("gemini client unavailable, insights return the fallback text")
		return nil
	}
	return c
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("db connect failed")
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//スナップショットを読み込んでセッションを作る（読めなければ初期データ）
	snapshots := infraRepo.NewSnapshotGormRepository(gormDB, clock)
	session := memory.LoadSession(ctx, snapshots, idGen, clock)

	//注文イベントはブローカーと監査ログの両方へ
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	publisher := messaging.Fanout{newPublisher(cfg), usecase.NewAuditRecorder(auditRepo)}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("publisher close failed")
		}
	}()

	//Usecase生成
	posUC := usecase.NewPOSUsecase(session, publisher)
	authUC := usecase.NewAuthUsecase(session, cfg.JWTSecret, clock)

	if cfg.AuthEnabled() {
		n, err := authUC.EnsureBootstrapPIN(ctx, cfg.BootstrapPIN)
		if err != nil {
			log.Fatal().Err(err).Msg("bootstrap pin failed")
		}
		if n > 0 {
			log.Info().Int("managers", n).Msg("bootstrap pin assigned")
		}
	} else {
		log.Warn().Msg("JWT_SECRET not set, authentication is disabled")
	}

	//Handler生成
	e := server.New(cfg, server.Handlers{
		Auth:     handler.NewAuthHandler(authUC),
		Tables:   handler.NewTableHandler(posUC),
		Orders:   handler.NewOrderHandler(posUC, usecase.NewBillUsecase(session, clock)),
		Menu:     handler.NewMenuHandler(usecase.NewMenuUsecase(session, idGen)),
		Staff:    handler.NewStaffHandler(usecase.NewStaffUsecase(session, idGen)),
		Settings: handler.NewSettingsHandler(usecase.NewSettingsUsecase(session)),
		Reports:  handler.NewReportHandler(usecase.NewReportUsecase(session, newInsightGenerator(ctx, cfg), clock, cfg.InsightTimeout, time.Local)),
		Audit:    handler.NewAuditHandler(usecase.NewAuditUsecase(auditRepo)),
	})

	//Server起動
	if err := server.Start(ctx, ":"+strings.TrimPrefix(cfg.Port, ":"), e); err != nil {
		log.Error().Err(err).Msg("http server stopped")
	}

	// 残っている保存を待つ
	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := session.Close(closeCtx); err != nil {
		log.Error().Err(err).Msg("session close failed")
	}
	log.Info().Msg("bye")
}
