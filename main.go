package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wordcast/internal/httpserver"
	"wordcast/internal/pay"
	"wordcast/internal/play"
	"wordcast/internal/repo"
	"wordcast/internal/rewards"
	"wordcast/internal/store"
	"wordcast/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := words.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}

	db, err := openDB(getEnv("DATABASE_PATH", "./data/wordcast.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	repoStore := repo.NewSQLiteStore(db)
	sessions := store.NewMemoryStore()
	svc := play.NewService(sessions, repoStore, play.Config{
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		RandomWords:  os.Getenv("WORD_MODE") == "random",
		RankedAlways: os.Getenv("RANKED_ALWAYS") == "true",
	})

	treasury := pay.NewTreasuryClient(
		getEnv("TREASURY_URL", "http://localhost:8750"),
		os.Getenv("TREASURY_TOKEN"),
	)
	dist := rewards.NewDistributor(repoStore, treasury)

	if os.Getenv("REWARDS_AUTO_DISTRIBUTE") == "true" {
		sched, err := rewards.StartScheduler(dist)
		if err != nil {
			log.Fatal().Err(err).Msg("start reward scheduler")
		}
		defer func() { _ = sched.Shutdown() }()
	}

	srv := httpserver.New(svc, repoStore, dist)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting wordcast server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
