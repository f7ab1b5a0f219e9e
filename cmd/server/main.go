package main

import (
	"flag"
	"log/slog"

	"github.com/google/uuid"

	"survilav/entity"
	"survilav/impl/core"
	"survilav/internal/config"
	"survilav/internal/http-server/api"
	"survilav/internal/invites"
	"survilav/internal/notify"
	"survilav/internal/requests"
	"survilav/internal/storage"
	"survilav/lib/logger"
	"survilav/lib/sl"
)

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	log := logger.SetupLogger(conf.Env, *logPath)
	log.Info("starting survilav", slog.String("config", *configPath), slog.String("env", conf.Env))

	adminKey := conf.Admin.APIKey
	if adminKey == "" {
		// dev convenience: a fresh key per start, visible in the log
		adminKey = uuid.NewString()
		log.Warn("admin api key not set, generated temporary key", sl.Secret("api_key", adminKey))
	}

	requestStore := storage.New[entity.Request](conf.Storage.RequestsFile, log)
	inviteStore := storage.New[entity.Invite](conf.Storage.InvitesFile, log)

	requestRegistry := requests.New(requestStore, log)
	inviteRegistry := invites.New(inviteStore, log)

	handler := core.New(requestRegistry, inviteRegistry, adminKey, log)

	if conf.Telegram.Enabled {
		notifier, err := notify.NewTelegram(conf.Telegram.ApiKey, conf.Telegram.ChatId, log)
		if err != nil {
			log.Error("telegram notifier disabled", sl.Err(err))
		} else {
			handler.SetNotifier(notifier)
			log.Info("telegram notifier enabled", slog.Int64("chat_id", conf.Telegram.ChatId))
		}
	}

	if err := api.New(conf, log, handler); err != nil {
		log.Error("api server stopped", sl.Err(err))
	}
}
