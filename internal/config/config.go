package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Listen struct {
	BindIp string `yaml:"bind_ip" env-default:"0.0.0.0"`
	Port   string `yaml:"port" env-default:"8000"`
}

type StorageConfig struct {
	RequestsFile string `yaml:"requests_file" env-default:"data/user_request.json"`
	InvitesFile  string `yaml:"invites_file" env-default:"data/invites.json"`
}

type AdminConfig struct {
	// APIKey guards the invite management endpoints. Left empty, a
	// temporary key is generated at startup and logged.
	APIKey string `yaml:"api_key" env:"ADMIN_KEY" env-default:""`
}

type TelegramConfig struct {
	Enabled bool   `yaml:"enabled" env-default:"false"`
	ApiKey  string `yaml:"api_key" env-default:""`
	ChatId  int64  `yaml:"chat_id" env-default:"0"`
}

type Config struct {
	Listen   Listen         `yaml:"listen"`
	Storage  StorageConfig  `yaml:"storage"`
	Admin    AdminConfig    `yaml:"admin"`
	Telegram TelegramConfig `yaml:"telegram"`
	Env      string         `yaml:"env" env-default:"local"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("config: %s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
