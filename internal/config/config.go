package config

import (
	"github.com/Artexxx/pair-overlap/library/pg"
	"github.com/Artexxx/pair-overlap/library/yamlenv"
)

type Config struct {
	Postgres pg.PostgresConfig `yaml:"postgres"`
	Kafka    KafkaConfig       `yaml:"kafka"`
	UserAPI  ApiConfig         `yaml:"userAPI"`
	Log      LogConfig         `yaml:"log"`
}

// KafkaConfig. Пустой bootstrap отключает Kafka, уведомления идут сразу в локальный хаб.
type KafkaConfig struct {
	Bootstrap        *yamlenv.Env[string] `yaml:"bootstrap"`
	ProducerClientID *yamlenv.Env[string] `yaml:"producer_client_id"`
	GroupPrefix      *yamlenv.Env[string] `yaml:"group_prefix"`
	Topics           struct {
		Notifications *yamlenv.Env[string] `yaml:"notifications"`
	} `yaml:"topics"`
}

type ApiConfig struct {
	Port         *yamlenv.Env[int] `yaml:"port"`
	MaxBodyBytes *yamlenv.Env[int] `yaml:"maxBodyBytes"`
}

type LogConfig struct {
	Level *yamlenv.Env[string] `yaml:"level"`
}
