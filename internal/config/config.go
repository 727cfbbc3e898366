package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type SettlementConfig struct {
	Env          string `yaml:"env"`
	HTTPServer   `yaml:"http_server"`
	SettlementDB `yaml:"settlement_db"`
	KafkaService `yaml:"kafka-service"`
	Gateways     GatewaysConfig   `yaml:"gateways"`
	Background   BackgroundConfig `yaml:"background"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type SettlementDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

type KafkaService struct {
	Host            string `yaml:"host"`
	Port            string `yaml:"port"`
	SettlementTopic string `yaml:"settlement_topic" env-default:"settlement-events"`
	PayoutTopic     string `yaml:"payout_topic" env-default:"payout-events"`
}

type GatewaysConfig struct {
	Cathay GatewayEndpoint `yaml:"cathay"`
	CRB    GatewayEndpoint `yaml:"crb"`
	Fiserv GatewayEndpoint `yaml:"fiserv"`
	Tink   GatewayEndpoint `yaml:"tink"`
	Nium   GatewayEndpoint `yaml:"nium"`
	Visa   GatewayEndpoint `yaml:"visa"`
}

type GatewayEndpoint struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

type BackgroundConfig struct {
	PackInterval   time.Duration `yaml:"pack_interval" env-default:"10m"`
	SweepInterval  time.Duration `yaml:"sweep_interval" env-default:"1h"`
	StuckInterval  time.Duration `yaml:"stuck_interval" env-default:"5m"`
	StuckPayoutAge time.Duration `yaml:"stuck_payout_age" env-default:"24h"`
}

func MustLoad() *SettlementConfig {

	// Processing env config variable and file
	configPath := os.Getenv("SETTLEMENT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("SETTLEMENT_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg SettlementConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
