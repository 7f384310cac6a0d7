package main

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/LeonardoBeccarini/drip_planner/pkg/rabbitmq"
)

type Config struct {
	Port     string
	GrpcPort string

	CatalogSource  string // builtin | yaml | postgres | http
	CatalogFile    string
	DatabaseURL    string
	CatalogURL     string
	CatalogRefresh time.Duration

	MQTTEnabled    bool
	Rabbit         rabbitmq.RabbitMQConfig
	RequestTopic   string
	ResultTopicTpl string

	InfluxEnabled bool
	InfluxURL     string
	InfluxToken   string
	InfluxOrg     string
	InfluxBucket  string

	CBFails     int
	CBOpen      time.Duration
	HTTPTimeout time.Duration
	CacheSize   int
}

func getenv(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return d
}

func getenvBool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return d
}

func getenvMs(k string, d int) time.Duration {
	return time.Duration(getenvInt(k, d)) * time.Millisecond
}

func loadConfig() Config {
	refresh, err := time.ParseDuration(getenv("CATALOG_REFRESH", "0s"))
	if err != nil {
		refresh = 0
	}
	return Config{
		Port:     getenv("PORT", "8080"),
		GrpcPort: getenv("GRPC_PORT", "50051"),

		CatalogSource:  strings.ToLower(getenv("CATALOG_SOURCE", "builtin")),
		CatalogFile:    getenv("CATALOG_FILE", "catalog.yaml"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		CatalogURL:     getenv("CATALOG_URL", "http://catalog.cloud:8080"),
		CatalogRefresh: refresh,

		MQTTEnabled: getenvBool("MQTT_ENABLED", false),
		Rabbit: rabbitmq.RabbitMQConfig{
			Host:     getenv("RABBITMQ_HOST", "localhost"),
			Port:     getenvInt("RABBITMQ_PORT", 1883),
			User:     getenv("RABBITMQ_USER", "guest"),
			Password: getenv("RABBITMQ_PASSWORD", "guest"),
			ClientID: getenv("MQTT_CLIENT_ID", getenv("HOSTNAME", "drip-planner")),
		},
		RequestTopic:   getenv("PLAN_REQUEST_TOPIC", "plan/request/+"),
		ResultTopicTpl: getenv("PLAN_RESULT_TOPIC_TMPL", "plan/result/{project}"),

		InfluxEnabled: getenvBool("INFLUX_ENABLED", false),
		InfluxURL:     getenv("INFLUX_URL", "http://influxdb:8086"),
		InfluxToken:   os.Getenv("INFLUX_TOKEN"),
		InfluxOrg:     getenv("INFLUX_ORG", "sdcc"),
		InfluxBucket:  getenv("INFLUX_BUCKET", "plans"),

		CBFails:     getenvInt("CB_FAILS", 3),
		CBOpen:      getenvMs("CB_OPEN_MS", 10000),
		HTTPTimeout: getenvMs("HTTP_TIMEOUT_MS", 3000),
		CacheSize:   getenvInt("PLAN_CACHE_SIZE", 100),
	}
}
