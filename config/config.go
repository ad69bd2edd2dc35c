package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

type Postgres struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (p Postgres) ConnStr() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s", p.Host, p.User, p.Password, p.DBName, p.Port, p.SSLMode)
}

func (p Postgres) ReplicationConnStr() string {
	return p.ConnStr() + " replication=database"
}

type Nats struct {
	Enabled           bool   `mapstructure:"enabled"`
	Host              string `mapstructure:"host"`
	Port              string `mapstructure:"port"`
	Stream            string `mapstructure:"stream"`
	FoodsSubject      string `mapstructure:"foodsSubject"`
	CategoriesSubject string `mapstructure:"categoriesSubject"`
	LocationsSubject  string `mapstructure:"locationsSubject"`
	ReloadSubject     string `mapstructure:"reloadSubject"`
}

func (n Nats) ConnStr() string {
	return fmt.Sprintf("nats://%s:%s", n.Host, n.Port)
}

// Subjects lists every subject carried by the catalog stream.
func (n Nats) Subjects() []string {
	return []string{n.FoodsSubject, n.CategoriesSubject, n.LocationsSubject, n.ReloadSubject}
}

type Replication struct {
	Name string `mapstructure:"name"`
	Slot string `mapstructure:"slot"`
}

type Server struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Catalog selects where the agent reads the food catalog from.
type Catalog struct {
	Source string `mapstructure:"source"`
	Path   string `mapstructure:"path"`
}

type History struct {
	Path    string `mapstructure:"path"`
	Session string `mapstructure:"session"`
}

type Reloader struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queueSize"`
}

type Config struct {
	Postgres    Postgres    `mapstructure:"postgres"`
	Nats        Nats        `mapstructure:"nats"`
	Replication Replication `mapstructure:"replication"`
	Server      Server      `mapstructure:"server"`
	Catalog     Catalog     `mapstructure:"catalog"`
	History     History     `mapstructure:"history"`
	Reloader    Reloader    `mapstructure:"reloader"`
}

func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case SourceFile:
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog.path is required when catalog.source is %q", SourceFile)
		}
	case SourcePostgres:
	default:
		return fmt.Errorf("unknown catalog.source %q", c.Catalog.Source)
	}

	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("catalog.source", SourceFile)
	v.SetDefault("catalog.path", "./data/database.json")
	v.SetDefault("history.path", "chat_history.db")
	v.SetDefault("history.session", "foodorder-chatbot")
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.stream", "catalog")
	v.SetDefault("nats.foodsSubject", "catalog.foods")
	v.SetDefault("nats.categoriesSubject", "catalog.categories")
	v.SetDefault("nats.locationsSubject", "catalog.locations")
	v.SetDefault("nats.reloadSubject", "catalog.reload")
	v.SetDefault("replication.name", "catalog_pub")
	v.SetDefault("replication.slot", "catalog_slot")
	v.SetDefault("reloader.workers", 1)
	v.SetDefault("reloader.queueSize", 16)
}

// Load reads the yaml file at path, applies env overrides (nats.host -> NATS_HOST)
// and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func LoadConfig() *Config {
	path := os.Getenv("CHATBOT_CONFIG")
	if path == "" {
		path = "./config/config.yaml"
	}

	config, err := Load(path)
	if err != nil {
		log.Fatal(err)
	}

	return config
}
