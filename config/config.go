package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Game     GameConfig     `mapstructure:"game"`
	Security SecurityConfig `mapstructure:"security"`
}

type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	Debug    bool   `mapstructure:"debug"`
	AdminKey string `mapstructure:"admin_key"`
}

type DatabaseConfig struct {
	Mode         string        `mapstructure:"mode"` // sqlite | mysql
	SQLitePath   string        `mapstructure:"sqlite_path"`
	MySQLDSN     string        `mapstructure:"mysql_dsn"`
	MySQLMaxOpen int           `mapstructure:"mysql_max_open"`
	MySQLMaxIdle int           `mapstructure:"mysql_max_idle"`
	MySQLMaxLife time.Duration `mapstructure:"mysql_max_life"`
}

type CacheConfig struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
	LocalPubSubBuf  int           `mapstructure:"local_pubsub_buf"`
}

type GameConfig struct {
	TickMs        int     `mapstructure:"tick_ms"`
	AutosaveS     int     `mapstructure:"autosave_s"`
	WorldWidth    int     `mapstructure:"world_width"`
	WorldHeight   int     `mapstructure:"world_height"`
	PlayerSpeed   float64 `mapstructure:"player_speed"`
	PlayerHealth  int     `mapstructure:"player_health"`
	StartingMoney int     `mapstructure:"starting_money"`
	MapsDir       string  `mapstructure:"maps_dir"`
	StartMap      string  `mapstructure:"start_map"`
}

type SecurityConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTTTLH        time.Duration `mapstructure:"jwt_ttl_h"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.debug", false)
	v.SetDefault("database.mode", "sqlite")
	v.SetDefault("database.sqlite_path", "./data/openstreets.db")
	v.SetDefault("database.mysql_max_open", 50)
	v.SetDefault("database.mysql_max_idle", 10)
	v.SetDefault("database.mysql_max_life", "1h")
	v.SetDefault("cache.local_gc_interval", "30s")
	v.SetDefault("cache.local_pubsub_buf", 256)
	v.SetDefault("game.tick_ms", 50)
	v.SetDefault("game.autosave_s", 300)
	v.SetDefault("game.world_width", 50)
	v.SetDefault("game.world_height", 50)
	v.SetDefault("game.player_speed", 3.0)
	v.SetDefault("game.player_health", 100)
	v.SetDefault("game.starting_money", 0)
	v.SetDefault("game.maps_dir", "./data/maps")
	v.SetDefault("game.start_map", "downtown")
	v.SetDefault("security.jwt_ttl_h", "72h")
	v.SetDefault("security.rate_limit_rps", 100)
	v.SetDefault("security.rate_limit_burst", 200)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
