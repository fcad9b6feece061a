package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"os"
	"time"

	"github.com/PauloAdam/consulta-produto-estoque/internal/products"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// responseMargin is left after the lookup deadline to write the error body.
const responseMargin = 5 * time.Second

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	Bling      `yaml:"bling"`
	Lookup     `yaml:"lookup"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":3000"`
	Port        string        `yaml:"port" env:"PORT"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"20s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	PublicDir   string        `yaml:"public_dir" env:"PUBLIC_DIR" env-default:"./public"`
	CORSOrigins []string      `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"*"`
}

type Bling struct {
	BaseURL        string        `yaml:"base_url" env:"BLING_API" env-default:"https://api.bling.com.br/Api/v3"`
	ClientID       string        `yaml:"client_id" env:"BLING_CLIENT_ID" env-required:"true"`
	ClientSecret   string        `yaml:"client_secret" env:"BLING_CLIENT_SECRET" env-required:"true"`
	RefreshToken   string        `yaml:"refresh_token" env:"BLING_REFRESH_TOKEN" env-required:"true"`
	AccessToken    string        `yaml:"access_token" env:"BLING_ACCESS_TOKEN"`
	DepositID      string        `yaml:"deposit_id" env:"BLING_ID_DEPOSITO"`
	Timeout        time.Duration `yaml:"timeout" env:"BLING_TIMEOUT" env-default:"15s"`
	GTINLimit      int           `yaml:"gtin_limit" env:"BLING_GTIN_LIMIT" env-default:"1"`
	SKULimit       int           `yaml:"sku_limit" env:"BLING_SKU_LIMIT" env-default:"1"`
	RefreshOnStart bool          `yaml:"refresh_on_start" env:"BLING_REFRESH_ON_START" env-default:"false"`
}

type Lookup struct {
	// GTINOnly disables the SKU search that follows an empty GTIN search.
	GTINOnly bool          `yaml:"gtin_only" env:"LOOKUP_GTIN_ONLY"`
	Fields   string        `yaml:"fields" env:"LOOKUP_FIELDS" env-default:"full"`
	Timeout  time.Duration `yaml:"timeout" env:"LOOKUP_TIMEOUT" env-default:"25s"`
}

// Load reads the YAML file at configPath when it exists and the environment
// otherwise. A .env file in the working directory is loaded first.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: cannot read .env: %w", op, err)
	}

	var cfg Config

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("%s: config file does not exist: %s", op, configPath)
		}

		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("%s: cannot read config %s: %w", op, configPath, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: cannot read env: %w", op, err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}

func (c *Config) normalize() error {
	// PORT is what shared hosting panels inject; it wins over the address port.
	if c.HTTPServer.Port != "" {
		host, _, err := net.SplitHostPort(c.HTTPServer.Address)
		if err != nil {
			host = ""
		}
		c.HTTPServer.Address = net.JoinHostPort(host, c.HTTPServer.Port)
	}

	switch c.Lookup.Fields {
	case products.FieldsFull, products.FieldsCompact:
	default:
		return fmt.Errorf("unknown lookup fields %q", c.Lookup.Fields)
	}

	if c.Lookup.Timeout <= 0 {
		return fmt.Errorf("lookup timeout must be positive, got %s", c.Lookup.Timeout)
	}

	if c.Bling.GTINLimit < 1 {
		c.Bling.GTINLimit = 1
	}
	if c.Bling.SKULimit < 1 {
		c.Bling.SKULimit = 1
	}

	return nil
}

// WriteTimeout is the server write deadline. It never ends before a lookup
// has had its full budget and the time to write the answer.
func (c *Config) WriteTimeout() time.Duration {
	budget := c.Lookup.Timeout + responseMargin
	if c.HTTPServer.Timeout > budget {
		return c.HTTPServer.Timeout
	}

	return budget
}
