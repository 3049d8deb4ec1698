package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDR" env-default:":8080"`
}

type Firebase struct {
	ProjectID       string `yaml:"FIREBASE_PROJECT_ID" env:"FIREBASE_PROJECT_ID" env-required:"true"`
	CredentialsFile string `yaml:"FIREBASE_CREDENTIALS_FILE" env:"FIREBASE_CREDENTIALS_FILE" env-default:""`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER" env-default:""`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type CacheConfig struct {
	ProductTTL time.Duration `yaml:"PRODUCT_TTL" env:"CACHE_PRODUCT_TTL" env-default:"5m"`
}

type RateConfig struct {
	MaxAttempts int64         `yaml:"MAX_ATTEMPTS" env:"MAX_ATTEMPTS" env-default:"5"`
	WindowSize  time.Duration `yaml:"WINDOW_SIZE" env:"WINDOW_SIZE" env-default:"15s"`
}

type Stripe struct {
	APIKey              string   `yaml:"STRIPE_API_KEY" env:"STRIPE_API_KEY" env-default:""`
	WebhookSecret       string   `yaml:"STRIPE_WEBHOOK_SECRET" env:"STRIPE_WEBHOOK_SECRET" env-default:""`
	SupportedCurrencies []string `yaml:"STRIPE_SUPPORTED_CURRENCIES" env:"STRIPE_SUPPORTED_CURRENCIES" env-default:"usd,eur,inr"`
}

type SendGrid struct {
	APIKey    string `yaml:"SENDGRID_API_KEY" env:"SENDGRID_API_KEY" env-default:""`
	FromEmail string `yaml:"SENDGRID_FROM_EMAIL" env:"SENDGRID_FROM_EMAIL" env-default:"noreply@shopsphere.dev"`
	FromName  string `yaml:"SENDGRID_FROM_NAME" env:"SENDGRID_FROM_NAME" env-default:"ShopSphere"`
}

type Security struct {
	JWTKey        string        `yaml:"JWT_KEY" env:"JWT_KEY" env-required:"true"`
	SessionExpiry time.Duration `yaml:"SESSION_EXPIRY" env:"SESSION_EXPIRY" env-default:"24h"`
	LoginPath     string        `yaml:"LOGIN_PATH" env:"LOGIN_PATH" env-default:"/login"`
}

// Sync tunes the cart/wishlist synchronization engine. MergePolicy decides
// who wins when a signed-out cart meets a persisted one at sign-in; the
// retention flags decide what survives sign-out.
type Sync struct {
	Debounce              time.Duration `yaml:"SYNC_DEBOUNCE" env:"SYNC_DEBOUNCE" env-default:"2s"`
	MergePolicy           string        `yaml:"SYNC_MERGE_POLICY" env:"SYNC_MERGE_POLICY" env-default:"local-wins"`
	RetainCartOnSignOut   bool          `yaml:"SYNC_SIGNOUT_RETAIN_CART" env:"SYNC_SIGNOUT_RETAIN_CART" env-default:"true"`
	RetainWishlistSignOut bool          `yaml:"SYNC_SIGNOUT_RETAIN_WISHLIST" env:"SYNC_SIGNOUT_RETAIN_WISHLIST" env-default:"false"`
	FailureThreshold      int           `yaml:"SYNC_FAILURE_THRESHOLD" env:"SYNC_FAILURE_THRESHOLD" env-default:"5"`
	RemoveOnPurchase      bool          `yaml:"WISHLIST_REMOVE_ON_PURCHASE" env:"WISHLIST_REMOVE_ON_PURCHASE" env-default:"true"`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer   `yaml:"http_server"`
	Firebase     Firebase     `yaml:"firebase"`
	RedisConnect RedisConnect `yaml:"redis"`
	Cache        CacheConfig  `yaml:"cache"`
	RateConfig   RateConfig   `yaml:"rateConfig"`
	Stripe       Stripe       `yaml:"stripe"`
	SendGrid     SendGrid     `yaml:"sendgrid"`
	Security     Security     `yaml:"security"`
	Sync         Sync         `yaml:"sync"`
}

func MustLoad() *Config {

	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "gets the config flag value")

		flag.Parse()

		configPath = *flags

		if configPath == "" {
			log.Fatal("Config path is not set")
		}

	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config

	err := cleanenv.ReadConfig(configPath, &cfg)

	if err != nil {
		log.Fatalf("can not read config file: %s", err.Error())
	}

	return &cfg
}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s:%s/%d",
		r.Username, r.Password, r.Host, r.Port, r.DB)
}
