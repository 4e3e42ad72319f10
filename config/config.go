// server/config/config.go
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// --- Sub-configs, mirroring the YAML layout ---

type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"corsOrigins"`
}

type MongoConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"dbName"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Expiration string `mapstructure:"expiration"`
}

type StripeConfig struct {
	SecretKey string `mapstructure:"secretKey"`
	Currency  string `mapstructure:"currency"`
}

type S3Config struct {
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AccessKeyID      string `mapstructure:"accessKeyID"`
	SecretAccessKey  string `mapstructure:"secretAccessKey"`
	CloudFrontDomain string `mapstructure:"cloudFrontDomain"`
}

// AdminConfig holds the bootstrap admin account seeded on first start.
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type GeoConfig struct {
	SeedDir string `mapstructure:"seedDir"`
}

// MailConfig enables email copies of notifications through Resend.
type MailConfig struct {
	ResendAPIKey string `mapstructure:"resendAPIKey"`
	From         string `mapstructure:"from"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Mongo  MongoConfig  `mapstructure:"mongo"`
	JWT    JWTConfig    `mapstructure:"jwt"`
	Stripe StripeConfig `mapstructure:"stripe"`
	S3     S3Config     `mapstructure:"s3"`
	Admin  AdminConfig  `mapstructure:"admin"`
	Geo    GeoConfig    `mapstructure:"geo"`
	Mail   MailConfig   `mapstructure:"mail"`
	Log    LogConfig    `mapstructure:"log"`
}

// TokenTTL parses the configured token lifetime, falling back to 24h.
func (c Config) TokenTTL() time.Duration {
	d, err := time.ParseDuration(c.JWT.Expiration)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// LoadConfig reads config.yaml from path and overrides it with environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("server.port", "3000")
	v.SetDefault("server.corsOrigins", []string{"*"})
	v.SetDefault("mongo.dbName", "LifeLink")
	v.SetDefault("jwt.expiration", "24h")
	v.SetDefault("stripe.currency", "usd")
	v.SetDefault("mail.from", "LifeLink <noreply@lifelink.local>")
	v.SetDefault("log.level", "info")

	v.AutomaticEnv()

	v.BindEnv("mongo.uri", "MONGO_URI")
	v.BindEnv("mongo.dbName", "MONGO_DBNAME")
	v.BindEnv("server.port", "SERVER_PORT", "PORT")
	v.BindEnv("server.corsOrigins", "CORS_ORIGINS")
	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	v.BindEnv("stripe.secretKey", "STRIPE_SECRET_KEY")
	v.BindEnv("stripe.currency", "CURRENCY")
	v.BindEnv("s3.bucket", "S3_BUCKET")
	v.BindEnv("s3.region", "S3_REGION")
	v.BindEnv("s3.accessKeyID", "S3_ACCESS_KEY_ID")
	v.BindEnv("s3.secretAccessKey", "S3_SECRET_ACCESS_KEY")
	v.BindEnv("s3.cloudFrontDomain", "S3_CLOUDFRONT_DOMAIN")
	v.BindEnv("admin.email", "ADMIN_EMAIL")
	v.BindEnv("admin.password", "ADMIN_PASSWORD")
	v.BindEnv("geo.seedDir", "GEO_SEED_DIR")
	v.BindEnv("mail.resendAPIKey", "RESEND_API_KEY")
	v.BindEnv("mail.from", "MAIL_FROM")
	v.BindEnv("log.level", "LOG_LEVEL")

	// A missing config.yaml is fine, env vars alone are enough.
	err = v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}

	err = config.Validate()
	return
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	if c.Mongo.URI == "" {
		return errors.New("mongo.uri (MONGO_URI) is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret (JWT_SECRET) is required")
	}
	return nil
}
