package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v2"

	"github.com/babulal-jewellers/storefront-backend/pkg/apihelpers"
	"github.com/babulal-jewellers/storefront-backend/pkg/cache"
	"github.com/babulal-jewellers/storefront-backend/pkg/db"
	adminuserDB "github.com/babulal-jewellers/storefront-backend/pkg/db/admin-user"
	catalogDB "github.com/babulal-jewellers/storefront-backend/pkg/db/catalog"
	enquiryDB "github.com/babulal-jewellers/storefront-backend/pkg/db/enquiry"
	"github.com/babulal-jewellers/storefront-backend/pkg/messaging"
	"github.com/babulal-jewellers/storefront-backend/pkg/user-management/pwhash"
	"github.com/babulal-jewellers/storefront-backend/pkg/utils"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	ENV_STOREFRONT_DB_USERNAME = "STOREFRONT_DB_USERNAME"
	ENV_STOREFRONT_DB_PASSWORD = "STOREFRONT_DB_PASSWORD"

	ENV_ACCESS_TOKEN_SIGN_KEY  = "ACCESS_TOKEN_SIGN_KEY"
	ENV_REFRESH_TOKEN_SIGN_KEY = "REFRESH_TOKEN_SIGN_KEY"

	ENV_REDIS_PASSWORD = "REDIS_PASSWORD"
)

const (
	defaultAccessTokenExpiresIn  = 720 * time.Hour // 30 days
	defaultRefreshTokenExpiresIn = 168 * time.Hour // 7 days
)

type StorefrontApiConfig struct {
	// Log configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode    bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
		Port         string   `json:"port" yaml:"port"`

		// Mutual TLS configs
		MTLS struct {
			Use              bool                        `json:"use" yaml:"use"`
			CertificatePaths apihelpers.CertificatePaths `json:"certificate_paths" yaml:"certificate_paths"`
		} `json:"mtls" yaml:"mtls"`
	} `json:"gin_config" yaml:"gin_config"`

	// admin account configs
	AdminUserConfig struct {
		PWHashing struct {
			Argon2Memory      uint32 `json:"argon2_memory" yaml:"argon2_memory"`
			Argon2Iterations  uint32 `json:"argon2_iterations" yaml:"argon2_iterations"`
			Argon2Parallelism uint8  `json:"argon2_parallelism" yaml:"argon2_parallelism"`
		} `json:"pw_hashing" yaml:"pw_hashing"`
		AccessTokenConfig struct {
			SignKey   string        `json:"sign_key" yaml:"sign_key"`
			ExpiresIn time.Duration `json:"expires_in" yaml:"expires_in"`
		} `json:"access_token_config" yaml:"access_token_config"`
		RefreshTokenConfig struct {
			SignKey   string        `json:"sign_key" yaml:"sign_key"`
			ExpiresIn time.Duration `json:"expires_in" yaml:"expires_in"`
		} `json:"refresh_token_config" yaml:"refresh_token_config"`
		UseSecureCookies bool `json:"use_secure_cookies" yaml:"use_secure_cookies"`
	} `json:"admin_user_config" yaml:"admin_user_config"`

	// DB configs
	DBConfigs struct {
		StorefrontDB db.DBConfigYaml `json:"storefront_db" yaml:"storefront_db"`
	} `json:"db_configs" yaml:"db_configs"`

	// Cache configs
	CacheConfig cache.RedisConfig `json:"cache_config" yaml:"cache_config"`

	// Messaging configs
	MessagingConfigs struct {
		SmtpServerConfigFile string `json:"smtp_server_config_file" yaml:"smtp_server_config_file"`
		AdminEmail           string `json:"admin_email" yaml:"admin_email"`
	} `json:"messaging_configs" yaml:"messaging_configs"`
}

var conf StorefrontApiConfig

var (
	adminUserDBService *adminuserDB.AdminUserDBService
	catalogDBService   *catalogDB.CatalogDBService
	enquiryDBService   *enquiryDB.EnquiryDBService
	cacheService       *cache.CacheService
	notificationMailer *messaging.NotificationMailer
)

func init() {
	// Read config from file
	yamlFile, err := os.ReadFile(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		panic(err)
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		panic(err)
	}

	// Init logger:
	utils.InitLogger(
		conf.Logging.LogLevel,
		conf.Logging.IncludeSrc,
		conf.Logging.LogToFile,
		conf.Logging.Filename,
		conf.Logging.MaxSize,
		conf.Logging.MaxAge,
		conf.Logging.MaxBackups,
		conf.Logging.CompressOldLogs,
		conf.Logging.IncludeBuildInfo,
	)

	// Override secrets from environment variables
	secretsOverride()

	checkTokenConfig()

	if !conf.GinConfig.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// init argon2
	pwhash.InitArgonParams(
		conf.AdminUserConfig.PWHashing.Argon2Memory,
		conf.AdminUserConfig.PWHashing.Argon2Iterations,
		conf.AdminUserConfig.PWHashing.Argon2Parallelism,
	)

	// Init DBs
	initDBs()

	// Init response cache
	cacheService = cache.NewCacheService(conf.CacheConfig)

	initMessaging()
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_STOREFRONT_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.StorefrontDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_STOREFRONT_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.StorefrontDB.Password = dbPassword
	}

	if signKey := os.Getenv(ENV_ACCESS_TOKEN_SIGN_KEY); signKey != "" {
		conf.AdminUserConfig.AccessTokenConfig.SignKey = signKey
	}

	if signKey := os.Getenv(ENV_REFRESH_TOKEN_SIGN_KEY); signKey != "" {
		conf.AdminUserConfig.RefreshTokenConfig.SignKey = signKey
	}

	if redisPassword := os.Getenv(ENV_REDIS_PASSWORD); redisPassword != "" {
		conf.CacheConfig.Password = redisPassword
	}
}

// checkTokenConfig enforces distinct secrets for the two token families
// and fills in the default lifetimes.
func checkTokenConfig() {
	if conf.AdminUserConfig.AccessTokenConfig.SignKey == "" || conf.AdminUserConfig.RefreshTokenConfig.SignKey == "" {
		slog.Error("token sign keys not configured")
		panic("token sign keys not configured")
	}
	if conf.AdminUserConfig.AccessTokenConfig.SignKey == conf.AdminUserConfig.RefreshTokenConfig.SignKey {
		slog.Error("access and refresh token sign keys must differ")
		panic("access and refresh token sign keys must differ")
	}

	if conf.AdminUserConfig.AccessTokenConfig.ExpiresIn == 0 {
		conf.AdminUserConfig.AccessTokenConfig.ExpiresIn = defaultAccessTokenExpiresIn
	}
	if conf.AdminUserConfig.RefreshTokenConfig.ExpiresIn == 0 {
		conf.AdminUserConfig.RefreshTokenConfig.ExpiresIn = defaultRefreshTokenExpiresIn
	}
}

func initDBs() {
	var err error
	dbConfig := db.DBConfigFromYamlObj(conf.DBConfigs.StorefrontDB)

	// the admin user DB service connects with retries and gates startup,
	// the other services reach the same deployment
	adminUserDBService, err = adminuserDB.NewAdminUserDBService(dbConfig)
	if err != nil {
		slog.Error("Error connecting to Admin User DB", slog.String("error", err.Error()))
		panic(err)
	}

	catalogDBService, err = catalogDB.NewCatalogDBService(dbConfig)
	if err != nil {
		slog.Error("Error connecting to Catalog DB", slog.String("error", err.Error()))
		panic(err)
	}

	enquiryDBService, err = enquiryDB.NewEnquiryDBService(dbConfig)
	if err != nil {
		slog.Error("Error connecting to Enquiry DB", slog.String("error", err.Error()))
		panic(err)
	}
}

func initMessaging() {
	if conf.MessagingConfigs.SmtpServerConfigFile == "" {
		slog.Warn("no smtp server config file set, enquiry notifications disabled")
		return
	}

	var serverList messaging.SmtpServerList
	if err := serverList.ReadFromFile(conf.MessagingConfigs.SmtpServerConfigFile); err != nil {
		slog.Error("could not read smtp server config", slog.String("error", err.Error()))
		return
	}

	mailer, err := messaging.NewNotificationMailer(serverList)
	if err != nil {
		slog.Error("could not init notification mailer", slog.String("error", err.Error()))
		return
	}
	notificationMailer = mailer
}
