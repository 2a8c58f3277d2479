package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server     Server
	Database   Database
	Auth       Auth
	Mail       Mail
	Cache      Cache
	Submission Submission
	Bootstrap  Bootstrap
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Auth struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type Mail struct {
	SendGridKey string
	FromName    string
	FromEmail   string
	// PortalBaseURL is prepended to access-grant tokens when building the
	// submission link mailed to students.
	PortalBaseURL string
}

type Cache struct {
	TTL time.Duration
}

type Submission struct {
	// Strict rejects the whole submission when the payload references a
	// question that does not belong to the form. The default (false) keeps
	// the lenient drop-and-log behaviour.
	Strict bool
}

// Bootstrap seeds a first admin user on startup when AdminEmail is set and no
// user with that email exists yet.
type Bootstrap struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
	CollegeID     uint
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("JWT_TOKEN_TTL", "12h")
	viper.SetDefault("MAIL_FROM_NAME", "Campus Feedback")
	viper.SetDefault("CACHE_TTL", "5m")
	viper.SetDefault("SUBMISSION_STRICT", false)
	viper.SetDefault("BOOTSTRAP_ADMIN_NAME", "Administrator")
	viper.SetDefault("BOOTSTRAP_COLLEGE_ID", 1)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")

	config.Auth.JWTSecret = viper.GetString("JWT_SECRET")
	config.Auth.TokenTTL = viper.GetDuration("JWT_TOKEN_TTL")

	config.Mail.SendGridKey = viper.GetString("SENDGRID_API_KEY")
	config.Mail.FromName = viper.GetString("MAIL_FROM_NAME")
	config.Mail.FromEmail = viper.GetString("MAIL_FROM_EMAIL")
	config.Mail.PortalBaseURL = viper.GetString("MAIL_PORTAL_BASE_URL")

	config.Cache.TTL = viper.GetDuration("CACHE_TTL")
	config.Submission.Strict = viper.GetBool("SUBMISSION_STRICT")

	config.Bootstrap.AdminEmail = viper.GetString("BOOTSTRAP_ADMIN_EMAIL")
	config.Bootstrap.AdminPassword = viper.GetString("BOOTSTRAP_ADMIN_PASSWORD")
	config.Bootstrap.AdminName = viper.GetString("BOOTSTRAP_ADMIN_NAME")
	config.Bootstrap.CollegeID = viper.GetUint("BOOTSTRAP_COLLEGE_ID")

	log.Info().Str("port", config.Server.Port).Bool("strict_submission", config.Submission.Strict).Msg("Config loaded")
	return &config, nil
}
