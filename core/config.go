package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host               string
		Addr               string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	// ChmsConfig holds the upstream church-management API credentials.
	// AppID/Secret are the operator's personal access token pair.
	ChmsConfig struct {
		BaseURL  string
		AppID    string
		Secret   string
		Sandbox  bool // simulate writes instead of applying them upstream
		PageSize int
	}

	EditConfig struct {
		// CommitDelay is the undo window: a staged fix is only written
		// upstream after this delay, unless cancelled first.
		CommitDelay time.Duration
	}

	CutoffConfig struct {
		Month int // 1 - 12
		Day   int
	}

	CacheConfig struct {
		Dir string
		Key string
		TTL time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}

	Config struct {
		Debug    bool
		TestMode bool
		Env      string // DEV (default), TEST, QA, PROD
		Build    string
		AppName  string

		SecretKey        string
		DefaultFromEmail mail.Address
		AdminEmail       mail.Address // write-failure notifications go here
		SendgridApiKey   string
		RollbarToken     string

		Server   ServerConfig
		Chms     ChmsConfig
		Edit     EditConfig
		Cutoff   CutoffConfig
		Cache    CacheConfig
		Database DatabaseConfig
	}
)

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "Kundi")
	v.SetDefault("secretKey", "w3p-kcq)znb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("adminEmail", "steward@localhost")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.debugHost", "localhost:8010")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 12*time.Hour)

	v.SetDefault("chms.baseURL", "https://api.planningcenteronline.com")
	v.SetDefault("chms.sandbox", true) // safe by default; real writes are opt-in
	v.SetDefault("chms.pageSize", 100)

	v.SetDefault("edit.commitDelay", 5*time.Second)

	v.SetDefault("cutoff.month", int(time.September))
	v.SetDefault("cutoff.day", 1)

	v.SetDefault("cache.dir", filepath.Join(os.TempDir(), "kundi-cache"))
	v.SetDefault("cache.ttl", 15*time.Minute)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.name", "kundi")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.disableTLS", true)

	env := os.Getenv("ENV")
	testMode := false
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         testMode,
		Env:              env,
		Build:            v.GetString("build"),
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		AdminEmail:       mail.Address{Address: v.GetString("adminEmail")},
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               v.GetString("server.host"),
			Addr:               v.GetString("server.addr"),
			DebugHost:          v.GetString("server.debugHost"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
		},
		Chms: ChmsConfig{
			BaseURL:  v.GetString("chms.baseURL"),
			AppID:    v.GetString("chms.appID"),
			Secret:   v.GetString("chms.secret"),
			Sandbox:  v.GetBool("chms.sandbox"),
			PageSize: v.GetInt("chms.pageSize"),
		},
		Edit: EditConfig{
			CommitDelay: v.GetDuration("edit.commitDelay"),
		},
		Cutoff: CutoffConfig{
			Month: v.GetInt("cutoff.month"),
			Day:   v.GetInt("cutoff.day"),
		},
		Cache: CacheConfig{
			Dir: v.GetString("cache.dir"),
			Key: v.GetString("cache.key"),
			TTL: v.GetDuration("cache.ttl"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
	}
}
