package core

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Debug    bool
	TestMode bool
	AppName  string
	Env      string // DEV (local; default), TEST, QA, PROD
	Build    string

	Server struct {
		Host            string
		Port            int
		ShutdownTimeout time.Duration
	}

	Firestore struct {
		ProjectID          string
		CredentialsFile    string
		StudentsCollection string
	}

	Redis struct {
		Addr       string
		Password   string
		DB         int
		HistoryKey string
		HistoryCap int
	}

	Expo struct {
		PushURL     string
		AccessToken string
		PushTokens  []string
	}

	SendgridApiKey  string
	DefaultFromName string
	DefaultFromAddr string
	NotifyEmail     string // recipient of the email notification channel
	RollbarToken    string
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.DefaultFromName, Address: c.DefaultFromAddr}
}

func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Gradebook")
	conf.SetDefault("server.host", "")
	conf.SetDefault("server.port", 8000)
	conf.SetDefault("server.shutdownTimeout", 20*time.Second)
	conf.SetDefault("firestore.projectID", "my-gradebook-app")
	conf.SetDefault("firestore.credentialsFile", "")
	conf.SetDefault("firestore.studentsCollection", "students")
	conf.SetDefault("redis.addr", "localhost:6379")
	conf.SetDefault("redis.password", "")
	conf.SetDefault("redis.db", 0)
	conf.SetDefault("redis.historyKey", "gradebook:notifications")
	conf.SetDefault("redis.historyCap", 200)
	conf.SetDefault("expo.pushURL", "https://exp.host/--/api/v2/push/send")
	conf.SetDefault("expo.accessToken", "")
	conf.SetDefault("expo.pushTokens", []string{})
	conf.SetDefault("sendgridApiKey", "")
	conf.SetDefault("defaultFromName", "Gradebook")
	conf.SetDefault("defaultFromAddr", "noreply@localhost")
	conf.SetDefault("notifyEmail", "")
	conf.SetDefault("rollbarToken", "")

	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetDefault("env", env)
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	conf.AutomaticEnv()

	var c Config
	if err := conf.Unmarshal(&c); err != nil {
		log.Fatalf("config.Unmarshal: %v", err)
	}
	return &c
}
