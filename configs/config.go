package config

import (
	"os"
	"strconv"
	"time"
)

type AfricaTalkingConfig struct {
	Username string
	APIKey   string
	SMSURL   string
	SenderID string
}

type EmailConfig struct {
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	SenderEmail        string
}

type PesapalConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	CallbackURL    string
	IPNID          string
}

type DarajaConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	Passkey        string
	Shortcode      string
	CallbackURL    string
}

type NATSConfig struct {
	URL string
}

type ReconcilerConfig struct {
	Interval        time.Duration
	PendingDeadline time.Duration
	BatchSize       int
	Concurrency     int
}

func LoadAfricaTalkingConfig() AfricaTalkingConfig {
	return AfricaTalkingConfig{
		Username: os.Getenv("AT_USERNAME"),
		APIKey:   os.Getenv("AT_API_KEY"),
		SMSURL:   getEnvOrDefault("AT_SMS_URL", "https://api.sandbox.africastalking.com/version1/messaging"), // Sandbox URL
		SenderID: getEnvOrDefault("AT_SENDER_ID", "AFRICASTKNG"),                                             // Default sandbox sender ID
	}
}

func LoadEmailConfig() EmailConfig {
	return EmailConfig{
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSRegion:          getEnvOrDefault("AWS_REGION", "us-east-1"),
		SenderEmail:        os.Getenv("AWS_SENDER_ADDRESS"),
	}
}

func LoadPesapalConfig() PesapalConfig {
	return PesapalConfig{
		BaseURL:        getEnvOrDefault("PESAPAL_BASE_URL", "https://cybqa.pesapal.com/pesapalv3"), // Sandbox URL
		ConsumerKey:    os.Getenv("PESAPAL_CONSUMER_KEY"),
		ConsumerSecret: os.Getenv("PESAPAL_CONSUMER_SECRET"),
		CallbackURL:    os.Getenv("PESAPAL_CALLBACK_URL"),
		IPNID:          os.Getenv("PESAPAL_IPN_ID"),
	}
}

func LoadDarajaConfig() DarajaConfig {
	return DarajaConfig{
		BaseURL:        getEnvOrDefault("DARAJA_BASE_URL", "https://sandbox.safaricom.co.ke"),
		ConsumerKey:    os.Getenv("DARAJA_CONSUMER_KEY"),
		ConsumerSecret: os.Getenv("DARAJA_CONSUMER_SECRET"),
		Passkey:        os.Getenv("DARAJA_PASSKEY"),
		Shortcode:      os.Getenv("DARAJA_SHORTCODE"),
		CallbackURL:    os.Getenv("DARAJA_CALLBACK_URL"),
	}
}

func LoadNATSConfig() NATSConfig {
	return NATSConfig{
		URL: getEnvOrDefault("NATS_URL", "nats://localhost:4222"),
	}
}

func LoadReconcilerConfig() ReconcilerConfig {
	return ReconcilerConfig{
		Interval:        getEnvDuration("RECONCILE_INTERVAL", 2*time.Minute),
		PendingDeadline: getEnvDuration("RECONCILE_PENDING_DEADLINE", 30*time.Minute),
		BatchSize:       getEnvInt("RECONCILE_BATCH_SIZE", 100),
		Concurrency:     getEnvInt("RECONCILE_CONCURRENCY", 10),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
