package config

import "time"

type AppConfig struct {
	APIPort string `env:"PORT" envDefault:"12223"`
	APIKey  string `env:"API_KEY"`
}

type DatabaseConfig struct {
	Host            string `env:"POSTGRES_HOST,required"`
	Port            string `env:"POSTGRES_PORT,required"`
	User            string `env:"POSTGRES_USER,required"`
	DBName          string `env:"POSTGRES_DB_NAME,required"`
	Password        string `env:"POSTGRES_PASSWORD,required"`
	MaxConn         int    `env:"POSTGRES_DB_MAX_CONN" envDefault:"10"`
	MaxIdleConn     int    `env:"POSTGRES_DB_MAX_IDLE_CONN" envDefault:"5"`
	ConnMaxLifetime int    `env:"POSTGRES_DB_CONN_MAX_LIFETIME" envDefault:"60"`
	LogLevel        string `env:"POSTGRES_LOG_LEVEL" envDefault:"WARN"`
	SSLMode         string `env:"POSTGRES_SSL_MODE" envDefault:"require"`
}

type GmailConfig struct {
	ServiceAccountFile string `env:"GMAIL_SERVICE_ACCOUNT_FILE,required"`
	ImpersonateAddress string `env:"GMAIL_IMPERSONATE_ADDRESS,required"`
	PageSize           int64  `env:"GMAIL_PAGE_SIZE" envDefault:"100"`
}

type StorageConfig struct {
	Endpoint        string `env:"STORAGE_ENDPOINT"`
	Region          string `env:"STORAGE_REGION" envDefault:"us-east-1"`
	AccessKeyID     string `env:"STORAGE_ACCESS_KEY_ID,required"`
	AccessKeySecret string `env:"STORAGE_ACCESS_KEY_SECRET,required"`
	InvoiceBucket   string `env:"STORAGE_INVOICE_BUCKET" envDefault:"INVOICE"`
	DotBucket       string `env:"STORAGE_DOT_BUCKET" envDefault:"DOT"`
}

type ExtractionConfig struct {
	Url            string `env:"EXTRACTION_API_URL" envDefault:"https://api.openai.com/v1/chat/completions"`
	ApiKey         string `env:"EXTRACTION_API_KEY,required"`
	Model          string `env:"EXTRACTION_MODEL" envDefault:"gpt-3.5-turbo"`
	TimeoutSeconds int    `env:"EXTRACTION_TIMEOUT_SECONDS" envDefault:"60"`
}

type LedgerConfig struct {
	FilePath string `env:"LEDGER_FILE_PATH" envDefault:"./processing_ledger.csv"`
}

type PipelineConfig struct {
	InvoiceMarker string `env:"PIPELINE_INVOICE_MARKER" envDefault:"invoice"`
	BusinessToken string `env:"PIPELINE_BUSINESS_TOKEN" envDefault:"fleet"`
	SenderDomain  string `env:"PIPELINE_SENDER_DOMAIN" envDefault:"gofleetadvisor.com"`
	SortedLabel   string `env:"PIPELINE_SORTED_LABEL" envDefault:"Batch_2_sorted"`
	ReviewLabel   string `env:"PIPELINE_REVIEW_LABEL" envDefault:"Needs_Review"`

	// Mailbox provider pacing: a short delay after every message and a long
	// one after every BatchSize-th message.
	MessageDelay time.Duration `env:"PIPELINE_MESSAGE_DELAY" envDefault:"3s"`
	BatchSize    int           `env:"PIPELINE_BATCH_SIZE" envDefault:"20"`
	BatchDelay   time.Duration `env:"PIPELINE_BATCH_DELAY" envDefault:"30s"`
}
