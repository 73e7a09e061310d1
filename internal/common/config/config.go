package config

import "fmt"

type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Server        ServerConfig            `mapstructure:"server"`
	Boards        BoardsConfig            `mapstructure:"boards"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Registry      RegistryConfig          `mapstructure:"registry"`
	Insights      InsightsConfig          `mapstructure:"insights"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Tracing       TracingConfig           `mapstructure:"tracing"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// ServerConfig configures the chat API listener.
type ServerConfig struct {
	Address      string `mapstructure:"address"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
	Mode         string `mapstructure:"mode"`          // gin mode: debug, release, test
}

// Board source kinds.
const (
	SourceMonday        = "monday"
	SourcePostgres      = "postgres"
	SourceElasticsearch = "elasticsearch"
	SourceXLSX          = "xlsx"
)

type BoardsConfig struct {
	Source            string `mapstructure:"source"`
	WorkOrdersBoardID string `mapstructure:"work_orders_board_id"`
	DealsBoardID      string `mapstructure:"deals_board_id"`
	CacheTTL          int    `mapstructure:"cache_ttl"`     // milliseconds
	StaleWindow       int    `mapstructure:"stale_window"`  // milliseconds
	FetchTimeout      int    `mapstructure:"fetch_timeout"` // milliseconds
	CacheEnabled      bool   `mapstructure:"cache_enabled"`

	Monday        MondayConfig            `mapstructure:"monday"`
	XLSX          XLSXConfig              `mapstructure:"xlsx"`
	Postgres      PostgresBoardConfig     `mapstructure:"postgres"`
	Elasticsearch ElasticsearchBoardConfig `mapstructure:"elasticsearch"`
}

type MondayConfig struct {
	APIURL     string `mapstructure:"api_url"`
	APIKey     string `mapstructure:"api_key"`
	APIVersion string `mapstructure:"api_version"`
	PageLimit  int    `mapstructure:"page_limit"`
}

type XLSXConfig struct {
	WorkOrdersFile string `mapstructure:"work_orders_file"`
	DealsFile      string `mapstructure:"deals_file"`
	Sheet          string `mapstructure:"sheet"`
}

type PostgresBoardConfig struct {
	Table string `mapstructure:"table"`
}

type ElasticsearchBoardConfig struct {
	Index string `mapstructure:"index"`
	Size  int    `mapstructure:"size"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

// RegistryConfig points at the activity registry holding job input schemas.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

type InsightsConfig struct {
	FiscalYear        int  `mapstructure:"fiscal_year"`
	DisableFollowUps  bool `mapstructure:"disable_follow_ups"`
	ReportHistorySize int  `mapstructure:"report_history_size"`
}

type NotificationConfig struct {
	Email struct {
		Enabled    bool     `mapstructure:"enabled"`
		FromEmail  string   `mapstructure:"from_email"`
		Recipients []string `mapstructure:"recipients"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled      bool     `mapstructure:"enabled"`
		SenderID     string   `mapstructure:"sender_id"`
		PhoneNumbers []string `mapstructure:"phone_numbers"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type TracingConfig struct {
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	ServiceName    string `mapstructure:"service_name"`
}
