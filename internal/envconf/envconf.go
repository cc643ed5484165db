package envconf

type LogStoreConf struct {
	LogStoreKind     string `env:"LOG_STORE_KIND,default=loki"`
	LokiAddress      string `env:"LOKI_ADDRESS,default=http://localhost:3100"`
	LokiBearerToken  string `env:"LOKI_BEARER_TOKEN"`
	LokiQueryTimeout uint   `env:"LOKI_QUERY_TIMEOUT_SECONDS,default=10"`
}

type ActivityConf struct {
	BaseSelector string `env:"ACTIVITY_BASE_SELECTOR,default={app=\"audit-logs\"}"`
	DefaultLimit int    `env:"ACTIVITY_DEFAULT_LIMIT,default=100"`
	MaxLimit     int    `env:"ACTIVITY_MAX_LIMIT,default=1000"`
	DefaultStart string `env:"ACTIVITY_DEFAULT_START,default=1h"`
	DefaultEnd   string `env:"ACTIVITY_DEFAULT_END,default=now"`
}

type EnvDecoderConf struct {
	Debug      bool `env:"DEBUG,default=true"`
	ServerPort uint `env:"SERVER_PORT,default=10001"`

	LogStoreConf LogStoreConf
	ActivityConf ActivityConf
}
