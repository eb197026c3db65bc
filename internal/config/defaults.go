package config

const (
	defaultDataDir         = "~/.local/share/keepsake/data"
	defaultLogDir          = "~/.local/share/keepsake/logs"
	defaultGatewayBind     = "127.0.0.1:7311"
	defaultUpstreamURL     = "https://api.worldlabs.ai/marble/v1"
	defaultGatewayTimeout  = 60
	defaultGatewayRetryMax = 2
	defaultGatewayURL      = "http://127.0.0.1:7311"
	defaultPollInterval    = 5
	defaultPollDeadline    = 1800
	defaultDownloadTimeout = 300
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	apiKeyEnvVar           = "WLT_API_KEY"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Gateway: Gateway{
			Bind:           defaultGatewayBind,
			UpstreamURL:    defaultUpstreamURL,
			RequestTimeout: defaultGatewayTimeout,
			RetryMax:       defaultGatewayRetryMax,
		},
		Generation: Generation{
			GatewayURL:      defaultGatewayURL,
			PollInterval:    defaultPollInterval,
			PollDeadline:    defaultPollDeadline,
			DownloadTimeout: defaultDownloadTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
