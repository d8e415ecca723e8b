package scribe

import "github.com/goliatone/go-scribe/internal/runtimeconfig"

var (
	ErrStorageProviderUnknown             = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDriverUnknown               = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired                 = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid                    = runtimeconfig.ErrCacheTTLInvalid
	ErrCommandsDispatcherRequiresCommands = runtimeconfig.ErrCommandsDispatcherRequiresCommands
	ErrCommandsTimeoutInvalid             = runtimeconfig.ErrCommandsTimeoutInvalid
	ErrMarkdownPatternInvalid             = runtimeconfig.ErrMarkdownPatternInvalid
	ErrHTTPAddrRequired                   = runtimeconfig.ErrHTTPAddrRequired
	ErrHTTPMaxImportBytesInvalid          = runtimeconfig.ErrHTTPMaxImportBytesInvalid
	ErrLoggingProviderRequired            = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown             = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid                = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid               = runtimeconfig.ErrLoggingFormatInvalid
	ErrEnvValueInvalid                    = runtimeconfig.ErrEnvValueInvalid
)

type (
	Config               = runtimeconfig.Config
	StorageConfig        = runtimeconfig.StorageConfig
	CacheConfig          = runtimeconfig.CacheConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	CommandsConfig       = runtimeconfig.CommandsConfig
	HTTPConfig           = runtimeconfig.HTTPConfig
	Features             = runtimeconfig.Features
	LoggingConfig        = runtimeconfig.LoggingConfig
	LoadOption           = runtimeconfig.LoadOption
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads path and SCRIBE_* overrides on top of DefaultConfig.
func LoadConfig(path string, opts ...LoadOption) (Config, error) {
	return runtimeconfig.Load(path, opts...)
}

// WithEnvFile selects the dotenv file read by LoadConfig.
func WithEnvFile(path string) LoadOption {
	return runtimeconfig.WithEnvFile(path)
}

// WithLookupEnv replaces the environment lookup used by LoadConfig.
func WithLookupEnv(lookup func(string) (string, bool)) LoadOption {
	return runtimeconfig.WithLookupEnv(lookup)
}
