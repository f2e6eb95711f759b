package docsync

import "github.com/goliatone/go-docsync/internal/runtimeconfig"

var (
	ErrSourceProviderUnknown          = runtimeconfig.ErrSourceProviderUnknown
	ErrSourceRepoRequired             = runtimeconfig.ErrSourceRepoRequired
	ErrSourceLocalPathRequired        = runtimeconfig.ErrSourceLocalPathRequired
	ErrSourceConcurrencyInvalid       = runtimeconfig.ErrSourceConcurrencyInvalid
	ErrSourceRateInvalid              = runtimeconfig.ErrSourceRateInvalid
	ErrStoreDriverUnknown             = runtimeconfig.ErrStoreDriverUnknown
	ErrStoreDSNRequired               = runtimeconfig.ErrStoreDSNRequired
	ErrStoreCacheRequiresCache        = runtimeconfig.ErrStoreCacheRequiresCache
	ErrNavigationSectionKeyRequired   = runtimeconfig.ErrNavigationSectionKeyRequired
	ErrNavigationSectionDuplicate     = runtimeconfig.ErrNavigationSectionDuplicate
	ErrCommandsCronExpressionRequired = runtimeconfig.ErrCommandsCronExpressionRequired
	ErrRenderingBasePathInvalid       = runtimeconfig.ErrRenderingBasePathInvalid
	ErrLoggingProviderUnknown         = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid            = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid           = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	SourceConfig     = runtimeconfig.SourceConfig
	StoreConfig      = runtimeconfig.StoreConfig
	CacheConfig      = runtimeconfig.CacheConfig
	NavigationConfig = runtimeconfig.NavigationConfig
	RenderingConfig  = runtimeconfig.RenderingConfig
	CommandsConfig   = runtimeconfig.CommandsConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
	MetricsConfig    = runtimeconfig.MetricsConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
