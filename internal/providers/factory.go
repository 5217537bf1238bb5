package providers

import (
	"fmt"
	"strings"
)

// GatewayFactory creates StorageGateway instances based on configuration.
type GatewayFactory struct{}

// NewGatewayFactory creates a new gateway factory.
func NewGatewayFactory() *GatewayFactory {
	return &GatewayFactory{}
}

// CreateGateway creates a StorageGateway for the configured provider.
func (f *GatewayFactory) CreateGateway(config *StorageConfig) (StorageGateway, error) {
	if config == nil {
		return nil, fmt.Errorf("storage config cannot be nil")
	}

	switch ProviderType(strings.ToLower(string(config.Provider))) {
	case ProviderAWS:
		return NewAWSGateway(config)
	case ProviderMinIO:
		return NewMinIOGateway(config)
	case ProviderDigitalOcean, ProviderWasabi:
		// S3-compatible, served by the AWS gateway with a custom endpoint.
		return NewAWSGateway(config)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidProvider, config.Provider)
	}
}

// SupportedProviders returns the provider types the factory can build.
func (f *GatewayFactory) SupportedProviders() []ProviderType {
	return []ProviderType{
		ProviderAWS,
		ProviderMinIO,
		ProviderDigitalOcean,
		ProviderWasabi,
	}
}
