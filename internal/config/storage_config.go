package config

import (
	"fmt"
	"log"
	"time"

	"game-upload-api/internal/providers"
)

// StorageConfiguration holds all object-storage settings
type StorageConfiguration struct {
	// Enable the storage gateway
	Enabled bool `json:"enabled"`

	// Provider configuration
	Provider  providers.ProviderType `json:"provider"`
	Endpoint  string                 `json:"endpoint"`
	Region    string                 `json:"region"`
	Bucket    string                 `json:"bucket"`
	AccessKey string                 `json:"access_key"`
	SecretKey string                 `json:"secret_key"`

	// Connection settings
	UseSSL    bool `json:"use_ssl"`
	PathStyle bool `json:"path_style"`

	// Authorization settings
	PresignExpiry time.Duration `json:"presign_expiry"`
}

// LoadStorageConfig loads storage configuration from environment variables
func LoadStorageConfig() *StorageConfiguration {
	config := &StorageConfiguration{
		Enabled:       getBool("STORAGE_ENABLED", true),
		Provider:      providers.ProviderType(getEnv("STORAGE_PROVIDER", "aws")),
		Endpoint:      getEnv("STORAGE_ENDPOINT", ""),
		Region:        getEnv("STORAGE_REGION", "us-east-1"),
		Bucket:        getEnv("STORAGE_BUCKET", ""),
		AccessKey:     getEnv("STORAGE_ACCESS_KEY", ""),
		SecretKey:     getEnv("STORAGE_SECRET_KEY", ""),
		UseSSL:        getBool("STORAGE_USE_SSL", true),
		PathStyle:     getBool("STORAGE_PATH_STYLE", false),
		PresignExpiry: getDuration("PRESIGN_EXPIRY", time.Hour),
	}

	config.applyProviderDefaults()

	return config
}

// applyProviderDefaults sets provider-specific default values
func (c *StorageConfiguration) applyProviderDefaults() {
	switch c.Provider {
	case providers.ProviderAWS:
		c.PathStyle = false

	case providers.ProviderMinIO:
		c.PathStyle = true

	case providers.ProviderDigitalOcean:
		c.PathStyle = false
		if c.Region == "" {
			c.Region = "nyc3"
		}

	case providers.ProviderWasabi:
		c.PathStyle = false
		if c.Region == "" {
			c.Region = "us-east-1"
		}
	}
}

// ToProviderConfig converts StorageConfiguration to providers.StorageConfig
func (c *StorageConfiguration) ToProviderConfig() *providers.StorageConfig {
	return &providers.StorageConfig{
		Provider:      c.Provider,
		Endpoint:      c.Endpoint,
		Region:        c.Region,
		Bucket:        c.Bucket,
		AccessKey:     c.AccessKey,
		SecretKey:     c.SecretKey,
		UseSSL:        c.UseSSL,
		PathStyle:     c.PathStyle,
		PresignExpiry: c.PresignExpiry,
	}
}

// Validate checks if the storage configuration is valid
func (c *StorageConfiguration) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Provider == "" {
		return fmt.Errorf("STORAGE_PROVIDER is required when storage is enabled")
	}

	if c.Bucket == "" {
		return fmt.Errorf("STORAGE_BUCKET is required when storage is enabled")
	}

	if c.AccessKey == "" {
		return fmt.Errorf("STORAGE_ACCESS_KEY is required when storage is enabled")
	}

	if c.SecretKey == "" {
		return fmt.Errorf("STORAGE_SECRET_KEY is required when storage is enabled")
	}

	if c.Provider == providers.ProviderMinIO && c.Endpoint == "" {
		return fmt.Errorf("STORAGE_ENDPOINT is required for the minio provider")
	}

	if c.PresignExpiry <= 0 {
		c.PresignExpiry = time.Hour
	}

	return nil
}

// PrintStorageConfig logs the current storage configuration (without sensitive data)
func (c *StorageConfiguration) PrintStorageConfig() {
	if !c.Enabled {
		log.Println("Storage Gateway: Disabled")
		return
	}

	log.Println("===========================================")
	log.Println("Storage Gateway Configuration")
	log.Println("===========================================")
	log.Printf("Provider:       %s", c.Provider)
	log.Printf("Endpoint:       %s", c.Endpoint)
	log.Printf("Region:         %s", c.Region)
	log.Printf("Bucket:         %s", c.Bucket)
	log.Printf("Path Style:     %t", c.PathStyle)
	log.Printf("Presign Expiry: %s", c.PresignExpiry)
	log.Println("===========================================")
}
