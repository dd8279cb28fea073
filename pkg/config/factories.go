package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mitchellh/mapstructure"

	"github.com/ymtools/ivrdir/internal/logger"
	"github.com/ymtools/ivrdir/pkg/blob"
	blobBadger "github.com/ymtools/ivrdir/pkg/blob/badger"
	blobMemory "github.com/ymtools/ivrdir/pkg/blob/memory"
	blobS3 "github.com/ymtools/ivrdir/pkg/blob/s3"
	"github.com/ymtools/ivrdir/pkg/directory/source/baseline"
	"github.com/ymtools/ivrdir/pkg/directory/source/remote"
)

// CreateBlobStore creates a blob store based on configuration.
//
// This factory uses the Type field to determine which implementation to
// create, then decodes the type-specific configuration from the
// corresponding map and passes it to the store's constructor.
//
// Supported types:
//   - "memory": in-memory storage, state lost on restart
//   - "badger": BadgerDB storage, persistent on local disk
//   - "s3": Amazon S3 or compatible storage
func CreateBlobStore(ctx context.Context, cfg *BlobConfig) (blob.Store, error) {
	switch cfg.Type {
	case "memory":
		return blobMemory.NewMemoryBlobStore(), nil
	case "badger":
		return createBadgerBlobStore(cfg.Badger)
	case "s3":
		return createS3BlobStore(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown blob store type: %q (supported: memory, badger, s3)", cfg.Type)
	}
}

// createBadgerBlobStore creates a BadgerDB-backed blob store.
func createBadgerBlobStore(options map[string]any) (blob.Store, error) {
	type BadgerBlobStoreConfig struct {
		Path string `mapstructure:"path"`
	}

	var storeCfg BadgerBlobStoreConfig
	if err := mapstructure.Decode(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode badger blob store config: %w", err)
	}

	store, err := blobBadger.NewBadgerBlobStore(storeCfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create badger blob store: %w", err)
	}

	logger.Info("Badger blob store initialized: path=%s", storeCfg.Path)
	return store, nil
}

// createS3BlobStore creates an S3-backed blob store.
func createS3BlobStore(ctx context.Context, options map[string]any) (blob.Store, error) {
	type S3BlobConfig struct {
		Region          string `mapstructure:"region"`
		Bucket          string `mapstructure:"bucket"`
		KeyPrefix       string `mapstructure:"key_prefix"`
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
		MaxRetries      int    `mapstructure:"max_retries"`
	}

	var storeCfg S3BlobConfig
	if err := mapstructure.Decode(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode S3 blob store config: %w", err)
	}

	if storeCfg.Bucket == "" {
		return nil, fmt.Errorf("S3 blob store: bucket is required")
	}
	if storeCfg.Region == "" {
		return nil, fmt.Errorf("S3 blob store: region is required")
	}

	var configOptions []func(*awsConfig.LoadOptions) error
	configOptions = append(configOptions, awsConfig.WithRegion(storeCfg.Region))

	// Custom endpoint support for MinIO, Localstack, etc.
	if storeCfg.Endpoint != "" {
		//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
		customResolver := aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
				return aws.Endpoint{
					URL:               storeCfg.Endpoint,
					HostnameImmutable: true,
					Source:            aws.EndpointSourceCustom,
				}, nil
			},
		)
		//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
		configOptions = append(configOptions, awsConfig.WithEndpointResolverWithOptions(customResolver))
	}

	// Static credentials if provided, otherwise the default chain
	if storeCfg.AccessKeyID != "" && storeCfg.SecretAccessKey != "" {
		credProvider := credentials.NewStaticCredentialsProvider(
			storeCfg.AccessKeyID,
			storeCfg.SecretAccessKey,
			"",
		)
		configOptions = append(configOptions, awsConfig.WithCredentialsProvider(credProvider))
	}

	maxRetries := storeCfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 10
	}
	configOptions = append(configOptions, awsConfig.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = maxRetries
		})
	}))

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Path-style addressing for MinIO/Localstack compatibility
		if storeCfg.Endpoint != "" {
			o.UsePathStyle = true
		}
	})

	store, err := blobS3.NewS3BlobStore(ctx, blobS3.S3BlobStoreConfig{
		Client:    client,
		Bucket:    storeCfg.Bucket,
		KeyPrefix: storeCfg.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 blob store: %w", err)
	}

	logger.Info("S3 blob store initialized: bucket=%s, region=%s, prefix=%s",
		storeCfg.Bucket, storeCfg.Region, storeCfg.KeyPrefix)
	return store, nil
}

// CreateBaselineSource creates the baseline directory source, loading a
// replacement dataset file when one is configured.
func CreateBaselineSource(cfg *BaselineConfig) (*baseline.Source, error) {
	if cfg.DatasetFile == "" {
		return baseline.NewDefault(), nil
	}

	entries, err := baseline.LoadDatasetFile(cfg.DatasetFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline dataset %q: %w", cfg.DatasetFile, err)
	}

	logger.Info("Baseline dataset loaded from %s (%d entries)", cfg.DatasetFile, len(entries))
	return baseline.New(entries), nil
}

// CreateRemoteSource creates the remote directory source, or returns
// nil when the remote is disabled.
func CreateRemoteSource(cfg *RemoteConfig) (*remote.Source, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	source, err := remote.New(remote.Config{
		Endpoint:     cfg.Endpoint,
		Token:        cfg.Token,
		Timeout:      cfg.Timeout,
		ConvertAudio: cfg.ConvertAudio,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create remote source: %w", err)
	}

	logger.Info("Remote directory source enabled: endpoint=%s", cfg.Endpoint)
	return source, nil
}
