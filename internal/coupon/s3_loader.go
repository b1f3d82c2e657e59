package coupon

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// objectGetter is the subset of the S3 client used by the loader.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Loader implements Loader for catalogs stored in AWS S3.
type s3Loader struct {
	client objectGetter
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates a new S3-based coupon catalog loader.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	logger = logger.With().Str("component", "s3-coupon-loader").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 loader initialised")

	return newS3Loader(s3.NewFromConfig(cfg), bucket, logger), nil
}

func newS3Loader(client objectGetter, bucket string, logger zerolog.Logger) *s3Loader {
	return &s3Loader{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Load reads a catalog object from S3. The key parameter should be the full
// S3 key (including any prefix).
func (l *s3Loader) Load(ctx context.Context, key string) (*Catalog, error) {
	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Msg("loading coupon catalog from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", l.bucket, key, err)
	}
	defer result.Body.Close()

	gzipped := strings.HasSuffix(key, ".gz") || aws.ToString(result.ContentEncoding) == "gzip"
	catalog, err := readCatalog(result.Body, gzipped)
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("error reading coupon catalog from S3")
		return nil, fmt.Errorf("error reading coupon catalog from S3 %s: %w", key, err)
	}

	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Int("coupons_loaded", catalog.Size()).
		Msg("coupon catalog loaded successfully from S3")

	return catalog.withSource("s3://" + l.bucket + "/" + key), nil
}

// SourceBuiltin is the Source of the catalog compiled into the binary.
const SourceBuiltin = "builtin"

// ErrEmptyCatalog is reported for a remote catalog without coupons.
var ErrEmptyCatalog = errors.New("coupon catalog has no coupons")

// fallbackLoader reads the catalog from S3 and falls back to the copy on the
// local file system when the object is missing, unreadable, or empty.
type fallbackLoader struct {
	remote    Loader
	local     Loader
	prefix    string
	useRemote bool
	logger    zerolog.Logger
}

// NewFallbackLoader creates a loader that prefers the S3 copy of a catalog
// over the local one. A nil s3Loader or s3Enabled=false reads only the local
// file.
func NewFallbackLoader(s3Loader, fileLoader Loader, s3Prefix string, s3Enabled bool, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		remote:    s3Loader,
		local:     fileLoader,
		prefix:    s3Prefix,
		useRemote: s3Enabled && s3Loader != nil,
		logger:    logger.With().Str("component", "catalog-fallback-loader").Logger(),
	}
}

// Load returns the S3 catalog stored under prefix/filePath, or the local
// file at filePath when that fails. When both fail the error carries both
// causes.
func (l *fallbackLoader) Load(ctx context.Context, filePath string) (*Catalog, error) {
	if !l.useRemote {
		return l.loadLocal(ctx, filePath)
	}

	key := ObjectKey(l.prefix, filePath)
	catalog, remoteErr := l.remote.Load(ctx, key)
	if remoteErr == nil && catalog.Size() == 0 {
		remoteErr = fmt.Errorf("s3 key %s: %w", key, ErrEmptyCatalog)
	}
	if remoteErr == nil {
		l.logCatalog(catalog, filePath)
		return catalog, nil
	}

	l.logger.Warn().
		Err(remoteErr).
		Str("s3_key", key).
		Str("file", filePath).
		Msg("remote coupon catalog unusable, reading local copy")

	catalog, localErr := l.loadLocal(ctx, filePath)
	if localErr != nil {
		return nil, errors.Join(remoteErr, localErr)
	}
	return catalog, nil
}

func (l *fallbackLoader) loadLocal(ctx context.Context, filePath string) (*Catalog, error) {
	catalog, err := l.local.Load(ctx, filePath)
	if err != nil {
		return nil, err
	}
	l.logCatalog(catalog, filePath)
	return catalog, nil
}

func (l *fallbackLoader) logCatalog(c *Catalog, filePath string) {
	l.logger.Info().
		Str("source", c.Source()).
		Str("file", filePath).
		Int("coupons", c.Size()).
		Bool("remote_enabled", l.useRemote).
		Msg("coupon catalog selected")
}

// ObjectKey joins an S3 prefix and a catalog path into a clean object key.
// A missing trailing slash on the prefix is tolerated.
func ObjectKey(prefix, filePath string) string {
	return strings.TrimPrefix(path.Join(prefix, filePath), "/")
}
