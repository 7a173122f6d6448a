package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/noaccident/obsup/internal/observability"
	"github.com/noaccident/obsup/pkg/credentials"
	"github.com/noaccident/obsup/pkg/manifest"
	"github.com/noaccident/obsup/pkg/signer"
	"github.com/noaccident/obsup/pkg/transport"
	"github.com/noaccident/obsup/pkg/uploader"
)

var putCmd = &cobra.Command{
	Use:   "put",
	Short: "Upload one object or a manifest batch",
	Long: `Upload a single object:

  obsup put --bucket my-bucket --key data/report.bin --file ./report.bin

Or run a batch job from a manifest:

  obsup put --job upload.yaml`,
	RunE: runPut,
}

var (
	putJobPath      string
	putBucket       string
	putKey          string
	putFile         string
	putContentType  string
	putACL          string
	putStorageClass string
	putMetadata     []string
	putComputeMD5   bool
)

func init() {
	rootCmd.AddCommand(putCmd)

	putCmd.Flags().StringVarP(&putJobPath, "job", "j", "", "Path to upload job manifest")
	putCmd.Flags().StringVarP(&putBucket, "bucket", "b", "", "Target bucket")
	putCmd.Flags().StringVarP(&putKey, "key", "k", "", "Destination object key")
	putCmd.Flags().StringVarP(&putFile, "file", "f", "", "Local file to upload")
	putCmd.Flags().StringVar(&putContentType, "content-type", "", "Content-Type header")
	putCmd.Flags().StringVar(&putACL, "acl", "", "Canned ACL (private, public-read, public-read-write)")
	putCmd.Flags().StringVar(&putStorageClass, "storage-class", "", "Storage class (STANDARD, WARM, COLD)")
	putCmd.Flags().StringArrayVarP(&putMetadata, "metadata", "m", nil, "User metadata entry as key=value (repeatable)")
	putCmd.Flags().BoolVar(&putComputeMD5, "md5", false, "Compute and send Content-MD5")
}

func runPut(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if putJobPath != "" {
		return runPutJob(ctx, putJobPath)
	}

	if putBucket == "" || putKey == "" || putFile == "" {
		return fmt.Errorf("either --job or all of --bucket, --key and --file are required")
	}

	up, err := newUploader(cfg.Connection.Endpoint, uploader.Config{
		MaxRetries:  cfg.Upload.MaxRetries,
		BackoffUnit: cfg.Upload.BackoffUnit,
		Logger:      observability.CLILogger,
	})
	if err != nil {
		return err
	}

	meta, err := parseMetadata(putMetadata)
	if err != nil {
		return err
	}

	in := uploader.PutInput{
		Bucket:       putBucket,
		Key:          putKey,
		FilePath:     putFile,
		ContentType:  putContentType,
		Metadata:     meta,
		ACL:          signer.ACL(putACL),
		StorageClass: signer.StorageClass(putStorageClass),
	}
	if putComputeMD5 {
		md5sum, err := uploader.FileContentMD5(putFile)
		if err != nil {
			return err
		}
		in.ContentMD5 = md5sum
	}

	result, err := up.Put(ctx, in)
	if err != nil {
		observability.CLILogger.Error("Upload failed",
			zap.String("bucket", putBucket),
			zap.String("key", putKey),
			zap.Error(err))
		return err
	}

	observability.CLILogger.Info("Upload complete",
		zap.String("bucket", putBucket),
		zap.String("key", putKey),
		zap.Int("status", result.StatusCode),
		zap.String("etag", result.ETag),
		zap.String("version_id", result.VersionID))
	return nil
}

// runPutJob uploads every object in a manifest, with bounded concurrency
// and optional rate limiting on upload starts.
func runPutJob(ctx context.Context, path string) error {
	m, err := manifest.Load(path)
	if err != nil {
		observability.CLILogger.Error("Failed to load manifest",
			zap.String("path", path),
			zap.Error(err))
		return err
	}

	jobID := uuid.New().String()
	observability.CLILogger.Info("Starting upload job",
		zap.String("job_id", jobID),
		zap.String("bucket", m.Connection.Bucket),
		zap.Int("objects", len(m.Objects)),
		zap.Int("concurrency", m.Upload.Concurrency))

	up, err := newUploader(m.Connection.Endpoint, uploader.Config{
		MaxRetries: m.Upload.MaxRetries,
		Logger:     observability.CLILogger,
	})
	if err != nil {
		return err
	}

	var limiter *rate.Limiter
	if m.Upload.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(m.Upload.RateLimit), 1)
	}

	var (
		wg       sync.WaitGroup
		failures atomic.Int64
	)
	sem := make(chan struct{}, m.Upload.Concurrency)

	start := time.Now()
	for _, obj := range m.Objects {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				break
			}
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(obj manifest.ObjectSpec) {
			defer wg.Done()
			defer func() { <-sem }()

			in := uploader.PutInput{
				Bucket:       m.Connection.Bucket,
				Key:          obj.Key,
				FilePath:     obj.File,
				ContentType:  obj.ContentType,
				Metadata:     obj.Metadata,
				ACL:          signer.ACL(m.Upload.ACL),
				StorageClass: signer.StorageClass(m.Upload.StorageClass),
			}
			if m.Upload.ComputeMD5 {
				md5sum, err := uploader.FileContentMD5(obj.File)
				if err != nil {
					failures.Add(1)
					observability.CLILogger.Error("Checksum failed",
						zap.String("job_id", jobID),
						zap.String("key", obj.Key),
						zap.Error(err))
					return
				}
				in.ContentMD5 = md5sum
			}

			result, err := up.Put(ctx, in)
			if err != nil {
				failures.Add(1)
				observability.CLILogger.Error("Upload failed",
					zap.String("job_id", jobID),
					zap.String("key", obj.Key),
					zap.Error(err))
				return
			}
			observability.CLILogger.Info("Uploaded",
				zap.String("job_id", jobID),
				zap.String("key", obj.Key),
				zap.String("etag", result.ETag))
		}(obj)
	}
	wg.Wait()

	observability.CLILogger.Info("Upload job finished",
		zap.String("job_id", jobID),
		zap.Int("objects", len(m.Objects)),
		zap.Int64("failures", failures.Load()),
		zap.Duration("duration", time.Since(start)))

	if n := failures.Load(); n > 0 {
		return fmt.Errorf("%d of %d uploads failed", n, len(m.Objects))
	}
	return nil
}

// newUploader assembles the credential store, signer, HTTP transport and
// retry executor from the resolved configuration.
func newUploader(endpoint string, upCfg uploader.Config) (*uploader.Uploader, error) {
	conn := cfg.Connection
	if endpoint == "" {
		endpoint = conn.Endpoint
	}
	if endpoint == "" {
		return nil, fmt.Errorf("no endpoint configured (set connection.endpoint or OBSUP_CONNECTION_ENDPOINT)")
	}
	if conn.AccessKey == "" || conn.SecretKey == "" {
		return nil, fmt.Errorf("credentials not configured (set OBSUP_CONNECTION_ACCESS_KEY and OBSUP_CONNECTION_SECRET_KEY)")
	}

	var creds credentials.Credentials
	if conn.SecurityToken != "" {
		creds = credentials.NewTemporary(conn.AccessKey, conn.SecretKey, conn.SecurityToken)
	} else {
		creds = credentials.New(conn.AccessKey, conn.SecretKey)
	}

	sg, err := signer.New(endpoint, credentials.NewStore(creds))
	if err != nil {
		return nil, err
	}

	tr := transport.NewHTTPTransport(&http.Client{
		Transport: &http.Transport{
			ResponseHeaderTimeout: 30 * time.Second,
		},
	})
	return uploader.New(sg, tr, upCfg)
}

func parseMetadata(entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	meta := make(map[string]string, len(entries))
	for _, e := range entries {
		k, v, ok := strings.Cut(e, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid metadata entry %q (want key=value)", e)
		}
		meta[k] = v
	}
	return meta, nil
}
