package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	_ "modernc.org/sqlite"
)

// Extension marks encrypted snapshot files.
const Extension = ".db.enc"

var lastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "grocer_backup_last_success_timestamp_seconds",
	Help: "Unix time of the last successful backup.",
})

// s3Client is the subset of the S3 API used here.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config points at S3-compatible storage. Uploads are enabled only when
// bucket and both keys are set.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

func (c S3Config) enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

type Config struct {
	DBPath     string
	Dir        string
	Passphrase string
	S3         S3Config
}

// Result describes one finished backup.
type Result struct {
	File  string
	S3Key string
	Size  int64
}

// Manager writes encrypted database snapshots to a local directory and,
// when configured, to S3.
type Manager struct {
	cfg    Config
	db     *sqlx.DB
	client s3Client
	logger *slog.Logger
	now    func() time.Time
}

// NewManager needs db only for Run; restore works on files.
func NewManager(cfg Config, db *sqlx.DB, logger *slog.Logger) *Manager {
	m := &Manager{
		cfg:    cfg,
		db:     db,
		logger: logger.With("component", "backup"),
		now:    time.Now,
	}
	if cfg.S3.enabled() {
		m.client = newS3Client(cfg.S3)
	}
	return m
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Run snapshots the live database with VACUUM INTO, encrypts the snapshot
// into cfg.Dir and uploads it when S3 is configured.
func (m *Manager) Run(ctx context.Context) (*Result, error) {
	if m.cfg.Passphrase == "" {
		return nil, errors.New("backup passphrase is not set")
	}
	if err := os.MkdirAll(m.cfg.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "grocer-backup-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	snapshot := filepath.Join(tmpDir, "snapshot.db")
	if _, err := m.db.ExecContext(ctx, `VACUUM INTO ?`, snapshot); err != nil {
		return nil, fmt.Errorf("snapshot database: %w", err)
	}
	plain, err := os.ReadFile(snapshot)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	sealed, err := Encrypt(plain, m.cfg.Passphrase)
	if err != nil {
		return nil, err
	}

	name := "grocer-" + m.now().UTC().Format("20060102T150405Z") + Extension
	res := &Result{File: filepath.Join(m.cfg.Dir, name), Size: int64(len(sealed))}
	if err := os.WriteFile(res.File, sealed, 0o600); err != nil {
		return nil, fmt.Errorf("write backup: %w", err)
	}

	if m.client != nil {
		_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(m.cfg.S3.Bucket),
			Key:           aws.String(name),
			Body:          bytes.NewReader(sealed),
			ContentLength: aws.Int64(res.Size),
		})
		if err != nil {
			return nil, fmt.Errorf("upload to s3: %w", err)
		}
		res.S3Key = name
	}

	lastSuccess.SetToCurrentTime()
	m.logger.Info("backup complete", "file", res.File, "s3_key", res.S3Key, "bytes", res.Size)
	return res, nil
}

// Restore replaces the database file with a decrypted backup. src is a local
// path, or "s3://<key>" to fetch from the configured bucket. The server must
// not be running.
func (m *Manager) Restore(ctx context.Context, src string) error {
	sealed, err := m.read(ctx, src)
	if err != nil {
		return err
	}
	plain, err := Decrypt(sealed, m.cfg.Passphrase)
	if err != nil {
		return err
	}

	tmp := m.cfg.DBPath + ".restore"
	if err := os.WriteFile(tmp, plain, 0o600); err != nil {
		return fmt.Errorf("write restored db: %w", err)
	}
	defer os.Remove(tmp)

	if err := checkIntegrity(ctx, tmp); err != nil {
		return err
	}

	os.Remove(m.cfg.DBPath + "-wal")
	os.Remove(m.cfg.DBPath + "-shm")
	if err := os.Rename(tmp, m.cfg.DBPath); err != nil {
		return fmt.Errorf("replace database: %w", err)
	}
	m.logger.Info("restore complete", "source", src, "db", m.cfg.DBPath)
	return nil
}

func (m *Manager) read(ctx context.Context, src string) ([]byte, error) {
	key, ok := strings.CutPrefix(src, "s3://")
	if !ok {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("read backup: %w", err)
		}
		return data, nil
	}
	if m.client == nil {
		return nil, errors.New("s3 is not configured")
	}
	out, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.cfg.S3.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("download from s3: %w", err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3 object: %w", err)
	}
	return data, nil
}

func checkIntegrity(ctx context.Context, path string) error {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open restored db: %w", err)
	}
	defer db.Close()

	var result string
	if err := db.GetContext(ctx, &result, `PRAGMA integrity_check`); err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}
	return nil
}

// Prune keeps the newest keep backups in cfg.Dir and deletes the rest, along
// with their S3 copies.
func (m *Manager) Prune(ctx context.Context, keep int) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(m.cfg.Dir, "grocer-*"+Extension))
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	if len(matches) <= keep {
		return nil, nil
	}
	// Timestamped names sort chronologically.
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))

	var removed []string
	for _, path := range matches[keep:] {
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("remove %s: %w", path, err)
		}
		removed = append(removed, path)
		if m.client == nil {
			continue
		}
		if _, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(m.cfg.S3.Bucket),
			Key:    aws.String(filepath.Base(path)),
		}); err != nil {
			m.logger.Warn("delete s3 object", "key", filepath.Base(path), "error", err)
		}
	}
	return removed, nil
}
