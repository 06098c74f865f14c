package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fyerfyer/doc-dashboard/api/middleware"
	"github.com/fyerfyer/doc-dashboard/config"
	"github.com/fyerfyer/doc-dashboard/internal/collection"
	"github.com/fyerfyer/doc-dashboard/internal/document"
	"github.com/fyerfyer/doc-dashboard/internal/kvstore"
	"github.com/fyerfyer/doc-dashboard/internal/models"
	"github.com/fyerfyer/doc-dashboard/internal/preview"
	"github.com/fyerfyer/doc-dashboard/internal/services"
	"github.com/fyerfyer/doc-dashboard/internal/upload"
	"github.com/fyerfyer/doc-dashboard/pkg/storage"
	"github.com/sirupsen/logrus"
)

// application 组装好的服务及其需要释放的资源
type application struct {
	cfg       *config.Config
	logger    *logrus.Logger
	logCloser io.Closer
	files     storage.Storage
	kv        kvstore.Store
	docs      *collection.Store
	service   *services.DashboardService
}

// setupApplication 按配置创建各个组件
func setupApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	logger, logCloser, err := setupLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to configure logger: %w", err)
	}

	app := &application{cfg: cfg, logger: logger, logCloser: logCloser}

	files, err := storage.New(ctx, storage.Config{
		Type:      cfg.Storage.Type,
		Path:      cfg.Storage.Path,
		Bucket:    cfg.Storage.Bucket,
		Prefix:    cfg.Storage.Prefix,
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		app.closeLog()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.files = files

	app.kv, err = kvstore.New(kvstore.Config{
		Type:          cfg.Snapshot.Type,
		RedisAddr:     cfg.Snapshot.RedisAddr,
		RedisPassword: cfg.Snapshot.RedisPassword,
		RedisDB:       cfg.Snapshot.RedisDB,
		DSN:           cfg.Snapshot.DSN,
		ProjectID:     cfg.Snapshot.ProjectID,
		Collection:    cfg.Snapshot.Collection,
	})
	if err != nil {
		app.closeLog()
		return nil, fmt.Errorf("failed to initialize snapshot store: %w", err)
	}

	app.docs = collection.NewStore(app.kv,
		collection.WithCapacity(cfg.Collection.Capacity),
		collection.WithSnapshotKey(cfg.Snapshot.Key),
		collection.WithLogger(logger),
	)
	// 快照读取失败只会得到空集合
	_ = app.docs.Init(ctx)

	gate, err := setupGate(cfg.Upload)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}

	mode, err := document.ParsePageMode(cfg.Preview.PageMode)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}

	layout, err := preview.ParseLayout(cfg.Preview.DefaultLayout, preview.Horizontal)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}

	builder := document.NewBuilder(mode, document.WithLogger(logger))
	app.service = services.NewDashboardService(
		gate,
		files,
		builder,
		app.docs,
		services.WithLogger(logger),
		services.WithSessionManager(preview.NewSessionManager(cfg.Preview.SessionTTL)),
		services.WithDefaultLayout(layout),
		services.WithExtractionLimit(cfg.Preview.ExtractionLimit),
	)

	logger.WithFields(logrus.Fields{
		"storage":   cfg.Storage.Type,
		"snapshot":  cfg.Snapshot.Type,
		"capacity":  cfg.Collection.Capacity,
		"page_mode": builder.Mode(),
		"documents": app.docs.Len(),
	}).Info("Dashboard initialized")

	return app, nil
}

// setupLogger 设置日志系统
func setupLogger(cfg config.LogConfig) (*logrus.Logger, io.Closer, error) {
	closer, err := middleware.ConfigureLogger(middleware.LogOptions{
		Level:      cfg.Level,
		File:       cfg.File,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	})
	if err != nil {
		return nil, nil, err
	}
	return middleware.GetLogger(), closer, nil
}

// setupGate 根据允许的类型名称创建上传校验器
func setupGate(cfg config.UploadConfig) (*upload.Gate, error) {
	kinds := make([]models.FileKind, 0, len(cfg.AllowedTypes))
	for _, name := range cfg.AllowedTypes {
		spec, ok := upload.LookupKind(name)
		if !ok {
			return nil, fmt.Errorf("unknown upload type in config: %s", name)
		}
		kinds = append(kinds, spec.Kind)
	}
	return upload.NewGate(upload.Config{
		AllowedKinds: kinds,
		MaxSize:      cfg.MaxSize,
	})
}

// Close 写出未保存的快照并释放资源
func (a *application) Close(ctx context.Context) error {
	var errs []error
	if a.docs != nil {
		if err := a.docs.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	// 只有持有客户端连接的后端实现了Close
	if closer, ok := a.files.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closeLog()
	return errors.Join(errs...)
}

func (a *application) closeLog() {
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}
