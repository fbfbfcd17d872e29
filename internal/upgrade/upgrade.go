// Package upgrade applies versioned data migrations on top of the auto-migrated schema
// Package upgrade 在自动迁移的表结构之上执行带版本号的数据升级
package upgrade

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/mod/semver"
	"gorm.io/gorm"
)

// SchemaVersion 已应用的升级记录
type SchemaVersion struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Version     string    `gorm:"not null;uniqueIndex;type:varchar(64)" json:"version"`
	Description string    `gorm:"type:text" json:"description"`
	AppliedAt   time.Time `gorm:"not null" json:"appliedAt"`
}

// Migration 升级脚本，Up 在事务中执行
type Migration interface {
	Version() string
	Description() string
	Up(ctx context.Context, tx *gorm.DB) error
}

// MigrationManager 升级管理器
type MigrationManager struct {
	db         *gorm.DB
	logger     *zap.Logger
	migrations []Migration
}

// DefaultMigrations 已发布的升级脚本
func DefaultMigrations() []Migration {
	return []Migration{
		&MoodBackfill{},
	}
}

// NewMigrationManager 创建升级管理器，未传入脚本时使用 DefaultMigrations
func NewMigrationManager(db *gorm.DB, lg *zap.Logger, migrations ...Migration) *MigrationManager {
	if lg == nil {
		lg = zap.NewNop()
	}
	if len(migrations) == 0 {
		migrations = DefaultMigrations()
	}
	return &MigrationManager{db: db, logger: lg, migrations: migrations}
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// Run 按版本号升序执行尚未应用的升级，返回本次应用的数量
func (m *MigrationManager) Run(ctx context.Context) (int, error) {
	if err := m.db.WithContext(ctx).AutoMigrate(&SchemaVersion{}); err != nil {
		return 0, errors.Wrap(err, "create schema_version table")
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "load applied versions")
	}

	pending := make([]Migration, 0, len(m.migrations))
	for _, mg := range m.migrations {
		v := canonical(mg.Version())
		if !semver.IsValid(v) {
			return 0, errors.Errorf("migration %q has an invalid version", mg.Version())
		}
		if applied[v] {
			continue
		}
		pending = append(pending, mg)
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return semver.Compare(canonical(pending[i].Version()), canonical(pending[j].Version())) < 0
	})

	for _, mg := range pending {
		m.logger.Info("applying migration",
			zap.String("version", mg.Version()),
			zap.String("desc", mg.Description()))

		start := time.Now()
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := mg.Up(ctx, tx); err != nil {
				return err
			}
			return tx.Create(&SchemaVersion{
				Version:     canonical(mg.Version()),
				Description: mg.Description(),
				AppliedAt:   time.Now().UTC(),
			}).Error
		})
		if err != nil {
			return 0, errors.Wrapf(err, "apply migration %s", mg.Version())
		}
		m.logger.Info("migration applied",
			zap.String("version", mg.Version()),
			zap.Duration("duration", time.Since(start)))
	}

	if len(pending) == 0 {
		m.logger.Info("database is already up to date")
	}
	return len(pending), nil
}

func (m *MigrationManager) appliedVersions(ctx context.Context) (map[string]bool, error) {
	var rows []SchemaVersion
	if err := m.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	applied := make(map[string]bool, len(rows))
	for _, r := range rows {
		applied[canonical(r.Version)] = true
	}
	return applied, nil
}
