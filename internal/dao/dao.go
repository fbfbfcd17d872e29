// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/haierkeys/chrono-journal-service/internal/model"
	"github.com/haierkeys/chrono-journal-service/pkg/fileurl"

	"github.com/glebarez/sqlite"
	"github.com/haierkeys/gormTracing"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const (
	TypeSqlite   = "sqlite"
	TypeMysql    = "mysql"
	TypePostgres = "postgres"
)

// DatabaseConfig 数据库连接配置
type DatabaseConfig struct {
	Type            string
	Path            string
	UserName        string
	Password        string
	Host            string
	Name            string
	TablePrefix     string
	AutoMigrate     bool
	Charset         string
	ParseTime       bool
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	RunMode         string
	// Tracing 为每条 SQL 创建 opentracing span
	Tracing bool
}

type Dao struct {
	Db     *gorm.DB
	Type   string
	logger *zap.Logger
}

// New 创建 Dao
func New(db *gorm.DB, dbType string, lg *zap.Logger) *Dao {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Dao{Db: db, Type: dbType, logger: lg}
}

func (d *Dao) DB() *gorm.DB {
	return d.Db
}

// Optimize refreshes planner statistics for the configured driver
// Optimize 刷新查询规划器统计信息
func (d *Dao) Optimize(ctx context.Context) error {
	var stmt string
	switch d.Type {
	case TypeMysql:
		stmt = "ANALYZE TABLE " + d.tableName()
	case TypePostgres:
		stmt = "ANALYZE " + d.tableName()
	default:
		stmt = "PRAGMA optimize"
	}
	start := time.Now()
	if err := d.Db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return errors.Wrap(err, "optimize database")
	}
	d.logger.Info("database optimized", zap.String("type", d.Type), zap.Duration("duration", time.Since(start)))
	return nil
}

func (d *Dao) tableName() string {
	return d.Db.NamingStrategy.TableName("Entry")
}

// Close 关闭底层连接池
func (d *Dao) Close() error {
	sqlDB, err := d.Db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewDBEngineWithConfig opens the configured database and migrates the schema
// when AutoMigrate is set
// NewDBEngineWithConfig 打开数据库，AutoMigrate 为真时迁移表结构
func NewDBEngineWithConfig(c DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	dialector, err := useDialector(c)
	if err != nil {
		return nil, err
	}

	logMode := logger.Silent
	if c.RunMode == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix, // 表名前缀，`Entry` 的表名应该是 `t_entry`
			SingularTable: true,          // 使用单数表名
		},
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", c.Type)
	}

	// 获取通用数据库对象 sql.DB ，然后使用其提供的功能
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if c.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)
	}
	if c.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(c.ConnMaxIdleTime)
	}

	if c.Tracing {
		if err := db.Use(&gormTracing.OpentracingPlugin{}); err != nil {
			return nil, errors.Wrap(err, "register tracing plugin")
		}
	}

	if c.AutoMigrate {
		if err := model.AutoMigrate(db, ""); err != nil {
			return nil, errors.Wrap(err, "auto migrate")
		}
	}

	if lg != nil {
		lg.Info("database connected", zap.String("type", c.Type))
	}
	return db, nil
}

func useDialector(c DatabaseConfig) (gorm.Dialector, error) {
	switch c.Type {
	case TypeMysql:
		charset := c.Charset
		if charset == "" {
			charset = "utf8mb4"
		}
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=UTC",
			c.UserName,
			c.Password,
			c.Host,
			c.Name,
			charset,
			c.ParseTime,
		)), nil
	case TypePostgres:
		host, port, err := net.SplitHostPort(c.Host)
		if err != nil {
			host, port = c.Host, "5432"
		}
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return postgres.Open(fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			host, port, c.UserName, c.Password, c.Name, sslMode,
		)), nil
	case TypeSqlite, "":
		if c.Path == "" {
			return nil, errors.New("sqlite path is empty")
		}
		if c.Path != ":memory:" && !fileurl.IsExist(c.Path) {
			if err := fileurl.CreatePath(c.Path, os.ModePerm); err != nil {
				return nil, errors.Wrap(err, "create sqlite directory")
			}
		}
		return sqlite.Open(c.Path), nil
	}
	return nil, errors.Errorf("unsupported database type %q", c.Type)
}
