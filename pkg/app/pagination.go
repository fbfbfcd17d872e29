package app

// PaginationConfig pagination configuration // 分页配置
type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultPaginationConfig default pagination configuration // 默认分页配置
var DefaultPaginationConfig = PaginationConfig{
	DefaultPageSize: 20,
	MaxPageSize:     100,
}

// ResolveLimit applies the default to an unset limit and clamps to the max
// ResolveLimit 未设置时使用默认值，超过上限时截断
func ResolveLimit(limit int, cfg PaginationConfig) int {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = DefaultPaginationConfig.DefaultPageSize
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = DefaultPaginationConfig.MaxPageSize
	}
	if limit <= 0 {
		return cfg.DefaultPageSize
	}
	if limit > cfg.MaxPageSize {
		return cfg.MaxPageSize
	}
	return limit
}

// ResolveOffset negative offsets read as zero
func ResolveOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
