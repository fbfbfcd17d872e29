package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldUID 用户 ID 字段
	FieldUID = "uid"

	// FieldEntryID 日志条目 ID 字段
	FieldEntryID = "entryId"

	// FieldDate 日期字段
	FieldDate = "date"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldTask 后台任务名称字段
	FieldTask = "task"

	// FieldDuration 耗时字段
	FieldDuration = "duration"
)
