package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldUserID      = "user_id"
	FieldTelegramID  = "telegram_user_id"
	FieldChatID      = "chat_id"
	FieldCommand     = "command"
	FieldPeriod      = "period"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldStep        = "step"
	FieldUsers       = "users"
	FieldSent        = "sent"
	FieldFailed      = "failed"
	FieldDuration    = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentBot        = "bot"
	ComponentSession    = "session"
	ComponentReports    = "reports"
	ComponentDispatcher = "dispatcher"
	ComponentScheduler  = "scheduler"
	ComponentStorage    = "storage"
	ComponentEvents     = "events"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpList     = "list"
	OpSend     = "send"
	OpDispatch = "dispatch"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
