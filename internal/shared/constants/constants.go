package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Context keys set by the auth middleware
	ContextKeyUserID         = "user_id"
	ContextKeyUserRole       = "user_role"
	ContextKeyRequestContext = "request_context"
	ContextKeyRequestID      = "request_id"

	TableUsers             = "users"
	TableTickets           = "tickets"
	TableTicketComments    = "ticket_comments"
	TableTimeEntries       = "ticket_time_entries"
	TableActivityLog       = "activity_log"
	TableTicketHistory     = "ticket_history"
	TableTicketMessages    = "ticket_messages"
	TableTicketAttachments = "ticket_attachments"
	TableRecurringTasks    = "recurring_tasks"
	TableDebugLog          = "debug_log"

	// IngestLockKey guards against overlapping email ingest runs.
	IngestLockKey = "helpdesk:ingest:lock"

	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
)
