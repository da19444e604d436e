package db

// SchemaCapabilities records which optional tables exist. It is detected once
// at startup and handed to the components that degrade without them.
type SchemaCapabilities struct {
	TimeEntries    bool
	Messages       bool
	Attachments    bool
	DebugLog       bool
	RecurringTasks bool
}

// AllCapabilities reports every optional table present.
func AllCapabilities() SchemaCapabilities {
	return SchemaCapabilities{
		TimeEntries:    true,
		Messages:       true,
		Attachments:    true,
		DebugLog:       true,
		RecurringTasks: true,
	}
}
