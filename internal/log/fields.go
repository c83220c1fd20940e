package log

import "errors"

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldErrorType     = "error_type"
	FieldAccountID     = "account_id"
	FieldAccountName   = "account_name"
	FieldTransactionID = "transaction_id"
	FieldType          = "type"
	FieldCategoryID    = "category_id"
	FieldBudgetID      = "budget_id"
	FieldAmountCents   = "amount_cents"
	FieldBalanceCents  = "balance_cents"
	FieldDeltaCents    = "delta_cents"
	FieldPeriod        = "period"
	FieldEventID       = "event_id"
	FieldEventKind     = "event_kind"
	FieldDuration      = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentCLI      = "cli"
	ComponentStorage  = "storage"
	ComponentAccounts = "accounts"
	ComponentCategory = "categories"
	ComponentLedger   = "ledger"
	ComponentBudget   = "budget"
	ComponentReport   = "report"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentCache    = "cache"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpRecord   = "record"
	OpTransfer = "transfer"
	OpEdit     = "edit"
	OpEvaluate = "evaluate"
	OpReport   = "report"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeConflict      = "conflict_error"
	ErrorTypeInternal      = "internal_error"
)

// ErrorClassifier maps an error onto one of the ErrorType values.
type ErrorClassifier func(error) string

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds the error message and, when classify is given, its type.
func (f LogFields) WithError(err error, classify ErrorClassifier) LogFields {
	if err == nil {
		return f
	}
	f[FieldError] = err.Error()
	if classify != nil {
		f[FieldErrorType] = classify(err)
	}
	return f
}

func (f LogFields) WithAccount(id int64, name string) LogFields {
	f[FieldAccountID] = id
	if name != "" {
		f[FieldAccountName] = name
	}
	return f
}

// WithTransaction adds the fields every ledger mutation logs.
func (f LogFields) WithTransaction(id int64, typ string, amountCents int64) LogFields {
	f[FieldTransactionID] = id
	f[FieldType] = typ
	f[FieldAmountCents] = amountCents
	return f
}

func (f LogFields) WithCategory(id *int64) LogFields {
	if id != nil {
		f[FieldCategoryID] = *id
	}
	return f
}

func (f LogFields) WithBudget(id int64, period string) LogFields {
	f[FieldBudgetID] = id
	f[FieldPeriod] = period
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}

// ErrorType picks the first matching category for err from a list of
// sentinel/type pairs, falling back to ErrorTypeInternal.
func ErrorType(err error, kinds map[error]string) string {
	for sentinel, typ := range kinds {
		if errors.Is(err, sentinel) {
			return typ
		}
	}
	return ErrorTypeInternal
}
