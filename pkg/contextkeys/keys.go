package contextkeys

type contextKey string

// DBContextKey holds a *gorm.DB (usually an open transaction) in a context.Context.
const DBContextKey = contextKey("db")
