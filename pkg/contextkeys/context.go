package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// DBContextKey - ключ, по которому хранится *gorm.DB (пул или транзакция)
const DBContextKey = contextKey("db")

// Ключи gin.Context, которые выставляет Auth Gate
const (
	UserIDKey = "userID"
	UserKey   = "user"
)
