package domain

import "time"

// Principal — аутентифицированный пользователь.
type Principal struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// User — учётная запись для входа (хеш пароля наружу не отдаётся).
type User struct {
	ID           string
	Email        string
	PasswordHash string
}

// ChangeEvent — уведомление других экземпляров о мутации; получатель
// принудительно обновляет перечисленные коллекции.
type ChangeEvent struct {
	Mutation    string    `json:"mutation"`
	Collections []string  `json:"collections"`
	Origin      string    `json:"origin"`
	At          time.Time `json:"at"`
}
