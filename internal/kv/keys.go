package kv

// Ключи локального хранилища: пространство имён + версия формата.
const (
	cartPrefix    = "techstore:cart:v1:"
	pcBuildPrefix = "techstore:pcbuild:v1:"
	sessionPrefix = "techstore:session:v1:"
)

func CartKey(clientID string) string    { return cartPrefix + clientID }
func PCBuildKey(clientID string) string { return pcBuildPrefix + clientID }
func SessionKey(jti string) string      { return sessionPrefix + jti }
