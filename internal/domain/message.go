package domain

import "time"

// Message es una entrada inmutable del log de mensajes del canal.
type Message struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedMessage es un mensaje unido con el perfil publico de su autor.
type FeedMessage struct {
	Message
	Author Profile `json:"author"`
}

// Before reporta si m precede a other en el orden canonico:
// created_at ascendente, empates resueltos por id.
func (m Message) Before(other Message) bool {
	if m.CreatedAt.Equal(other.CreatedAt) {
		return m.ID < other.ID
	}
	return m.CreatedAt.Before(other.CreatedAt)
}
