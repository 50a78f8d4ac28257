package domain

import "time"

// Identity es el perfil publico de un participante del foro.
type Identity struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Handle       string    `json:"-"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile son los campos publicos que acompanan a cada mensaje.
type Profile struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// PublicProfile devuelve la proyeccion publica de la identidad.
func (i Identity) PublicProfile() Profile {
	return Profile{
		Username:    i.Username,
		DisplayName: i.DisplayName,
		AvatarURL:   i.AvatarURL,
	}
}
