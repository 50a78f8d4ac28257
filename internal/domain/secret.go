package domain

// SecretCredential es una entrada pre-aprovisionada del contenido secreto.
// El hash es de una via; la clave de contenido solo se revela ante match.
type SecretCredential struct {
	PasswordHash string
	ContentKey   string
}
