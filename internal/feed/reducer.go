package feed

import (
	"sort"

	"boxing-forum/internal/domain"
)

// Apply pliega un mensaje observado sobre la secuencia local y devuelve la
// secuencia resultante. Es un reducer puro: no toca red ni estado externo.
//
// Reglas:
//   - insercion idempotente: un id ya presente deja la secuencia intacta;
//   - el caso comun es append al final, porque las notificaciones llegan en
//     orden de commit;
//   - si el mensaje entrante ordena antes que la cola actual (notificacion
//     fuera de orden), se inserta en su posicion canonica.
func Apply(seq []domain.FeedMessage, msg domain.FeedMessage) []domain.FeedMessage {
	for i := range seq {
		if seq[i].ID == msg.ID {
			return seq
		}
	}

	n := len(seq)
	if n == 0 || seq[n-1].Message.Before(msg.Message) {
		return append(seq, msg)
	}

	i := sort.Search(n, func(j int) bool {
		return msg.Message.Before(seq[j].Message)
	})
	seq = append(seq, domain.FeedMessage{})
	copy(seq[i+1:], seq[i:])
	seq[i] = msg
	return seq
}
