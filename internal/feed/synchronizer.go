package feed

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"boxing-forum/internal/domain"
)

// MessageSource abstrae las lecturas del log de mensajes que necesita el
// sincronizador: la carga inicial y la resolucion de notificaciones.
type MessageSource interface {
	LoadRecent(ctx context.Context, limit int) ([]domain.FeedMessage, error)
	GetByID(ctx context.Context, id string) (domain.FeedMessage, error)
}

// seedLimit es la ventana de historia con la que se siembra cada handle.
const seedLimit = 100

// Synchronizer abre vistas vivas del log de mensajes. Cada handle converge
// al log verdadero combinando una carga inicial con la suscripcion a
// notificaciones de insercion.
type Synchronizer struct {
	logger   *zap.Logger
	source   MessageSource
	notifier Notifier
}

func NewSynchronizer(logger *zap.Logger, source MessageSource, notifier Notifier) *Synchronizer {
	return &Synchronizer{
		logger:   logger,
		source:   source,
		notifier: notifier,
	}
}

// Open activa la suscripcion, siembra el estado local con la historia
// reciente y arranca el consumidor de notificaciones.
//
// La suscripcion se activa antes de la siembra: un mensaje comprometido en
// medio puede llegar por ambas vias, y la insercion idempotente lo deja en
// una sola ocurrencia. Al reves se perderia.
func (s *Synchronizer) Open(ctx context.Context) (*LiveFeedHandle, error) {
	sub, err := s.notifier.Subscribe(ctx)
	if err != nil {
		return nil, err
	}

	seq, err := s.source.LoadRecent(ctx, seedLimit)
	if err != nil {
		// Estado degradado-vacio: sin historia, pero la suscripcion queda
		// viva y los mensajes nuevos siguen entrando.
		s.logger.Warn("feed seed load failed", zap.Error(err))
		seq = nil
	}

	handleCtx, cancel := context.WithCancel(context.Background())
	h := &LiveFeedHandle{
		logger:  s.logger,
		source:  s.source,
		sub:     sub,
		ctx:     handleCtx,
		cancel:  cancel,
		updates: make(chan domain.FeedMessage, subscriptionBuffer),
		seq:     seq,
	}
	go h.consume()
	return h, nil
}

// LiveFeedHandle es la vista viva de un cliente sobre el log de mensajes.
// La secuencia local es cache derivada y descartable; el log es la verdad.
type LiveFeedHandle struct {
	logger  *zap.Logger
	source  MessageSource
	sub     Subscription
	ctx     context.Context
	cancel  context.CancelFunc
	updates chan domain.FeedMessage

	mu     sync.Mutex
	seq    []domain.FeedMessage
	closed bool

	closeOnce sync.Once
}

// consume drena la suscripcion secuencialmente: resuelve cada id a su
// registro completo y lo pliega sobre la secuencia local.
func (h *LiveFeedHandle) consume() {
	defer close(h.updates)
	for id := range h.sub.C() {
		msg, err := h.source.GetByID(h.ctx, id)
		if err != nil {
			// Se descarta en lugar de reintentar: un loop de reintentos
			// bloquearia las notificaciones siguientes. El mensaje aparece
			// en la proxima recarga completa.
			h.logger.Warn("resolve feed notification failed", zap.Error(err), zap.String("message_id", id))
			continue
		}
		if !h.apply(msg) {
			continue
		}
		select {
		case h.updates <- msg:
		case <-h.ctx.Done():
			return
		}
	}
}

// apply pliega el mensaje y reporta si la secuencia cambio. Un handler en
// vuelo que llega despues de Close observa closed y descarta su trabajo.
func (h *LiveFeedHandle) apply(msg domain.FeedMessage) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	before := len(h.seq)
	h.seq = Apply(h.seq, msg)
	return len(h.seq) != before
}

// Snapshot devuelve una copia de la secuencia local convergida hasta ahora.
func (h *LiveFeedHandle) Snapshot() []domain.FeedMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]domain.FeedMessage, len(h.seq))
	copy(out, h.seq)
	return out
}

// Updates entrega cada mensaje nuevo ya plegado en la secuencia local.
// El canal se cierra cuando el handle se cierra.
func (h *LiveFeedHandle) Updates() <-chan domain.FeedMessage {
	return h.updates
}

// Close libera la suscripcion. Es seguro llamarlo varias veces y desde un
// camino de teardown con un handler de notificacion todavia en vuelo.
func (h *LiveFeedHandle) Close() {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.closed = true
		h.mu.Unlock()
		h.cancel()
		if err := h.sub.Close(); err != nil {
			h.logger.Warn("close feed subscription failed", zap.Error(err))
		}
	})
}
