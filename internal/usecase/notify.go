package usecase

import "github.com/poruchai/poruchai/internal/adapter/mailer"

// Notifier schedules best-effort transactional email. Implementations must
// never block the calling operation.
type Notifier interface {
	Enqueue(msg mailer.Message)
}
