package engine

import "fmt"

// NoticeLevel classifies a user-facing notification.
type NoticeLevel int

const (
	NoticeSuccess NoticeLevel = iota
	NoticeError
)

// Notice is a short user-facing message emitted by a visible refresh.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Notifier receives notices. Implementations must be safe to call from the
// goroutine that runs a synchronisation.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}

const (
	msgSyncSucceeded = "Dados atualizados com sucesso!"
	msgSyncFailed    = "Erro ao atualizar dados. Alguns dados podem não ter sido carregados."
)

func datasetFailedMessage(label string) string {
	return fmt.Sprintf("Erro ao carregar %s. Tente novamente mais tarde.", label)
}
