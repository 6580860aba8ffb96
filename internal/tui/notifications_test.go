package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/painel/internal/engine"
)

func TestNoticeQueue_DropsWhenFull(t *testing.T) {
	q := make(NoticeQueue, 1)
	q.Notify(engine.Notice{Message: "a"})
	q.Notify(engine.Notice{Message: "b"})

	require.Len(t, q, 1)
	assert.Equal(t, "a", (<-q).Message)
}

func TestWaitForNotice(t *testing.T) {
	q := NewNoticeQueue()
	n := engine.Notice{Level: engine.NoticeSuccess, Message: "Dados atualizados com sucesso!"}
	q.Notify(n)
	assert.Equal(t, NoticeMsg{Notice: n}, waitForNotice(q)())

	close(q)
	assert.Nil(t, waitForNotice(q)())
}

func TestToastStack(t *testing.T) {
	app := newTestApp(&fakeSyncer{})
	for i := 0; i < maxToasts+2; i++ {
		assert.NotNil(t, app.pushToast(engine.Notice{Message: "m"}))
	}
	require.Len(t, app.toasts, maxToasts)
	assert.Equal(t, 3, app.toasts[0].ID, "oldest toasts are dropped first")

	app.dropToast(5)
	assert.Len(t, app.toasts, maxToasts-1)
	app.dropToast(99)
	assert.Len(t, app.toasts, maxToasts-1)
}

func TestRenderToasts(t *testing.T) {
	app := newTestApp(&fakeSyncer{})
	assert.Empty(t, renderToasts(app))

	app.pushToast(engine.Notice{Level: engine.NoticeSuccess, Message: "Dados atualizados com sucesso!"})
	app.pushToast(engine.Notice{Level: engine.NoticeError, Message: "Erro ao carregar Série Mensal. Tente novamente mais tarde."})

	out := stripANSI(renderToasts(app))
	assert.Contains(t, out, "✓ Dados atualizados com sucesso!")
	assert.Contains(t, out, "✗ Erro ao carregar Série Mensal")
}
