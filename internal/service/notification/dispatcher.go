package notification

import (
	"context"
	"sync"
	"time"
)

// DefaultTimeout ограничение на доставку одного уведомления всеми каналами
const DefaultTimeout = 10 * time.Second

// Dispatcher рассылает уведомления о записях в фоне.
// Ошибки каналов только логируются и не возвращаются вызывающему.
type Dispatcher struct {
	channels []Channel
	timeout  time.Duration
	logger   Logger
	metrics  MetricsRecorder

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher создает диспетчер. timeout <= 0 заменяется на DefaultTimeout, metrics может быть nil.
func NewDispatcher(channels []Channel, timeout time.Duration, logger Logger, metrics MetricsRecorder) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		channels: channels,
		timeout:  timeout,
		logger:   logger,
		metrics:  metrics,
	}
}

// Notify ставит доставку в фон и сразу возвращает управление.
// Отмена ctx запроса не прерывает доставку.
func (d *Dispatcher) Notify(ctx context.Context, n Notification) {
	if n.Appointment == nil || len(d.channels) == 0 {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn("Notify: dispatcher closed, dropping notification for appointment %s", n.Appointment.ID)
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	msg := n.Message()
	deliveryCtx := context.WithoutCancel(ctx)

	go func() {
		defer d.wg.Done()
		d.deliver(deliveryCtx, msg)
	}()
}

// deliver последовательно доставляет сообщение во все каналы
func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	apptID := msg.Appointment.ID
	for _, ch := range d.channels {
		err := ch.Deliver(ctx, msg)
		if d.metrics != nil {
			d.metrics.ObserveNotification(ch.Name(), err)
		}
		if err != nil {
			d.logger.Error("Notify: channel %s failed for appointment %s: %v", ch.Name(), apptID, err)
			continue
		}
		d.logger.Info("Notify: channel %s delivered %s template for appointment %s", ch.Name(), msg.Template, apptID)
	}
}

// Close перестает принимать уведомления и ждет завершения уже запущенных доставок
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.wg.Wait()
}
