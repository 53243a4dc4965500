package notification

import "errors"

var (
	// ErrDelivery возвращается каналом при неудачной доставке
	ErrDelivery = errors.New("notification: delivery failed")

	// ErrNoRecipient возвращается, когда каналу некуда доставить сообщение
	ErrNoRecipient = errors.New("notification: no recipient")
)
