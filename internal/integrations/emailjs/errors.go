package emailjs

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("emailjs client: internal error")

	// ErrRejected возвращается, когда EmailJS отклонил запрос (неверный шаблон, ключ, лимит)
	ErrRejected = errors.New("emailjs client: request rejected")

	// ErrUnavailable возвращается при недоступности EmailJS
	ErrUnavailable = errors.New("emailjs client: service unavailable")
)
