package api

import "time"

// Значения политики повторов по умолчанию для читающих запросов.
const (
	defaultMaxAttempts = 4 // Первая попытка + 3 повтора
	defaultBaseDelay   = time.Second
	defaultMaxDelay    = 30 * time.Second
)

// RetryPolicy описывает политику повторов читающего запроса как явное
// значение: максимум попыток и функция выдержки. Мутации никогда не
// повторяются автоматически - политика применяется только к List.
type RetryPolicy struct {
	MaxAttempts int           // Общее число попыток, включая первую
	BaseDelay   time.Duration // Выдержка перед первым повтором
	MaxDelay    time.Duration // Потолок выдержки
}

// DefaultRetryPolicy возвращает политику по умолчанию: 3 повтора с
// экспоненциальной выдержкой от 1 секунды с потолком 30 секунд.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: defaultMaxAttempts,
		BaseDelay:   defaultBaseDelay,
		MaxDelay:    defaultMaxDelay,
	}
}

// Delay возвращает выдержку перед повтором с указанным номером (от нуля):
// BaseDelay * 2^attempt, но не больше MaxDelay.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}
