package order

import "fmt"

// User-facing reply texts.
const (
	msgGreeting          = "Привет 👋\nЯ помогу оформить заказ на 3D-стикеры!"
	msgChooseFormat      = "Выбери формат стикеров:"
	msgSelectFormatFirst = "Сначала выбери формат!"
	msgPhotoTooEarly     = "Сначала выбери формат и количество!"
	msgNoActiveOrder     = "Нет активного заказа."
	msgQuantityPrompt    = "Отправь количество стикеров числом:"
)

// OrderButtonText labels the begin-order button on the greeting keyboard.
const OrderButtonText = "🧾 Оформить заказ"

func msgFormatChosen(format string, price int) string {
	return fmt.Sprintf("Формат выбран: %s\nЦена: %d₽ за штуку\n\nОтправь количество стикеров числом:", format, price)
}

func msgQuantityAccepted(quantity, total int) string {
	return fmt.Sprintf("Количество: %d\nИтого: %d₽\nТеперь отправь фото для печати.", quantity, total)
}

func msgPhotoAdded(doneToken string) string {
	return fmt.Sprintf("Фото добавлено ✅\nКогда все фото отправлены — напиши '%s'.", doneToken)
}

func msgAwaitingPhotos(doneToken string) string {
	return fmt.Sprintf("Отправь фото для печати или напиши '%s'.", doneToken)
}
