package domain

// CanEnroll решает, пускаем ли пользователя с тарифом userType на курс с типом
// courseType. Чистая функция, никуда не ходит и не паникует — на false хендлер
// отправляет на страницу тарифов, а не пытается записать enrollment.
func CanEnroll(userType, courseType string) bool {
	// Тип доступа у курса не настроен — гейта нет
	if courseType == "" {
		return true
	}
	switch userType {
	case TypePremium, TypePro:
		return true
	case TypeBasic:
		return courseType == CourseTypeBasic
	default:
		return false
	}
}
