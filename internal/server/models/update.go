// Частичные обновления (partial update)
//
// Поля — указатели, чтобы отличать "не менять" от "записать пустое значение".
package models

// UserUpdate описывает частичное обновление пользователя.
type UserUpdate struct {
	Email        *string
	Username     *string
	IsActive     *bool
	PasswordHash *string
}

// PostUpdate описывает частичное обновление поста.
type PostUpdate struct {
	Title   *string
	Content *string
}
