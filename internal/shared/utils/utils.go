// Утилитарные функции общего назначения
package utils

// Ptr возвращает указатель на копию значения.
// Удобно для заполнения optional-полей в запросах и тестах.
func Ptr[T any](v T) *T {
	return &v
}

// StrPtr — строковый частный случай Ptr.
func StrPtr(s string) *string {
	return Ptr(s)
}
