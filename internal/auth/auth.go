// Package auth содержит предикаты, ограничивающие регистрацию:
// белый список адресов и проверку стойкости пароля.
// Ядро мутаций эти проверки не вызывает - они применяются только при
// регистрации (на экране регистрации и на сервере).
package auth

import "strings"

// Белый список: только эти адреса и домены могут создавать учетные записи.
var (
	whitelistedEmails = []string{
		"john.barr@mainecc.edu",
		// Новые разрешенные адреса добавлять сюда
	}

	whitelistedDomains = []string{
		"mainecc.edu",
		// Новые разрешенные домены добавлять сюда
	}
)

// Требования к паролю.
const minPasswordLength = 12

// Распространенные пароли, запрещенные как подстроки.
var commonPasswords = []string{
	"password123", "admin123456", "123456789012", "qwerty123456",
	"password1234", "administrator",
}

// IsEmailAllowed проверяет, входит ли адрес в белый список:
// точное совпадение адреса либо совпадение домена. Регистр не учитывается.
func IsEmailAllowed(email string) bool {
	emailLower := strings.ToLower(strings.TrimSpace(email))

	for _, allowed := range whitelistedEmails {
		if strings.ToLower(allowed) == emailLower {
			return true
		}
	}

	at := strings.LastIndex(emailLower, "@")
	if at < 0 {
		return false
	}
	domain := emailLower[at+1:]
	for _, allowed := range whitelistedDomains {
		if domain == allowed {
			return true
		}
	}
	return false
}

// ValidatePassword проверяет стойкость пароля и возвращает список всех
// нарушений. Пустой список означает, что пароль принят.
func ValidatePassword(password string) []string {
	var errs []string

	if len(password) < minPasswordLength {
		errs = append(errs, "Password must be at least 12 characters long")
	}
	if !strings.ContainsAny(password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		errs = append(errs, "Password must contain at least one uppercase letter")
	}
	if !strings.ContainsAny(password, "abcdefghijklmnopqrstuvwxyz") {
		errs = append(errs, "Password must contain at least one lowercase letter")
	}
	if !strings.ContainsAny(password, "0123456789") {
		errs = append(errs, "Password must contain at least one number")
	}
	if !strings.ContainsAny(password, "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?") {
		errs = append(errs, "Password must contain at least one special character")
	}

	lower := strings.ToLower(password)
	for _, common := range commonPasswords {
		if strings.Contains(lower, common) {
			errs = append(errs, "Password contains common patterns - please choose a more unique password")
			break
		}
	}

	return errs
}
