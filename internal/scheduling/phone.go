package scheduling

import "strings"

// PhoneDigits — ожидаемая длина телефона.
const PhoneDigits = 10

// NormalizePhone оставляет только цифры, как при вводе в форму.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	b := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		c := phone[i]
		if c >= '0' && c <= '9' {
			b = append(b, c)
		}
	}
	return string(b)
}

// FormatPhone: "(555) 123-4567" для 10 цифр, иначе как есть.
func FormatPhone(phone string) string {
	if strings.TrimSpace(phone) == "" {
		return "no phone"
	}
	d := NormalizePhone(phone)
	if len(d) != PhoneDigits {
		return phone
	}
	return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}
